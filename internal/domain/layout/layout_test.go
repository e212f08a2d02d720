package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

func TestBubblesStack(t *testing.T) {
	p := DefaultPolicy()
	screen := types.ScreenMetrics{Width: 800, Height: 1600}

	got := p.Bubbles(3, screen)

	assert.Equal(t, []types.Point{
		{X: 300, Y: -600},
		{X: 300, Y: -440},
		{X: 300, Y: -280},
	}, got)
}

func TestBubblesIsDeterministic(t *testing.T) {
	p := DefaultPolicy()
	screen := types.ScreenMetrics{Width: 1080, Height: 2400}

	assert.Equal(t, p.Bubbles(5, screen), p.Bubbles(5, screen))
	assert.Equal(t, p.Bubbles(5, screen)[:2], p.Bubbles(2, screen))
	assert.Nil(t, p.Bubbles(0, screen))
}

func TestBubblesFollowRotation(t *testing.T) {
	p := DefaultPolicy()

	portrait := p.Bubbles(1, types.ScreenMetrics{Width: 1080, Height: 2400})
	landscape := p.Bubbles(1, types.ScreenMetrics{Width: 2400, Height: 1080})

	assert.Equal(t, types.Point{X: 440, Y: -1000}, portrait[0])
	assert.Equal(t, types.Point{X: 1100, Y: -340}, landscape[0])
}

func TestDefaultGeometry(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name   string
		screen types.ScreenMetrics
		want   types.Geometry
	}{
		{"portrait uses fixed box", types.ScreenMetrics{Width: 1080, Height: 2400}, types.Geometry{Width: 800, Height: 1200}},
		{"landscape derives from height", types.ScreenMetrics{Width: 2400, Height: 1080}, types.Geometry{Width: 550, Height: 918}},
		{"square counts as portrait", types.ScreenMetrics{Width: 1500, Height: 1500}, types.Geometry{Width: 800, Height: 1200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DefaultGeometry(tt.screen))
		})
	}
}

func TestClampSize(t *testing.T) {
	p := DefaultPolicy()
	screen := types.ScreenMetrics{Width: 1080, Height: 2400}

	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"inside bounds", 600, 900, 600, 900},
		{"below minimum", 100, 200, 450, 450},
		{"above screen", 5000, 5000, 1030, 2350},
		{"mixed", 10, 5000, 450, 2350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := p.ClampSize(screen, tt.w, tt.h)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}

	w, h := p.ClampSize(types.ScreenMetrics{Width: 300, Height: 300}, 1000, 10)
	assert.Equal(t, 450, w, "tiny screens fall back to the minimum size")
	assert.Equal(t, 450, h)
}

func TestEdgeHandle(t *testing.T) {
	screen := types.ScreenMetrics{Width: 1080, Height: 2400}

	tests := []struct {
		offset int
		want   int
	}{
		{50, 0},
		{0, -1200},
		{100, 1200},
		{75, 600},
	}

	for _, tt := range tests {
		got := EdgeHandle(HandlePrefs{Left: true, VerticalOffset: tt.offset, Width: 20, Height: 300}, screen)
		assert.Equal(t, tt.want, got.OffsetY, "offset %d", tt.offset)
		assert.True(t, got.Left)
		assert.Equal(t, 20, got.Width)
		assert.Equal(t, 300, got.Height)
	}
}
