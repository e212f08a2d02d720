package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStateStable(t *testing.T) {
	assert.True(t, StateActive.Stable())
	assert.True(t, StateMinimized.Stable())
	assert.False(t, StateLoading.Stable())
	assert.False(t, StateClosing.Stable())
}

func TestScreenMetricsLandscape(t *testing.T) {
	assert.False(t, ScreenMetrics{Width: 1080, Height: 2400}.Landscape())
	assert.True(t, ScreenMetrics{Width: 2400, Height: 1080}.Landscape())
	assert.False(t, ScreenMetrics{Width: 1000, Height: 1000}.Landscape())
}

func TestInputEventTarget(t *testing.T) {
	assert.Equal(t, DisplayID(7), InputEvent{Pointer: &PointerEvent{DisplayID: 7}}.Target())
	assert.Equal(t, DisplayID(9), InputEvent{Key: &KeyEvent{DisplayID: 9}}.Target())
	assert.Equal(t, DefaultDisplay, InputEvent{}.Target())
}
