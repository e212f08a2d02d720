package layout

import (
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Policy holds the sizing constants for floating windows and bubbles.
// Overlay coordinates are relative to the screen center.
type Policy struct {
	PortraitWidth        int
	PortraitHeight       int
	LandscapeHeightRatio float64
	LandscapeAspect      float64
	MinSize              int
	ScreenMargin         int
	BubbleSize           int
	BubbleInsetX         int
	BubbleTop            int
	BubbleSpacing        int
}

// DefaultPolicy returns the stock sizing policy
func DefaultPolicy() Policy {
	return Policy{
		PortraitWidth:        800,
		PortraitHeight:       1200,
		LandscapeHeightRatio: 0.85,
		LandscapeAspect:      0.6,
		MinSize:              450,
		ScreenMargin:         50,
		BubbleSize:           140,
		BubbleInsetX:         100,
		BubbleTop:            200,
		BubbleSpacing:        160,
	}
}

// Bubbles computes the stacked positions for n minimized sessions, in
// minimize order. Index i sits at (W/2 - inset, -H/2 + top + i*spacing).
// The result depends only on its arguments; callers recompute the whole
// stack on every change.
func (p Policy) Bubbles(n int, screen types.ScreenMetrics) []types.Point {
	if n <= 0 {
		return nil
	}
	x := screen.Width/2 - p.BubbleInsetX
	startY := -screen.Height/2 + p.BubbleTop

	points := make([]types.Point, n)
	for i := range points {
		points[i] = types.Point{X: x, Y: startY + i*p.BubbleSpacing}
	}
	return points
}

// DefaultGeometry returns the centered placement for a newly opened window.
// Portrait screens get the fixed box; landscape derives height from the
// screen and width from that height.
func (p Policy) DefaultGeometry(screen types.ScreenMetrics) types.Geometry {
	w, h := p.PortraitWidth, p.PortraitHeight
	if screen.Landscape() {
		h = int(float64(screen.Height) * p.LandscapeHeightRatio)
		w = int(float64(h) * p.LandscapeAspect)
	}
	return types.Geometry{Width: w, Height: h}
}

// ClampSize bounds a requested window size to [MinSize, screen - margin] on
// each axis. When the screen is smaller than MinSize plus margin, MinSize wins.
func (p Policy) ClampSize(screen types.ScreenMetrics, w, h int) (int, int) {
	return clamp(w, p.MinSize, screen.Width-p.ScreenMargin),
		clamp(h, p.MinSize, screen.Height-p.ScreenMargin)
}

// BubbleGeometry places a bubble of the policy's size at pt
func (p Policy) BubbleGeometry(pt types.Point) types.Geometry {
	return types.Geometry{X: pt.X, Y: pt.Y, Width: p.BubbleSize, Height: p.BubbleSize}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
