package layout

import "github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"

// HandlePrefs are the shell preferences that shape the edge handle
type HandlePrefs struct {
	Left           bool `json:"left"`
	VerticalOffset int  `json:"vertical_offset"` // percent of screen height, 50 = centered
	Width          int  `json:"width"`
	Height         int  `json:"height"`
	Opacity        int  `json:"opacity"`
}

// HandlePlacement tells the shell where to put the edge handle. OffsetY is
// relative to the vertical center of the chosen edge.
type HandlePlacement struct {
	Left    bool `json:"left"`
	OffsetY int  `json:"offset_y"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Opacity int  `json:"opacity"`
}

// EdgeHandle maps the vertical offset percentage onto the half screen height:
// 0% is the top edge, 50% the center, 100% the bottom edge.
func EdgeHandle(prefs HandlePrefs, screen types.ScreenMetrics) HandlePlacement {
	offset := int(float64(prefs.VerticalOffset-50) / 50 * float64(screen.Height/2))
	return HandlePlacement{
		Left:    prefs.Left,
		OffsetY: offset,
		Width:   prefs.Width,
		Height:  prefs.Height,
		Opacity: prefs.Opacity,
	}
}
