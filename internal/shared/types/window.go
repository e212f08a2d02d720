package types

import (
	"time"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
)

// SessionState represents the lifecycle state of a floating window session
type SessionState string

const (
	StateLoading   SessionState = "loading"
	StateActive    SessionState = "active"
	StateMinimized SessionState = "minimized"
	StateClosing   SessionState = "closing"
)

// Stable reports whether the state is one a session rests in between operations
func (s SessionState) Stable() bool {
	return s == StateActive || s == StateMinimized
}

// Visibility is the visual form the overlay shell renders a session in
type Visibility string

const (
	VisibilityNormal Visibility = "normal"
	VisibilityBubble Visibility = "bubble"
)

// AppIdentity is the catalog-resolved reference to a launchable application.
// Package is the key for the one-session-per-app rule.
type AppIdentity struct {
	Package string `json:"package"`
	Label   string `json:"label"`
	Icon    string `json:"icon,omitempty"`
}

// Geometry is an on-screen placement in pixels
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is a position in overlay coordinates
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScreenMetrics describes the physical screen the overlay is drawn on
type ScreenMetrics struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	DensityDPI int `json:"density_dpi"`
}

// Landscape reports whether the screen is wider than tall
func (m ScreenMetrics) Landscape() bool {
	return m.Width > m.Height
}

// Surface is an opaque handle to a drawable surface owned by the overlay shell
type Surface string

// DisplayID identifies a render target inside the platform's display space.
// 0 is the default (physical) display.
type DisplayID int

const DefaultDisplay DisplayID = 0

// TaskID identifies an externally observed running task
type TaskID int

// ProcessInfo is one entry of a running-process snapshot
type ProcessInfo struct {
	TaskID  TaskID `json:"task_id"`
	Package string `json:"package"`
}

// SessionInfo is a read-only snapshot of a session
type SessionInfo struct {
	ID            id.SessionID `json:"id"`
	App           AppIdentity  `json:"app"`
	State         SessionState `json:"state"`
	Geometry      Geometry     `json:"geometry"`
	SavedGeometry Geometry     `json:"saved_geometry"`
	Resizing      bool         `json:"resizing"`
	DisplayID     *DisplayID   `json:"display_id,omitempty"`
	TaskID        *TaskID      `json:"task_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	MinimizedAt   *time.Time   `json:"minimized_at,omitempty"`
}

// Stats contains window manager statistics
type Stats struct {
	TotalSessions     int           `json:"total_sessions"`
	LoadingSessions   int           `json:"loading_sessions"`
	ActiveSessions    int           `json:"active_sessions"`
	MinimizedSessions int           `json:"minimized_sessions"`
	BoundTasks        int           `json:"bound_tasks"`
	FocusedSessionID  *id.SessionID `json:"focused_session_id,omitempty"`
}
