package window

import (
	"time"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/display"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/task"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

var transitions = map[types.SessionState][]types.SessionState{
	types.StateLoading:   {types.StateActive, types.StateClosing},
	types.StateActive:    {types.StateMinimized, types.StateClosing},
	types.StateMinimized: {types.StateActive, types.StateClosing},
}

// session is owned by the controller loop; nothing outside it touches one.
type session struct {
	id    id.SessionID
	app   types.AppIdentity
	state types.SessionState

	geometry types.Geometry
	saved    types.Geometry
	resizing bool

	handle *display.Handle

	// creating is set while the render target is being created off the
	// loop; a surface that arrives meanwhile waits in pending.
	creating bool
	pending  *surfaceReady

	createdAt     time.Time
	minimizedAt   *time.Time
	minimizeOrder uint64

	// Pending timers carry the generation they were armed with; bumping
	// the generation turns an already-fired callback into a no-op.
	resizeTimer Timer
	resizeGen   uint64
	loadTimer   Timer
	loadGen     uint64
}

type surfaceReady struct {
	surface       types.Surface
	width, height int
}

func (s *session) can(to types.SessionState) bool {
	for _, next := range transitions[s.state] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *session) cancelResize() {
	if s.resizeTimer != nil {
		s.resizeTimer.Stop()
		s.resizeTimer = nil
	}
	s.resizeGen++
}

func (s *session) cancelLoad() {
	if s.loadTimer != nil {
		s.loadTimer.Stop()
		s.loadTimer = nil
	}
	s.loadGen++
}

func (s *session) info(tasks *task.Registry) types.SessionInfo {
	info := types.SessionInfo{
		ID:            s.id,
		App:           s.app,
		State:         s.state,
		Geometry:      s.geometry,
		SavedGeometry: s.saved,
		Resizing:      s.resizing,
		CreatedAt:     s.createdAt,
	}
	if s.handle != nil && !s.handle.Released() {
		displayID := s.handle.ID()
		info.DisplayID = &displayID
	}
	if t, ok := tasks.TaskForSession(s.id); ok {
		info.TaskID = &t
	}
	if s.minimizedAt != nil {
		at := *s.minimizedAt
		info.MinimizedAt = &at
	}
	return info
}
