package window

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/layout"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// ResizeSession sets an active window's size, clamped to the screen, and
// resizes its render target right away.
func (m *Manager) ResizeSession(ctx context.Context, sid id.SessionID, width, height int) error {
	return m.do(ctx, func() error {
		s, err := m.activeSession(sid, "resize")
		if err != nil {
			return err
		}
		m.applySize(ctx, s, width, height)
		m.propagateSize(ctx, s)
		return nil
	})
}

// BeginResize starts a drag-resize gesture on an active window
func (m *Manager) BeginResize(ctx context.Context, sid id.SessionID) error {
	return m.do(ctx, func() error {
		s, err := m.activeSession(sid, "resize")
		if err != nil {
			return err
		}
		s.resizing = true
		return nil
	})
}

// ResizeMove updates the window during a drag-resize gesture. The overlay
// follows immediately; the render target is resized only once the gesture
// has been quiet for the debounce interval.
func (m *Manager) ResizeMove(ctx context.Context, sid id.SessionID, width, height int) error {
	return m.do(ctx, func() error {
		s, err := m.activeSession(sid, "resize")
		if err != nil {
			return err
		}
		if !s.resizing {
			return fmt.Errorf("%w: no resize gesture in progress", ErrInvalidState)
		}
		m.applySize(ctx, s, width, height)
		m.armResize(s)
		return nil
	})
}

// EndResize finishes a drag-resize gesture (pointer up or cancel). Any
// pending debounced resize is replaced by exactly one immediate one.
// Ending a gesture that is not in progress is a no-op.
func (m *Manager) EndResize(ctx context.Context, sid id.SessionID) error {
	return m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		if !s.resizing {
			return nil
		}
		s.cancelResize()
		s.resizing = false
		m.propagateSize(ctx, s)
		return nil
	})
}

func (m *Manager) armResize(s *session) {
	s.cancelResize()
	gen := s.resizeGen

	s.resizeTimer = m.clock.AfterFunc(m.cfg.ResizeDebounce, func() {
		m.post(func() {
			current, ok := m.sessions[s.id]
			if !ok || current != s || s.resizeGen != gen {
				return
			}
			s.resizeTimer = nil
			m.propagateSize(m.runCtx, s)
		})
	})
}

func (m *Manager) applySize(ctx context.Context, s *session, width, height int) {
	s.geometry.Width, s.geometry.Height = m.cfg.Policy.ClampSize(m.screen, width, height)
	m.shellCall("update_geometry", s.id, m.shell.UpdateOverlayGeometry(ctx, s.id, s.geometry))
}

// MoveSession repositions a window or bubble
func (m *Manager) MoveSession(ctx context.Context, sid id.SessionID, x, y int) error {
	return m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		if s.state != types.StateActive && s.state != types.StateMinimized {
			return fmt.Errorf("%w: cannot move %s session", ErrInvalidState, s.state)
		}
		s.geometry.X, s.geometry.Y = x, y
		m.shellCall("update_geometry", s.id, m.shell.UpdateOverlayGeometry(ctx, s.id, s.geometry))
		return nil
	})
}

// MinimizeSession turns an active window into a bubble
func (m *Manager) MinimizeSession(ctx context.Context, sid id.SessionID) error {
	return m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		if !s.can(types.StateMinimized) {
			return fmt.Errorf("%w: cannot minimize %s session", ErrInvalidState, s.state)
		}
		m.minimize(ctx, s)
		m.restack(ctx)
		return nil
	})
}

// MaximizeSession restores a bubble to its saved window and minimizes
// every other active window.
func (m *Manager) MaximizeSession(ctx context.Context, sid id.SessionID) error {
	return m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		if s.state != types.StateMinimized {
			return fmt.Errorf("%w: cannot maximize %s session", ErrInvalidState, s.state)
		}
		m.restore(ctx, s)
		m.minimizeOthers(ctx, sid)
		m.restack(ctx)
		m.focused = sid
		m.publish(EventMaximized, s)
		return nil
	})
}

// MinimizeOthers minimizes every active window except exceptID. An empty
// or unknown exceptID minimizes them all.
func (m *Manager) MinimizeOthers(ctx context.Context, exceptID id.SessionID) error {
	return m.do(ctx, func() error {
		m.minimizeOthers(ctx, exceptID)
		return nil
	})
}

func (m *Manager) minimizeOthers(ctx context.Context, exceptID id.SessionID) int {
	n := 0
	for _, sid := range m.order {
		s := m.sessions[sid]
		if sid == exceptID || s.state != types.StateActive {
			continue
		}
		m.minimize(ctx, s)
		n++
	}
	if n > 0 {
		m.restack(ctx)
	}
	return n
}

// minimize saves the window geometry and shrinks the session to a bubble.
// The caller restacks.
func (m *Manager) minimize(ctx context.Context, s *session) {
	s.cancelResize()
	s.resizing = false
	s.saved = s.geometry
	s.state = types.StateMinimized

	now := m.clock.Now()
	s.minimizedAt = &now
	m.minimizeSeq++
	s.minimizeOrder = m.minimizeSeq

	s.geometry.Width, s.geometry.Height = m.cfg.Policy.BubbleSize, m.cfg.Policy.BubbleSize
	m.shellCall("set_visibility", s.id, m.shell.SetVisibility(ctx, s.id, types.VisibilityBubble))
	if m.focused == s.id {
		m.focused = ""
	}
	m.publish(EventMinimized, s)
}

// restore puts a minimized session back to its saved window
func (m *Manager) restore(ctx context.Context, s *session) {
	s.geometry = s.saved
	s.state = types.StateActive
	s.minimizedAt = nil
	s.minimizeOrder = 0

	m.shellCall("set_visibility", s.id, m.shell.SetVisibility(ctx, s.id, types.VisibilityNormal))
	m.shellCall("update_geometry", s.id, m.shell.UpdateOverlayGeometry(ctx, s.id, s.geometry))
	m.propagateSize(ctx, s)
}

// OnScreenMetricsChanged handles rotation and resolution changes: the edge
// handle is re-placed and the bubble stack recomputed.
func (m *Manager) OnScreenMetricsChanged(ctx context.Context, metrics types.ScreenMetrics) error {
	if metrics.Width <= 0 || metrics.Height <= 0 {
		return fmt.Errorf("invalid screen metrics %dx%d", metrics.Width, metrics.Height)
	}
	return m.do(ctx, func() error {
		m.screen = metrics
		m.placeEdgeHandle(ctx)
		m.restack(ctx)
		return nil
	})
}

// SetHandlePrefs updates the edge handle preferences and re-places it
func (m *Manager) SetHandlePrefs(ctx context.Context, prefs layout.HandlePrefs) error {
	return m.do(ctx, func() error {
		m.cfg.Handle = prefs
		m.placeEdgeHandle(ctx)
		return nil
	})
}

func (m *Manager) placeEdgeHandle(ctx context.Context) {
	placement := layout.EdgeHandle(m.cfg.Handle, m.screen)
	if err := m.shell.PlaceEdgeHandle(ctx, placement); err != nil {
		m.logger.Warn("Edge handle placement failed", zap.Error(err))
	}
}

func (m *Manager) activeSession(sid id.SessionID, op string) (*session, error) {
	s, err := m.lookup(sid)
	if err != nil {
		return nil, err
	}
	if s.state != types.StateActive {
		return nil, fmt.Errorf("%w: cannot %s %s session", ErrInvalidState, op, s.state)
	}
	return s, nil
}
