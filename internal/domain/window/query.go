package window

import (
	"context"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// ForwardPointer routes a pointer event into the session's render target.
// Without a target (still loading) the event is dropped.
func (m *Manager) ForwardPointer(ctx context.Context, sid id.SessionID, ev types.PointerEvent) error {
	target, ok, err := m.target(ctx, sid)
	if err != nil || !ok {
		return err
	}
	m.router.ForwardPointer(ctx, ev, target)
	return nil
}

// PressBack sends a back key press to the session's render target
func (m *Manager) PressBack(ctx context.Context, sid id.SessionID) error {
	target, ok, err := m.target(ctx, sid)
	if err != nil || !ok {
		return err
	}
	m.router.ForwardKey(ctx, types.KeyCodeBack, target)
	return nil
}

// target looks the display up on the loop; injection itself runs on the
// caller's goroutine so a slow pipeline never stalls the loop.
func (m *Manager) target(ctx context.Context, sid id.SessionID) (types.DisplayID, bool, error) {
	var (
		target types.DisplayID
		ok     bool
	)
	err := m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		if s.handle != nil && !s.handle.Released() {
			target, ok = s.handle.ID(), true
		}
		return nil
	})
	return target, ok, err
}

// Sessions returns a snapshot of every session in creation order
func (m *Manager) Sessions(ctx context.Context) ([]types.SessionInfo, error) {
	var out []types.SessionInfo
	err := m.do(ctx, func() error {
		out = make([]types.SessionInfo, 0, len(m.order))
		for _, sid := range m.order {
			out = append(out, m.sessions[sid].info(m.tasks))
		}
		return nil
	})
	return out, err
}

// Session returns a snapshot of one session
func (m *Manager) Session(ctx context.Context, sid id.SessionID) (types.SessionInfo, error) {
	var info types.SessionInfo
	err := m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		info = s.info(m.tasks)
		return nil
	})
	return info, err
}

// Stats returns session counts
func (m *Manager) Stats(ctx context.Context) (types.Stats, error) {
	var stats types.Stats
	err := m.do(ctx, func() error {
		stats.TotalSessions = len(m.sessions)
		for _, s := range m.sessions {
			switch s.state {
			case types.StateLoading:
				stats.LoadingSessions++
			case types.StateActive:
				stats.ActiveSessions++
			case types.StateMinimized:
				stats.MinimizedSessions++
			}
		}
		stats.BoundTasks = m.tasks.Len()
		if m.focused != "" {
			focused := m.focused
			stats.FocusedSessionID = &focused
		}
		return nil
	})
	return stats, err
}
