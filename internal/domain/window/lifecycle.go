package window

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/display"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// LaunchOrFocus brings app to the front. An existing session for the same
// package is raised (and restored if minimized) without a new render
// target; otherwise a new session is opened. Every other active session is
// minimized either way.
func (m *Manager) LaunchOrFocus(ctx context.Context, app types.AppIdentity) (id.SessionID, error) {
	if app.Package == "" {
		return "", fmt.Errorf("%w: empty package", ErrInvalidApp)
	}

	var sid id.SessionID
	err := m.do(ctx, func() error {
		if existing, ok := m.byPackage[app.Package]; ok {
			sid = existing
			m.raise(ctx, m.sessions[existing])
			return nil
		}

		m.minimizeOthers(ctx, "")
		opened, err := m.openSession(ctx, app)
		if err != nil {
			return err
		}
		sid = opened
		return nil
	})
	if err != nil {
		return "", err
	}
	return sid, nil
}

func (m *Manager) raise(ctx context.Context, s *session) {
	m.minimizeOthers(ctx, s.id)
	if s.state == types.StateMinimized {
		m.restore(ctx, s)
		m.restack(ctx)
	}
	m.focused = s.id
	m.publish(EventRaised, s)
}

// openSession registers a loading session and asks the shell for a surface.
// The render target is created once the surface is ready.
func (m *Manager) openSession(ctx context.Context, app types.AppIdentity) (id.SessionID, error) {
	s := &session{
		id:        id.NewSessionID(),
		app:       app,
		state:     types.StateLoading,
		geometry:  m.cfg.Policy.DefaultGeometry(m.screen),
		createdAt: m.clock.Now(),
	}

	m.sessions[s.id] = s
	m.byPackage[app.Package] = s.id
	m.order = append(m.order, s.id)

	if err := m.shell.AddOverlaySurface(ctx, s.id, app, s.geometry); err != nil {
		m.forget(s)
		return "", fmt.Errorf("failed to add overlay surface for %s: %w", app.Package, err)
	}
	m.shellCall("set_loading", s.id, m.shell.SetLoading(ctx, s.id, true))

	m.focused = s.id
	m.publish(EventOpened, s)

	m.logger.Info("Session opened",
		zap.String("session_id", s.id.String()),
		zap.String("package", app.Package),
		zap.Int("width", s.geometry.Width),
		zap.Int("height", s.geometry.Height),
	)
	return s.id, nil
}

// OnSurfaceReady is called by the shell whenever a drawable surface for the
// session exists. The first call creates the render target and launches the
// app into it; later calls rebind the recreated surface to the same target.
//
// Bridge round trips run on the caller's goroutine so a slow shell never
// stalls the controller loop. A session closed while its target was being
// created gets the fresh target released and the call returns nil.
func (m *Manager) OnSurfaceReady(ctx context.Context, sid id.SessionID, surface types.Surface, width, height int) error {
	var (
		s       *session
		handle  *display.Handle
		density int
		create  bool
	)
	err := m.do(ctx, func() error {
		var err error
		if s, err = m.lookup(sid); err != nil {
			return err
		}
		density = m.cfg.DensityDPI

		switch {
		case s.handle != nil:
			handle = s.handle
		case s.creating:
			s.pending = &surfaceReady{surface: surface, width: width, height: height}
		default:
			s.creating, create = true, true
			if width <= 0 || height <= 0 {
				width, height = s.geometry.Width, max(1, s.geometry.Height-m.cfg.ChromeHeight)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if handle != nil {
		m.reattach(ctx, sid, handle, surface, width, height, density)
		return nil
	}
	if !create {
		return nil
	}

	created, createErr := m.displays.Create(ctx, "EdgeLink-"+s.app.Package, width, height, density, surface)
	m.metrics.RecordDisplayOp("create", createErr)

	var (
		live    bool
		pending *surfaceReady
	)
	err = m.do(context.WithoutCancel(ctx), func() error {
		s.creating = false
		pending, s.pending = s.pending, nil
		live = m.sessions[sid] == s

		if createErr != nil {
			if live {
				m.logger.Error("Render target creation failed, aborting session",
					zap.String("session_id", sid.String()),
					zap.String("package", s.app.Package),
					zap.Error(createErr),
				)
				m.abort(m.runCtx, s)
			}
			return nil
		}
		if !live {
			return nil
		}
		s.handle = created
		m.scheduleLoad(s)
		return nil
	})
	if errors.Is(err, ErrManagerStopped) {
		live = false
	}

	switch {
	case createErr != nil:
		if !live {
			return nil
		}
		return createErr
	case !live:
		m.logger.Debug("Session gone before its render target was ready, releasing",
			zap.String("session_id", sid.String()),
			zap.Int("display_id", int(created.ID())),
		)
		created.Release(context.WithoutCancel(ctx))
		m.metrics.RecordDisplayOp("release", nil)
		return nil
	}

	if err := m.starter.RequestAppStart(ctx, s.app, created.ID()); err != nil {
		m.logger.Warn("App start rejected",
			zap.String("session_id", sid.String()),
			zap.String("package", s.app.Package),
			zap.Int("display_id", int(created.ID())),
			zap.Error(err),
		)
	}
	if pending != nil {
		m.reattach(ctx, sid, created, pending.surface, pending.width, pending.height, density)
	}
	return nil
}

// reattach binds a recreated surface to an existing target. It runs off the
// loop; a target released meanwhile rejects the attach.
func (m *Manager) reattach(ctx context.Context, sid id.SessionID, handle *display.Handle, surface types.Surface, width, height, density int) {
	if err := handle.AttachSurface(ctx, surface); err != nil {
		m.logger.Warn("Surface reattach failed",
			zap.String("session_id", sid.String()),
			zap.Error(err),
		)
		return
	}
	if width > 0 && height > 0 {
		err := handle.Resize(ctx, width, height, density)
		m.metrics.RecordDisplayOp("resize", err)
		if err != nil {
			m.logger.Warn("Render target resize failed",
				zap.String("session_id", sid.String()),
				zap.Error(err),
			)
		}
	}
	m.logger.Debug("Surface reattached", zap.String("session_id", sid.String()))
}

// scheduleLoad resolves the app's task after the configured delay, then
// drops the loading indicator and activates the session.
func (m *Manager) scheduleLoad(s *session) {
	s.cancelLoad()
	gen := s.loadGen
	pkg := s.app.Package

	s.loadTimer = m.clock.AfterFunc(m.cfg.TaskResolveDelay, func() {
		taskID, err := m.resolver.Resolve(m.runCtx, pkg)

		m.post(func() {
			current, ok := m.sessions[s.id]
			if !ok || current != s || s.loadGen != gen {
				return
			}
			s.loadTimer = nil
			ctx := m.runCtx

			if err == nil {
				if owner, bound := m.tasks.LookupSessionByTask(taskID); bound && owner != s.id {
					m.logger.Debug("Task already bound to another session",
						zap.Int("task_id", int(taskID)),
						zap.String("owner", owner.String()),
					)
				} else {
					m.tasks.Bind(s.id, taskID)
				}
			}

			m.shellCall("set_loading", s.id, m.shell.SetLoading(ctx, s.id, false))
			if s.state == types.StateLoading {
				s.state = types.StateActive
				m.publish(EventActive, s)
			}
		})
	})
}

// OnSurfaceLost is called when the shell destroyed the session's surface.
// The render target and the app inside it are kept.
func (m *Manager) OnSurfaceLost(ctx context.Context, sid id.SessionID) error {
	return m.do(ctx, func() error {
		s, err := m.lookup(sid)
		if err != nil {
			return err
		}
		if s.handle != nil {
			s.handle.Detach()
		}
		m.logger.Debug("Surface lost", zap.String("session_id", sid.String()))
		return nil
	})
}

// CloseSession tears a session down from any state. Unknown IDs are a no-op.
func (m *Manager) CloseSession(ctx context.Context, sid id.SessionID) error {
	return m.do(ctx, func() error {
		if s, ok := m.sessions[sid]; ok {
			m.close(ctx, s)
		}
		return nil
	})
}

// OnExternalTaskRemoved closes the session bound to taskID, if any. It may
// be called from any goroutine and does not wait.
func (m *Manager) OnExternalTaskRemoved(taskID types.TaskID) {
	m.post(func() {
		sid, ok := m.tasks.LookupSessionByTask(taskID)
		if !ok {
			return
		}
		if s, ok := m.sessions[sid]; ok {
			m.logger.Info("Bound task removed externally",
				zap.Int("task_id", int(taskID)),
				zap.String("session_id", sid.String()),
			)
			m.close(m.runCtx, s)
		}
	})
}

// Expand promotes a session's app to the default display and closes the
// floating window. A rejected start leaves the session open.
func (m *Manager) Expand(ctx context.Context, sid id.SessionID) error {
	var s *session
	err := m.do(ctx, func() error {
		var err error
		s, err = m.lookup(sid)
		return err
	})
	if err != nil {
		return err
	}

	if err := m.starter.RequestAppStart(ctx, s.app, types.DefaultDisplay); err != nil {
		return fmt.Errorf("failed to start %s on default display: %w", s.app.Package, err)
	}

	return m.do(context.WithoutCancel(ctx), func() error {
		if m.sessions[sid] == s {
			m.close(m.runCtx, s)
		}
		return nil
	})
}

// close releases the render target before the session leaves the registry
// and the task binding.
func (m *Manager) close(ctx context.Context, s *session) {
	wasMinimized := s.state == types.StateMinimized
	s.state = types.StateClosing
	s.cancelResize()
	s.cancelLoad()

	if s.handle != nil {
		s.handle.Release(ctx)
		m.metrics.RecordDisplayOp("release", nil)
	}
	m.tasks.UnbindBySession(s.id)
	m.shellCall("remove_surface", s.id, m.shell.RemoveOverlaySurface(ctx, s.id))
	m.forget(s)

	if wasMinimized {
		m.restack(ctx)
	}
	m.publish(EventClosed, s)

	m.logger.Info("Session closed",
		zap.String("session_id", s.id.String()),
		zap.String("package", s.app.Package),
	)
}

// abort drops a session whose render target could not be created
func (m *Manager) abort(ctx context.Context, s *session) {
	s.state = types.StateClosing
	s.cancelLoad()
	m.shellCall("remove_surface", s.id, m.shell.RemoveOverlaySurface(ctx, s.id))
	m.forget(s)
	m.publish(EventAborted, s)
}

func (m *Manager) forget(s *session) {
	delete(m.sessions, s.id)
	if m.byPackage[s.app.Package] == s.id {
		delete(m.byPackage, s.app.Package)
	}
	for i, sid := range m.order {
		if sid == s.id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.focused == s.id {
		m.focused = ""
	}
}

func (m *Manager) closeAll(ctx context.Context) {
	for _, sid := range append([]id.SessionID(nil), m.order...) {
		if s, ok := m.sessions[sid]; ok {
			m.close(ctx, s)
		}
	}
}
