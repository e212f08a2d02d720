package ws

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/layout"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Controller is the part of the window manager the shell host drives
type Controller interface {
	LaunchOrFocus(ctx context.Context, app types.AppIdentity) (id.SessionID, error)
	OnSurfaceReady(ctx context.Context, sid id.SessionID, surface types.Surface, width, height int) error
	OnSurfaceLost(ctx context.Context, sid id.SessionID) error
	OnScreenMetricsChanged(ctx context.Context, metrics types.ScreenMetrics) error
	MinimizeSession(ctx context.Context, sid id.SessionID) error
	MaximizeSession(ctx context.Context, sid id.SessionID) error
	CloseSession(ctx context.Context, sid id.SessionID) error
	Expand(ctx context.Context, sid id.SessionID) error
	PressBack(ctx context.Context, sid id.SessionID) error
	MoveSession(ctx context.Context, sid id.SessionID, x, y int) error
	BeginResize(ctx context.Context, sid id.SessionID) error
	ResizeMove(ctx context.Context, sid id.SessionID, width, height int) error
	EndResize(ctx context.Context, sid id.SessionID) error
	ForwardPointer(ctx context.Context, sid id.SessionID, ev types.PointerEvent) error
	SetHandlePrefs(ctx context.Context, prefs layout.HandlePrefs) error
}

// dispatchLoop handles shell frames one at a time, in arrival order. It runs
// apart from the read loop so a manager call that waits on a shell reply
// never blocks delivery of that reply.
func (b *Bridge) dispatchLoop(ctx context.Context, inbound <-chan Frame) {
	for f := range inbound {
		result, err := b.dispatch(ctx, f)
		if err != nil {
			b.logger.Debug("Shell frame failed",
				zap.String("type", f.Type),
				zap.Error(err),
			)
		}
		if f.ID == "" {
			continue
		}

		reply, encErr := encodeFrame(TypeReply, result)
		if encErr != nil {
			b.logger.Warn("Reply encode failed", zap.Error(encErr))
			continue
		}
		reply.ReplyTo = f.ID
		if err != nil {
			reply.Error = err.Error()
		}
		if err := b.write(reply); err != nil {
			b.logger.Debug("Reply not sent", zap.String("type", f.Type), zap.Error(err))
		}
	}
}

func (b *Bridge) dispatch(ctx context.Context, f Frame) (any, error) {
	b.mu.Lock()
	c := b.controller
	listener := b.listener
	b.mu.Unlock()

	switch f.Type {
	case TypePing:
		return nil, b.send(TypePong, nil)
	case TypeTaskRemoved:
		var p taskPayload
		if err := decodePayload(f, &p); err != nil {
			return nil, err
		}
		if listener != nil {
			listener(p.TaskID)
		}
		return nil, nil
	}

	if c == nil {
		return nil, fmt.Errorf("no controller bound for %s", f.Type)
	}

	switch f.Type {
	case TypeLaunch:
		var app types.AppIdentity
		if err := decodePayload(f, &app); err != nil {
			return nil, err
		}
		sid, err := c.LaunchOrFocus(ctx, app)
		if err != nil {
			return nil, err
		}
		return launchReply{SessionID: sid}, nil

	case TypeSurfaceReady:
		var p surfaceReadyPayload
		if err := decodePayload(f, &p); err != nil {
			return nil, err
		}
		return nil, c.OnSurfaceReady(ctx, p.SessionID, p.Surface, p.Width, p.Height)

	case TypeScreenMetrics:
		var m types.ScreenMetrics
		if err := decodePayload(f, &m); err != nil {
			return nil, err
		}
		return nil, c.OnScreenMetricsChanged(ctx, m)

	case TypeMove:
		var p movePayload
		if err := decodePayload(f, &p); err != nil {
			return nil, err
		}
		return nil, c.MoveSession(ctx, p.SessionID, p.X, p.Y)

	case TypeResizeMove:
		var p resizePayload
		if err := decodePayload(f, &p); err != nil {
			return nil, err
		}
		return nil, c.ResizeMove(ctx, p.SessionID, p.Width, p.Height)

	case TypePointer:
		var p pointerPayload
		if err := decodePayload(f, &p); err != nil {
			return nil, err
		}
		return nil, c.ForwardPointer(ctx, p.SessionID, p.Event)

	case TypeHandlePrefs:
		var prefs layout.HandlePrefs
		if err := decodePayload(f, &prefs); err != nil {
			return nil, err
		}
		return nil, c.SetHandlePrefs(ctx, prefs)
	}

	op, ok := sessionOps[f.Type]
	if !ok {
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
	var p sessionPayload
	if err := decodePayload(f, &p); err != nil {
		return nil, err
	}
	return nil, op(c, ctx, p.SessionID)
}

// Frames whose payload is just a session ID
var sessionOps = map[string]func(Controller, context.Context, id.SessionID) error{
	TypeSurfaceLost: Controller.OnSurfaceLost,
	TypeMinimize:    Controller.MinimizeSession,
	TypeMaximize:    Controller.MaximizeSession,
	TypeClose:       Controller.CloseSession,
	TypeExpand:      Controller.Expand,
	TypeBack:        Controller.PressBack,
	TypeResizeBegin: Controller.BeginResize,
	TypeResizeEnd:   Controller.EndResize,
}
