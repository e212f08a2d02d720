package ws

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/display"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/layout"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/domain/task"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Shell instructions are fire-and-forget.

func (b *Bridge) AddOverlaySurface(_ context.Context, sid id.SessionID, app types.AppIdentity, geom types.Geometry) error {
	return b.send(TypeAddSurface, surfacePayload{SessionID: sid, App: &app, Geometry: &geom})
}

func (b *Bridge) UpdateOverlayGeometry(_ context.Context, sid id.SessionID, geom types.Geometry) error {
	return b.send(TypeUpdateGeometry, surfacePayload{SessionID: sid, Geometry: &geom})
}

func (b *Bridge) RemoveOverlaySurface(_ context.Context, sid id.SessionID) error {
	return b.send(TypeRemoveSurface, surfacePayload{SessionID: sid})
}

func (b *Bridge) SetVisibility(_ context.Context, sid id.SessionID, v types.Visibility) error {
	return b.send(TypeSetVisibility, visibilityPayload{SessionID: sid, Visibility: v})
}

func (b *Bridge) SetLoading(_ context.Context, sid id.SessionID, loading bool) error {
	return b.send(TypeSetLoading, loadingPayload{SessionID: sid, Loading: loading})
}

func (b *Bridge) PlaceEdgeHandle(_ context.Context, placement layout.HandlePlacement) error {
	return b.send(TypePlaceEdgeHandle, placement)
}

// CreateVirtualDisplay asks the shell host to create a render target and
// waits for its display ID.
func (b *Bridge) CreateVirtualDisplay(ctx context.Context, req display.CreateRequest) (types.DisplayID, error) {
	var reply displayPayload
	if err := b.request(ctx, "display", TypeCreateDisplay, req, &reply); err != nil {
		return 0, err
	}
	if reply.DisplayID <= types.DefaultDisplay {
		return 0, fmt.Errorf("shell returned invalid display id %d", reply.DisplayID)
	}
	return reply.DisplayID, nil
}

func (b *Bridge) Attach(ctx context.Context, d types.DisplayID, surface types.Surface) error {
	return b.request(ctx, "display", TypeAttachDisplay, displayPayload{DisplayID: d, Surface: surface}, nil)
}

func (b *Bridge) Resize(_ context.Context, d types.DisplayID, width, height, densityDPI int) error {
	return b.send(TypeResizeDisplay, displayPayload{DisplayID: d, Width: width, Height: height, DensityDPI: densityDPI})
}

func (b *Bridge) Release(_ context.Context, d types.DisplayID) error {
	return b.send(TypeReleaseDisplay, displayPayload{DisplayID: d})
}

// Inject forwards one input event. Delivery is not acknowledged.
func (b *Bridge) Inject(_ context.Context, ev types.InputEvent) error {
	return b.send(TypeInjectInput, ev)
}

// RequestAppStart asks the shell host to launch app onto a display
func (b *Bridge) RequestAppStart(ctx context.Context, app types.AppIdentity, d types.DisplayID) error {
	return b.request(ctx, "app", TypeStartApp, startPayload{App: app, DisplayID: d}, nil)
}

// SnapshotRunningProcesses asks the shell host for its running task list
func (b *Bridge) SnapshotRunningProcesses(ctx context.Context, limit int) ([]types.ProcessInfo, error) {
	var reply snapshotReply
	if err := b.request(ctx, "task", TypeSnapshot, snapshotPayload{Limit: limit}, &reply); err != nil {
		return nil, err
	}
	return reply.Processes, nil
}

// RegisterTaskListener keeps listener for task_removed frames. The watch is
// (re)sent to every host that connects.
func (b *Bridge) RegisterTaskListener(listener task.Listener) error {
	b.mu.Lock()
	b.listener = listener
	connected := b.conn != nil
	b.mu.Unlock()

	if connected {
		return b.send(TypeWatchTasks, nil)
	}
	return nil
}

func (b *Bridge) UnregisterTaskListener() error {
	b.mu.Lock()
	b.listener = nil
	connected := b.conn != nil
	b.mu.Unlock()

	if connected {
		return b.send(TypeUnwatchTasks, nil)
	}
	return nil
}
