package ws

import (
	"encoding/json"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/shared/types"
)

// Frame is the envelope of every message in either direction. Requests that
// expect an answer carry ID; the answer carries it back in ReplyTo.
type Frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	ReplyTo string          `json:"reply_to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Backend -> shell
const (
	TypeAddSurface      = "add_surface"
	TypeUpdateGeometry  = "update_geometry"
	TypeRemoveSurface   = "remove_surface"
	TypeSetVisibility   = "set_visibility"
	TypeSetLoading      = "set_loading"
	TypePlaceEdgeHandle = "place_edge_handle"
	TypeCreateDisplay   = "create_display"
	TypeAttachDisplay   = "attach_display"
	TypeResizeDisplay   = "resize_display"
	TypeReleaseDisplay  = "release_display"
	TypeInjectInput     = "inject_input"
	TypeStartApp        = "start_app"
	TypeSnapshot        = "snapshot_processes"
	TypeWatchTasks      = "watch_tasks"
	TypeUnwatchTasks    = "unwatch_tasks"
	TypeEvent           = "event"
	TypePong            = "pong"
	TypeReply           = "reply"
)

// Shell -> backend
const (
	TypeSurfaceReady  = "surface_ready"
	TypeSurfaceLost   = "surface_lost"
	TypeTaskRemoved   = "task_removed"
	TypeScreenMetrics = "screen_metrics"
	TypeLaunch        = "launch"
	TypeMinimize      = "minimize"
	TypeMaximize      = "maximize"
	TypeClose         = "close"
	TypeExpand        = "expand"
	TypeBack          = "back"
	TypeMove          = "move"
	TypeResizeBegin   = "resize_begin"
	TypeResizeMove    = "resize_move"
	TypeResizeEnd     = "resize_end"
	TypePointer       = "pointer"
	TypeHandlePrefs   = "handle_prefs"
	TypePing          = "ping"
)

type surfacePayload struct {
	SessionID id.SessionID       `json:"session_id"`
	App       *types.AppIdentity `json:"app,omitempty"`
	Geometry  *types.Geometry    `json:"geometry,omitempty"`
}

type visibilityPayload struct {
	SessionID  id.SessionID     `json:"session_id"`
	Visibility types.Visibility `json:"visibility"`
}

type loadingPayload struct {
	SessionID id.SessionID `json:"session_id"`
	Loading   bool         `json:"loading"`
}

type displayPayload struct {
	DisplayID  types.DisplayID `json:"display_id"`
	Surface    types.Surface   `json:"surface,omitempty"`
	Width      int             `json:"width,omitempty"`
	Height     int             `json:"height,omitempty"`
	DensityDPI int             `json:"density_dpi,omitempty"`
}

type startPayload struct {
	App       types.AppIdentity `json:"app"`
	DisplayID types.DisplayID   `json:"display_id"`
}

type snapshotPayload struct {
	Limit int `json:"limit"`
}

type snapshotReply struct {
	Processes []types.ProcessInfo `json:"processes"`
}

type surfaceReadyPayload struct {
	SessionID id.SessionID  `json:"session_id"`
	Surface   types.Surface `json:"surface"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
}

type sessionPayload struct {
	SessionID id.SessionID `json:"session_id"`
}

type taskPayload struct {
	TaskID types.TaskID `json:"task_id"`
}

type movePayload struct {
	SessionID id.SessionID `json:"session_id"`
	X         int          `json:"x"`
	Y         int          `json:"y"`
}

type resizePayload struct {
	SessionID id.SessionID `json:"session_id"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
}

type pointerPayload struct {
	SessionID id.SessionID       `json:"session_id"`
	Event     types.PointerEvent `json:"event"`
}

type launchReply struct {
	SessionID id.SessionID `json:"session_id"`
}

func encodeFrame(typ string, payload any) (Frame, error) {
	f := Frame{Type: typ}
	if payload == nil {
		return f, nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return f, err
	}
	f.Payload = raw
	return f, nil
}

func decodePayload(f Frame, out any) error {
	if len(f.Payload) == 0 {
		return nil
	}
	return sonic.Unmarshal(f.Payload, out)
}
