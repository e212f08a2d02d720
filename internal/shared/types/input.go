package types

// PointerAction is the phase of a pointer gesture
type PointerAction string

const (
	PointerDown   PointerAction = "down"
	PointerMove   PointerAction = "move"
	PointerUp     PointerAction = "up"
	PointerCancel PointerAction = "cancel"
)

// KeyAction is the phase of a key press
type KeyAction string

const (
	KeyDown KeyAction = "down"
	KeyUp   KeyAction = "up"
)

// KeyCode is a platform key code
type KeyCode int

// KeyCodeBack is the platform "back" key
const KeyCodeBack KeyCode = 4

// PointerEvent is a touch/pointer sample in render-target coordinates
type PointerEvent struct {
	Action    PointerAction `json:"action"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Pressure  float64       `json:"pressure,omitempty"`
	PointerID int           `json:"pointer_id"`
	DownTime  int64         `json:"down_time"`
	EventTime int64         `json:"event_time"`
	DisplayID DisplayID     `json:"display_id"`
}

// KeyEvent is a synthesized key press or release
type KeyEvent struct {
	Action    KeyAction `json:"action"`
	Code      KeyCode   `json:"code"`
	DownTime  int64     `json:"down_time"`
	EventTime int64     `json:"event_time"`
	DisplayID DisplayID `json:"display_id"`
}

// InputEvent is either a pointer or key event submitted to the input pipeline
type InputEvent struct {
	Pointer *PointerEvent `json:"pointer,omitempty"`
	Key     *KeyEvent     `json:"key,omitempty"`
}

// Target returns the render target the event is tagged with
func (e InputEvent) Target() DisplayID {
	switch {
	case e.Pointer != nil:
		return e.Pointer.DisplayID
	case e.Key != nil:
		return e.Key.DisplayID
	default:
		return DefaultDisplay
	}
}
