package protocol

import (
	"encoding/json"

	"github.com/loomkit/loom/internal/errkind"
)

// EventCategory discriminates the closed set of serialized DOM event shapes
// spec.md §6 names: "clipboard, composition, keyboard, mouse, pointer,
// touch, wheel, animation, transition, focus, submit, form-data, gamepad,
// device-motion, device-orientation, input, UI". The teacher's event.go
// groups these the same way for its binary EventType enum; here the
// grouping becomes a JSON discriminator instead of a byte tag.
type EventCategory string

const (
	CategoryMouse            EventCategory = "mouse"
	CategoryKeyboard         EventCategory = "keyboard"
	CategoryPointer          EventCategory = "pointer"
	CategoryTouch            EventCategory = "touch"
	CategoryWheel            EventCategory = "wheel"
	CategoryClipboard        EventCategory = "clipboard"
	CategoryComposition      EventCategory = "composition"
	CategoryAnimation        EventCategory = "animation"
	CategoryTransition       EventCategory = "transition"
	CategoryFocus            EventCategory = "focus"
	CategorySubmit           EventCategory = "submit"
	CategoryFormData         EventCategory = "form-data"
	CategoryGamepad          EventCategory = "gamepad"
	CategoryDeviceMotion     EventCategory = "device-motion"
	CategoryDeviceOrientation EventCategory = "device-orientation"
	CategoryInput            EventCategory = "input"
	CategoryUI               EventCategory = "ui"
)

// Rect is window.DOMRect's serializable fields.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// FileInfo is the serialized form of one entry of a file input's FileList
// (spec.md §6 "file lists -> [{name, size, type, lastModified}, ...]").
type FileInfo struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	LastModified int64  `json:"lastModified"`
}

// EventTarget is the serialized target/currentTarget/relatedTarget
// sub-record (spec.md §6 "a sub-record with tagName, boundingClientRect,
// and element-class-specific fields"). Extras not applicable to a given
// element class are simply left zero-valued/omitted.
type EventTarget struct {
	TagName            string           `json:"tagName"`
	BoundingClientRect *Rect            `json:"boundingClientRect,omitempty"`
	Value              *string          `json:"value,omitempty"`
	Checked            *bool            `json:"checked,omitempty"`
	Files              []FileInfo       `json:"files,omitempty"`
	CurrentTime        *float64         `json:"currentTime,omitempty"`
	Elements           map[string]string `json:"elements,omitempty"`
}

// SelectionSnapshot captures window.getSelection() at event time (spec.md
// §6 "a selection capturing window.getSelection() at event time").
type SelectionSnapshot struct {
	AnchorOffset int    `json:"anchorOffset"`
	FocusOffset  int    `json:"focusOffset"`
	Text         string `json:"text"`
}

// SerializedEvent is the closed shape of one client-reported DOM event
// (spec.md §6 "Serialized DOM event shape"). Category-specific extras live
// in the category-named pointer fields below rather than a generic map, so
// a handler reading (say) e.Mouse gets a concretely typed struct instead of
// re-parsing JSON.
type SerializedEvent struct {
	Category         EventCategory      `json:"category"`
	Type             string             `json:"type"`
	TimeStamp        float64            `json:"timeStamp"`
	Bubbles          bool               `json:"bubbles"`
	Composed         bool               `json:"composed"`
	DefaultPrevented bool               `json:"defaultPrevented"`
	EventPhase       int                `json:"eventPhase"`
	IsTrusted        bool               `json:"isTrusted"`
	Target           *EventTarget       `json:"target"`
	CurrentTarget    *EventTarget       `json:"currentTarget"`
	RelatedTarget    *EventTarget       `json:"relatedTarget,omitempty"`
	Selection        *SelectionSnapshot `json:"selection,omitempty"`

	Mouse       *MouseEventData       `json:"mouse,omitempty"`
	Keyboard    *KeyboardEventData    `json:"keyboard,omitempty"`
	Pointer     *PointerEventData     `json:"pointer,omitempty"`
	Touch       *TouchEventData       `json:"touch,omitempty"`
	Wheel       *WheelEventData       `json:"wheel,omitempty"`
	Clipboard   *ClipboardEventData   `json:"clipboard,omitempty"`
	Composition *CompositionEventData `json:"composition,omitempty"`
	Submit      *SubmitEventData      `json:"submit,omitempty"`
	Input       *InputEventData       `json:"input,omitempty"`
	UI          *UIEventData          `json:"ui,omitempty"`
	Gamepad     *GamepadEventData     `json:"gamepad,omitempty"`
	DeviceMotion      *DeviceMotionEventData      `json:"deviceMotion,omitempty"`
	DeviceOrientation *DeviceOrientationEventData `json:"deviceOrientation,omitempty"`
}

// MouseEventData holds the mouse-event-specific extras (translated from the
// teacher's MouseEventData, which served the same shape over the binary
// protocol — pkg/protocol/event.go).
type MouseEventData struct {
	ClientX   int    `json:"clientX"`
	ClientY   int    `json:"clientY"`
	ScreenX   int    `json:"screenX"`
	ScreenY   int    `json:"screenY"`
	Button    int    `json:"button"`
	Buttons   int    `json:"buttons"`
	CtrlKey   bool   `json:"ctrlKey"`
	ShiftKey  bool   `json:"shiftKey"`
	AltKey    bool   `json:"altKey"`
	MetaKey   bool   `json:"metaKey"`
}

// KeyboardEventData holds keyboard-event extras (translated from the
// teacher's KeyboardEventData).
type KeyboardEventData struct {
	Key      string `json:"key"`
	Code     string `json:"code"`
	CtrlKey  bool   `json:"ctrlKey"`
	ShiftKey bool   `json:"shiftKey"`
	AltKey   bool   `json:"altKey"`
	MetaKey  bool   `json:"metaKey"`
	Repeat   bool   `json:"repeat"`
}

// PointerEventData holds pointer-event extras, a superset the teacher did
// not model (it had no pointer-event category); grounded on the same
// MouseEventData shape plus the pointer-specific fields the DOM adds.
type PointerEventData struct {
	PointerID int     `json:"pointerId"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Pressure  float64 `json:"pressure"`
	PointerType string `json:"pointerType"`
	IsPrimary bool    `json:"isPrimary"`
}

// TouchPoint is one entry of a TouchList (translated from the teacher's
// TouchPoint).
type TouchPoint struct {
	Identifier int     `json:"identifier"`
	ClientX    float64 `json:"clientX"`
	ClientY    float64 `json:"clientY"`
}

// TouchEventData holds touch-event extras (translated from the teacher's
// TouchEventData).
type TouchEventData struct {
	Touches        []TouchPoint `json:"touches"`
	ChangedTouches []TouchPoint `json:"changedTouches"`
}

// WheelEventData holds wheel-event extras; the teacher had no wheel
// category (only a generic scroll event), so this is modeled directly on
// the DOM WheelEvent fields spec.md §6 names.
type WheelEventData struct {
	DeltaX    float64 `json:"deltaX"`
	DeltaY    float64 `json:"deltaY"`
	DeltaZ    float64 `json:"deltaZ"`
	DeltaMode int     `json:"deltaMode"`
}

// ClipboardEventData holds clipboard-event extras.
type ClipboardEventData struct {
	Data string `json:"data"`
}

// CompositionEventData holds IME composition-event extras.
type CompositionEventData struct {
	Data string `json:"data"`
}

// SubmitEventData holds form-submission extras (translated from the
// teacher's SubmitEventData; "elements" is spec.md §6's form-data extra).
type SubmitEventData struct {
	Fields map[string]string `json:"fields"`
}

// InputEventData holds the live value of a user-input element as the user
// types, ahead of a change/submit event.
type InputEventData struct {
	Value string `json:"value"`
}

// UIEventData holds extras shared by scroll/resize-style UI events
// (translated from the teacher's ScrollEventData/ResizeEventData, merged
// into one category per spec.md §6's "UI" bucket).
type UIEventData struct {
	ScrollTop  *int `json:"scrollTop,omitempty"`
	ScrollLeft *int `json:"scrollLeft,omitempty"`
	Width      *int `json:"width,omitempty"`
	Height     *int `json:"height,omitempty"`
}

// GamepadEventData holds the subset of the Gamepad API spec.md §6 names.
type GamepadEventData struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
}

// DeviceMotionEventData holds devicemotion extras.
type DeviceMotionEventData struct {
	AccelerationX float64 `json:"accelerationX"`
	AccelerationY float64 `json:"accelerationY"`
	AccelerationZ float64 `json:"accelerationZ"`
}

// DeviceOrientationEventData holds deviceorientation extras.
type DeviceOrientationEventData struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// DecodeSerializedEvent decodes one LayoutEventMessage.Data entry into a
// SerializedEvent. A raw argument that is not an object of this shape (a
// plain custom-event argument list, e.g.) is returned as a generic `any`
// instead of an error — spec.md §6 only constrains the shape of *built-in*
// DOM events, not arbitrary handler arguments.
func DecodeSerializedEvent(raw json.RawMessage) (*SerializedEvent, any, error) {
	var ev SerializedEvent
	if err := json.Unmarshal(raw, &ev); err == nil && ev.Category != "" {
		return &ev, nil, nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, nil, errkind.Wrap(errkind.ProtocolFailure, "malformed event argument", err)
	}
	return nil, generic, nil
}
