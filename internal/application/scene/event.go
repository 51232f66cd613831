package scene

import (
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventKind identifies what a discrete input Event describes
type EventKind int

const (
	// EventQuit is raised when the window or terminal asks to close
	EventQuit EventKind = iota + 1
	EventKeyDown
	EventKeyUp
	// EventChar carries one typed character in Rune
	EventChar
	EventMouseDown
	EventMouseUp
	EventMouseMove
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "Quit"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventChar:
		return "Char"
	case EventMouseDown:
		return "MouseDown"
	case EventMouseUp:
		return "MouseUp"
	case EventMouseMove:
		return "MouseMove"
	default:
		return "Unknown"
	}
}

// Event is one discrete input event drained from the host during a frame.
// Keys and buttons use ebiten's vocabulary regardless of which host produced
// the event.
type Event struct {
	Kind   EventKind          `json:"kind"`
	Key    ebiten.Key         `json:"key,omitempty"`
	Rune   rune               `json:"rune,omitempty"`
	Button ebiten.MouseButton `json:"button,omitempty"`
	X      int                `json:"x,omitempty"`
	Y      int                `json:"y,omitempty"`
}

// KeyDown builds a key press event
func KeyDown(k ebiten.Key) Event {
	return Event{Kind: EventKeyDown, Key: k}
}

// KeyUp builds a key release event
func KeyUp(k ebiten.Key) Event {
	return Event{Kind: EventKeyUp, Key: k}
}

// Char builds a typed character event
func Char(r rune) Event {
	return Event{Kind: EventChar, Rune: r}
}

// MouseDown builds a mouse press event at x, y
func MouseDown(b ebiten.MouseButton, x, y int) Event {
	return Event{Kind: EventMouseDown, Button: b, X: x, Y: y}
}

// MouseUp builds a mouse release event at x, y
func MouseUp(b ebiten.MouseButton, x, y int) Event {
	return Event{Kind: EventMouseUp, Button: b, X: x, Y: y}
}

// IsKeyDown reports whether e is a press of key k
func (e Event) IsKeyDown(k ebiten.Key) bool {
	return e.Kind == EventKeyDown && e.Key == k
}

// KeyState is a snapshot of the keys held down at the start of a frame
type KeyState struct {
	keys []ebiten.Key
}

// NewKeyState creates a snapshot with the given keys held
func NewKeyState(keys ...ebiten.Key) KeyState {
	ks := KeyState{keys: make([]ebiten.Key, 0, len(keys))}
	for _, k := range keys {
		if !slices.Contains(ks.keys, k) {
			ks.keys = append(ks.keys, k)
		}
	}
	return ks
}

// Pressed reports whether k was held when the snapshot was taken
func (s KeyState) Pressed(k ebiten.Key) bool {
	return slices.Contains(s.keys, k)
}

// Keys returns the held keys in the order the host reported them
func (s KeyState) Keys() []ebiten.Key {
	return slices.Clone(s.keys)
}

// Len returns the number of held keys
func (s KeyState) Len() int {
	return len(s.keys)
}

// Input is the per-frame view of the host's input devices
type Input interface {
	// KeyState returns the continuously held keys
	KeyState() KeyState
	// Events drains the discrete events queued since the previous call
	Events() []Event
}

// Host is a window or terminal that can drive the registry's run loop.
type Host interface {
	Input

	// Loop calls frame once per tick at roughly fps ticks per second,
	// presenting the draw surface after every call. It returns when frame
	// returns an error (scene.ErrQuit for a normal quit) or when the host
	// itself stops.
	Loop(fps int, frame func() error) error

	// Close tears down the window or terminal.
	Close() error
}

// KeyRepeater is implemented by hosts that can synthesize repeated key-down
// events while a key is held. A zero delay disables repeating.
type KeyRepeater interface {
	SetKeyRepeat(delay, interval time.Duration)
}
