package eventstream

import "time"

// RawEventType identifies a device-level input event.
type RawEventType uint8

const (
	RawPointerMove  RawEventType = iota // pointer moved to (X, Y)
	RawPointerDown                      // Button pressed at (X, Y)
	RawPointerUp                        // Button released at (X, Y)
	RawWheel                            // wheel scrolled by (DeltaX, DeltaY)
	RawKeyDown                          // Key pressed
	RawKeyUp                            // Key released
	RawResize                           // window resized to (Width, Height)
	RawFocusChange                      // window focus became Focused
	RawClose                            // window close requested
	RawFileChanged                      // watched file at Path changed
)

var rawEventNames = [...]string{
	"pointer-move", "pointer-down", "pointer-up", "wheel", "key-down", "key-up",
	"resize", "focus-change", "close", "file-changed",
}

func (t RawEventType) String() string {
	if int(t) < len(rawEventNames) {
		return rawEventNames[t]
	}
	return "unknown"
}

// RawEvent is one event from the windowing or file-watching layer.
// Coordinates are in the same space as the geometry snapshot. A zero Time
// is replaced by the manager's clock on delivery.
type RawEvent struct {
	Type RawEventType

	X, Y   float64
	Button MouseButton

	Key Key

	DeltaX, DeltaY float64
	DeltaMode      WheelDeltaMode

	Width, Height float64
	Focused       bool

	Path string
	Err  string

	Time time.Time
}

// At returns a copy of e stamped with t.
func (e RawEvent) At(t time.Time) RawEvent {
	e.Time = t
	return e
}

// PointerMove reports the pointer at (x, y).
func PointerMove(x, y float64) RawEvent {
	return RawEvent{Type: RawPointerMove, X: x, Y: y}
}

// PointerDown reports button pressed at (x, y).
func PointerDown(x, y float64, button MouseButton) RawEvent {
	return RawEvent{Type: RawPointerDown, X: x, Y: y, Button: button}
}

// PointerUp reports button released at (x, y).
func PointerUp(x, y float64, button MouseButton) RawEvent {
	return RawEvent{Type: RawPointerUp, X: x, Y: y, Button: button}
}

// Wheel reports a scroll of (dx, dy) in the given unit.
func Wheel(dx, dy float64, mode WheelDeltaMode) RawEvent {
	return RawEvent{Type: RawWheel, DeltaX: dx, DeltaY: dy, DeltaMode: mode}
}

// KeyDown reports key pressed.
func KeyDown(key Key) RawEvent { return RawEvent{Type: RawKeyDown, Key: key} }

// KeyUp reports key released.
func KeyUp(key Key) RawEvent { return RawEvent{Type: RawKeyUp, Key: key} }

// Resize reports the window's new logical size.
func Resize(width, height float64) RawEvent {
	return RawEvent{Type: RawResize, Width: width, Height: height}
}

// FocusChange reports whether the window has input focus.
func FocusChange(focused bool) RawEvent {
	return RawEvent{Type: RawFocusChange, Focused: focused}
}

// Close reports a window close request.
func Close() RawEvent { return RawEvent{Type: RawClose} }

// FileChanged reports a change to the file at path. err is non-nil when the
// watcher could not observe the file.
func FileChanged(path string, err error) RawEvent {
	e := RawEvent{Type: RawFileChanged, Path: path}
	if err != nil {
		e.Err = err.Error()
	}
	return e
}
