package eventstream

import (
	"fmt"
	"strings"
	"time"
)

// EventType identifies a kind of scene event.
type EventType uint8

const (
	EventClick        EventType = iota // press then release within the click tolerance
	EventDoubleClick                   // second left click on the same target within the window
	EventMouseEnter                    // pointer entered an element
	EventMouseLeave                    // pointer left an element
	EventKeyPress                      // key pressed
	EventKeyRelease                    // key released
	EventMouseWheel                    // wheel scrolled over the current pointer target
	EventFileChanged                   // watched file changed
	EventMouseDown                     // button pressed (Config.PointerEvents)
	EventMouseUp                       // button released (Config.PointerEvents)
	EventCursorMoved                   // pointer moved (Config.PointerEvents)
	EventWindowResize                  // window resized
	EventWindowFocus                   // window gained or lost focus
	EventWindowClose                   // window close requested

	numEventTypes
)

var eventNames = [...]string{
	"click", "double-click", "mouse-enter", "mouse-leave", "key-press", "key-release",
	"mouse-wheel", "file-changed", "mouse-down", "mouse-up", "cursor-moved",
	"window-resize", "window-focus", "window-close",
}

func (t EventType) String() string {
	if t < numEventTypes {
		return eventNames[t]
	}
	return "unknown"
}

// ParseEventType converts a name such as "double-click" to an EventType.
func ParseEventType(s string) (EventType, error) {
	for i, n := range eventNames {
		if strings.EqualFold(n, s) {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// eventMask is a set of EventType values.
type eventMask uint32

func maskOf(types []EventType) eventMask {
	var m eventMask
	for _, t := range types {
		m |= 1 << t
	}
	return m
}

func (m eventMask) has(t EventType) bool { return m&(1<<t) != 0 }

// SceneEvent is a high-level event resolved against the geometry snapshot.
type SceneEvent struct {
	Type EventType

	// Target is the element the event applies to; zero when the event is
	// not spatially targeted or nothing was under the pointer.
	Target ElementRef

	// X and Y are the pointer position in device coordinates. HasPosition is
	// false until the first pointer event has been seen.
	X, Y        float64
	HasPosition bool

	Modifiers KeyModifiers
	Button    MouseButton
	// ClickCount is 1 for Click and 2 for DoubleClick.
	ClickCount int

	DeltaX, DeltaY float64
	DeltaMode      WheelDeltaMode

	Key Key

	Path string
	Err  string

	Width, Height float64
	Focused       bool

	Time time.Time
}

// Targeted reports whether the event carries a target element.
func (e SceneEvent) Targeted() bool { return !e.Target.IsZero() }

func (e SceneEvent) String() string {
	if e.Targeted() {
		return e.Type.String() + " " + e.Target.String()
	}
	return e.Type.String()
}
