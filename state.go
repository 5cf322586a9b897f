package eventstream

import (
	"math"
	"slices"
	"time"
)

// numButtons is the number of MouseButton values tracked.
const numButtons = int(MouseButtonForward) + 1

// pressRecord remembers where and when a button went down.
type pressRecord struct {
	valid bool
	x, y  float64
	time  time.Time
}

// clickRecord remembers the last left click for double-click detection.
type clickRecord struct {
	valid  bool
	target ElementRef
	x, y   float64
	time   time.Time
}

// InteractionState is the input state between raw events. A Manager owns
// exactly one and only its translator mutates it. State returns a copy.
type InteractionState struct {
	// Pointer is the last known pointer position; valid when HasPointer.
	Pointer    Vec2
	HasPointer bool

	Buttons   ButtonSet
	Modifiers KeyModifiers

	// Hovered lists the instances under the pointer, topmost first.
	Hovered []ElementRef

	// Viewport is the last reported window size.
	Viewport Vec2
	Focused  bool
	Closed   bool

	// Gestures maps streams with an open between window to the time it
	// opened. Only copies returned by Manager.State carry it.
	Gestures map[string]time.Time

	presses   [numButtons]pressRecord
	lastClick clickRecord
	// snap is the snapshot Hovered was resolved against.
	snap *Snapshot
}

func newInteractionState() InteractionState {
	return InteractionState{Focused: true}
}

// clone returns a copy that shares no memory with s.
func (s *InteractionState) clone() InteractionState {
	c := *s
	c.Hovered = slices.Clone(s.Hovered)
	return c
}

// movedFrom reports whether (x, y) differs from the stored pointer.
func (s *InteractionState) movedFrom(x, y float64) bool {
	return !s.HasPointer || s.Pointer.X != x || s.Pointer.Y != y
}

// releaseAll forgets pressed buttons, modifiers and pending presses.
func (s *InteractionState) releaseAll() {
	s.Buttons = 0
	s.Modifiers = 0
	s.presses = [numButtons]pressRecord{}
}

func (s *InteractionState) event(typ EventType, now time.Time) SceneEvent {
	return SceneEvent{
		Type:        typ,
		X:           s.Pointer.X,
		Y:           s.Pointer.Y,
		HasPosition: s.HasPointer,
		Modifiers:   s.Modifiers,
		Time:        now,
	}
}

func distance(x0, y0, x1, y1 float64) float64 { return math.Hypot(x1-x0, y1-y0) }
