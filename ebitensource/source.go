// Package ebitensource feeds Ebitengine input into an eventstream Manager.
//
// A Source polls Ebitengine once per tick and pushes the differences since
// the previous tick as raw events. Run wraps a Source, a Queue and a Manager
// into an ebiten.Game so a visualization only supplies its snapshot builder
// and draw function.
package ebitensource

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/eventstream"
)

// Sink receives raw events. *eventstream.Queue satisfies it.
type Sink interface {
	Push(e eventstream.RawEvent)
}

// buttons maps eventstream buttons to Ebitengine's.
var buttons = [...]struct {
	ebiten ebiten.MouseButton
	button eventstream.MouseButton
}{
	{ebiten.MouseButtonLeft, eventstream.MouseButtonLeft},
	{ebiten.MouseButtonRight, eventstream.MouseButtonRight},
	{ebiten.MouseButtonMiddle, eventstream.MouseButtonMiddle},
	{ebiten.MouseButton3, eventstream.MouseButtonBack},
	{ebiten.MouseButton4, eventstream.MouseButtonForward},
}

// frame is one tick of Ebitengine input state.
type frame struct {
	x, y     float64
	pressed  []eventstream.MouseButton
	released []eventstream.MouseButton
	wheelX   float64
	wheelY   float64
	keysDown []ebiten.Key
	keysUp   []ebiten.Key
	width    int
	height   int
	focused  bool
	closing  bool
}

// Source converts Ebitengine input state into raw events. Poll must be
// called from the game's Update.
type Source struct {
	started bool
	x, y    float64
	width   int
	height  int
	focused bool
	closed  bool
	cur     frame
}

// NewSource returns a Source with nothing observed yet. The first Poll
// reports the cursor position and window size.
func NewSource() *Source {
	return &Source{}
}

// Poll reads the current input state and pushes every change to sink.
func (s *Source) Poll(sink Sink) {
	f := &s.cur
	mx, my := ebiten.CursorPosition()
	f.x, f.y = float64(mx), float64(my)

	f.pressed = f.pressed[:0]
	f.released = f.released[:0]
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			f.pressed = append(f.pressed, b.button)
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			f.released = append(f.released, b.button)
		}
	}

	f.wheelX, f.wheelY = ebiten.Wheel()
	f.keysDown = inpututil.AppendJustPressedKeys(f.keysDown[:0])
	f.keysUp = inpututil.AppendJustReleasedKeys(f.keysUp[:0])
	f.width, f.height = ebiten.WindowSize()
	f.focused = ebiten.IsFocused()
	f.closing = ebiten.IsWindowBeingClosed()

	s.emit(f, sink)
}

// emit pushes the events that turn the previous frame into f. Order within a
// tick: window state, pointer move, releases, presses, wheel, keys, close.
func (s *Source) emit(f *frame, sink Sink) {
	if !s.started || f.width != s.width || f.height != s.height {
		if f.width > 0 && f.height > 0 {
			sink.Push(eventstream.Resize(float64(f.width), float64(f.height)))
		}
		s.width, s.height = f.width, f.height
	}
	if s.started && f.focused != s.focused {
		sink.Push(eventstream.FocusChange(f.focused))
	}
	s.focused = f.focused

	if !s.started || f.x != s.x || f.y != s.y {
		sink.Push(eventstream.PointerMove(f.x, f.y))
		s.x, s.y = f.x, f.y
	}
	s.started = true

	for _, b := range f.released {
		sink.Push(eventstream.PointerUp(f.x, f.y, b))
	}
	for _, b := range f.pressed {
		sink.Push(eventstream.PointerDown(f.x, f.y, b))
	}

	if f.wheelX != 0 || f.wheelY != 0 {
		sink.Push(eventstream.Wheel(f.wheelX, f.wheelY, eventstream.WheelLines))
	}

	for _, k := range f.keysDown {
		if name, ok := KeyName(k); ok {
			sink.Push(eventstream.KeyDown(name))
		}
	}
	for _, k := range f.keysUp {
		if name, ok := KeyName(k); ok {
			sink.Push(eventstream.KeyUp(name))
		}
	}

	if f.closing && !s.closed {
		s.closed = true
		sink.Push(eventstream.Close())
	}
}

// KeyName converts an Ebitengine key to an eventstream key. Left and right
// modifier variants collapse to one name, letters are lower-cased and digit
// keys become the digit. The side-less virtual modifier keys report false
// since Ebitengine also reports the physical key.
func KeyName(k ebiten.Key) (eventstream.Key, bool) {
	switch k {
	case ebiten.KeyShift, ebiten.KeyControl, ebiten.KeyAlt, ebiten.KeyMeta:
		return "", false
	}
	name := k.String()
	switch {
	case name == "":
		return "", false
	case strings.HasPrefix(name, "Shift"):
		return eventstream.KeyShift, true
	case strings.HasPrefix(name, "Control"):
		return eventstream.KeyControl, true
	case strings.HasPrefix(name, "Alt"):
		return eventstream.KeyAlt, true
	case strings.HasPrefix(name, "Meta"):
		return eventstream.KeyMeta, true
	case len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z':
		return eventstream.Key(strings.ToLower(name)), true
	case len(name) == 6 && strings.HasPrefix(name, "Digit"):
		return eventstream.Key(name[5:]), true
	}
	return eventstream.Key(name), true
}
