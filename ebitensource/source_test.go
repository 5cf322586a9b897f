package ebitensource

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/eventstream"
)

type sliceSink []eventstream.RawEvent

func (s *sliceSink) Push(e eventstream.RawEvent) { *s = append(*s, e) }

func (s sliceSink) types() []eventstream.RawEventType {
	out := make([]eventstream.RawEventType, len(s))
	for i, e := range s {
		out[i] = e.Type
	}
	return out
}

func assertTypes(t *testing.T, got sliceSink, want ...eventstream.RawEventType) {
	t.Helper()
	types := got.types()
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key    ebiten.Key
		want   eventstream.Key
		wantOK bool
	}{
		{ebiten.KeyA, "a", true},
		{ebiten.KeyZ, "z", true},
		{ebiten.KeyDigit1, "1", true},
		{ebiten.KeyShiftLeft, eventstream.KeyShift, true},
		{ebiten.KeyShiftRight, eventstream.KeyShift, true},
		{ebiten.KeyControlLeft, eventstream.KeyControl, true},
		{ebiten.KeyAltRight, eventstream.KeyAlt, true},
		{ebiten.KeyMetaLeft, eventstream.KeyMeta, true},
		{ebiten.KeyEscape, eventstream.KeyEscape, true},
		{ebiten.KeyEnter, eventstream.KeyEnter, true},
		{ebiten.KeySpace, eventstream.KeySpace, true},
		{ebiten.KeyArrowUp, eventstream.KeyArrowUp, true},
		{ebiten.KeyShift, "", false},
		{ebiten.KeyControl, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got, ok := KeyName(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("KeyName(%v) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEmitFirstFrame(t *testing.T) {
	s := NewSource()
	var sink sliceSink
	s.emit(&frame{x: 10, y: 20, width: 640, height: 480, focused: true}, &sink)

	assertTypes(t, sink, eventstream.RawResize, eventstream.RawPointerMove)
	if sink[0].Width != 640 || sink[0].Height != 480 {
		t.Errorf("resize = %vx%v, want 640x480", sink[0].Width, sink[0].Height)
	}
	if sink[1].X != 10 || sink[1].Y != 20 {
		t.Errorf("move = (%v, %v), want (10, 20)", sink[1].X, sink[1].Y)
	}
}

func TestEmitOnlyChanges(t *testing.T) {
	s := NewSource()
	var sink sliceSink
	f := frame{x: 10, y: 20, width: 640, height: 480, focused: true}
	s.emit(&f, &sink)
	sink = sink[:0]

	s.emit(&f, &sink)
	if len(sink) != 0 {
		t.Fatalf("unchanged frame emitted %v", sink.types())
	}

	f.x = 11
	s.emit(&f, &sink)
	assertTypes(t, sink, eventstream.RawPointerMove)
}

func TestEmitButtonsAndKeys(t *testing.T) {
	s := NewSource()
	var sink sliceSink
	s.emit(&frame{x: 5, y: 5, width: 100, height: 100, focused: true}, &sink)
	sink = sink[:0]

	s.emit(&frame{
		x: 5, y: 5, width: 100, height: 100, focused: true,
		pressed:  []eventstream.MouseButton{eventstream.MouseButtonLeft},
		released: []eventstream.MouseButton{eventstream.MouseButtonRight},
		wheelY:   -1,
		keysDown: []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShift, ebiten.KeyA},
		keysUp:   []ebiten.Key{ebiten.KeyEscape},
	}, &sink)

	assertTypes(t, sink,
		eventstream.RawPointerUp,
		eventstream.RawPointerDown,
		eventstream.RawWheel,
		eventstream.RawKeyDown,
		eventstream.RawKeyDown,
		eventstream.RawKeyUp,
	)
	if sink[0].Button != eventstream.MouseButtonRight {
		t.Errorf("release button = %v, want right", sink[0].Button)
	}
	if sink[1].Button != eventstream.MouseButtonLeft || sink[1].X != 5 {
		t.Errorf("press = %+v, want left at x=5", sink[1])
	}
	if sink[2].DeltaY != -1 || sink[2].DeltaMode != eventstream.WheelLines {
		t.Errorf("wheel = %+v, want dy=-1 lines", sink[2])
	}
	if sink[3].Key != eventstream.KeyShift || sink[4].Key != "a" {
		t.Errorf("keys = %q, %q, want Shift, a", sink[3].Key, sink[4].Key)
	}
}

func TestEmitWindowState(t *testing.T) {
	s := NewSource()
	var sink sliceSink
	f := frame{width: 100, height: 100, focused: true}
	s.emit(&f, &sink)
	sink = sink[:0]

	f.focused = false
	f.width = 200
	s.emit(&f, &sink)
	assertTypes(t, sink, eventstream.RawResize, eventstream.RawFocusChange)
	if sink[1].Focused {
		t.Error("focus change reports focused, want blurred")
	}

	sink = sink[:0]
	f.closing = true
	s.emit(&f, &sink)
	s.emit(&f, &sink)
	assertTypes(t, sink, eventstream.RawClose)
}

func TestRunRequiresApp(t *testing.T) {
	err := Run(App[struct{}]{}, RunConfig{})
	if !errors.Is(err, eventstream.ErrInvalidConfig) {
		t.Errorf("Run(empty app) = %v, want ErrInvalidConfig", err)
	}
}
