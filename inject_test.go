package eventstream

import (
	"slices"
	"sync"
	"testing"
	"time"
)

func rawTypes(evs []RawEvent) []RawEventType {
	out := make([]RawEventType, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

func TestQueueDrain(t *testing.T) {
	var q Queue
	q.InjectClick(50, 50, MouseButtonLeft)
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	got := q.Drain(nil)
	want := []RawEventType{RawPointerMove, RawPointerDown, RawPointerUp}
	if !slices.Equal(rawTypes(got), want) {
		t.Errorf("Drain = %v, want %v", rawTypes(got), want)
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d", q.Len())
	}
}

func TestQueueDrainCoalesced(t *testing.T) {
	var q Queue
	q.InjectMove(1, 1)
	q.InjectMove(2, 2)
	q.InjectMove(3, 3)
	q.InjectPress(3, 3)
	q.InjectMove(4, 4)
	q.InjectMove(5, 5)
	q.InjectRelease(5, 5)

	got := q.DrainCoalesced(nil)
	want := []RawEventType{RawPointerMove, RawPointerDown, RawPointerMove, RawPointerUp}
	if !slices.Equal(rawTypes(got), want) {
		t.Fatalf("DrainCoalesced = %v, want %v", rawTypes(got), want)
	}
	if got[0].X != 3 || got[2].X != 5 {
		t.Errorf("coalesced moves kept %v and %v, want the last of each run", got[0].X, got[2].X)
	}
}

func TestInjectDrag(t *testing.T) {
	var q Queue
	// Drag from (10,10) to (200,200) with 3 intermediate moves:
	// ~(57.5, 57.5), (105, 105), ~(152.5, 152.5)
	q.InjectDrag(10, 10, 200, 200, 3)
	got := q.Drain(nil)
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if got[1].Type != RawPointerDown || got[6].Type != RawPointerUp {
		t.Errorf("drag should start with press and end with release: %v", rawTypes(got))
	}
	assertNear(t, "mid x", got[3].X, 105)
	assertNear(t, "end x", got[6].X, 200)
}

func TestInjectDragReachesHandlers(t *testing.T) {
	m := newTestManager(t, Config{PointerEvents: true}, abSnapshot(t))
	mustRegister(t, m, StreamConfig{EventFilter: EventFilter{Types: []EventType{EventMouseDown, EventMouseUp, EventClick}}}, recorder(UpdateNone))

	var q Queue
	q.InjectDrag(10, 10, 40, 40, 2)
	var s chartState
	if _, err := m.DeliverAll(q.Drain(nil), &s); err != nil {
		t.Fatal(err)
	}
	// A drag past the click tolerance is not a click.
	if want := []string{"mouse-down B", "mouse-up A"}; !slices.Equal(s.log, want) {
		t.Errorf("log = %q, want %q", s.log, want)
	}
}

func TestInjectKeyAndWheel(t *testing.T) {
	var q Queue
	q.InjectKey(KeyEscape)
	q.InjectWheel(0, -2)
	got := q.Drain(nil)
	want := []RawEventType{RawKeyDown, RawKeyUp, RawWheel}
	if !slices.Equal(rawTypes(got), want) {
		t.Fatalf("events = %v, want %v", rawTypes(got), want)
	}
	if got[0].Key != KeyEscape || got[2].DeltaY != -2 {
		t.Errorf("payloads = %+v", got)
	}
}

func TestInjectSequence(t *testing.T) {
	var q Queue
	q.InjectSequence(t0, 10*time.Millisecond, Wheel(0, 1, WheelLines), Wheel(0, 1, WheelLines), Wheel(0, 1, WheelLines))
	got := q.Drain(nil)
	for i, e := range got {
		if !e.Time.Equal(ms(i * 10)) {
			t.Errorf("event %d time = %v, want %v", i, e.Time, ms(i*10))
		}
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.InjectMove(float64(j), 0)
			}
		}()
	}
	wg.Wait()
	if n := len(q.Drain(nil)); n != 800 {
		t.Errorf("drained %d, want 800", n)
	}
}
