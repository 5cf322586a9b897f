package eventstream

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func ref(path string) ElementRef {
	r, err := ParseElementRef(path)
	if err != nil {
		panic(err)
	}
	return r
}

func mustSnapshot(t *testing.T, entries ...Entry) *Snapshot {
	t.Helper()
	s, err := NewSnapshot(1, entries)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return s
}

func TestSnapshotHitTestOrder(t *testing.T) {
	s := mustSnapshot(t,
		Entry{Ref: ref("a"), Shape: HitRect{Width: 50, Height: 50}, ZIndex: 1},
		Entry{Ref: ref("b"), Shape: HitRect{Width: 30, Height: 30}, ZIndex: 2},
		Entry{Ref: ref("c"), Shape: HitRect{Width: 50, Height: 50}, ZIndex: 1},
	)

	tests := []struct {
		name string
		x, y float64
		want []ElementRef
	}{
		{"all three", 10, 10, []ElementRef{ref("b"), ref("c"), ref("a")}},
		{"outside b", 40, 40, []ElementRef{ref("c"), ref("a")}},
		{"nothing", 100, 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.HitTest(tt.x, tt.y)
			if !slices.Equal(got, tt.want) {
				t.Errorf("HitTest(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	top, ok := s.Top(10, 10)
	if !ok || top != ref("b") {
		t.Errorf("Top = %v, %v; want b", top, ok)
	}
}

func TestSnapshotStrokeWidth(t *testing.T) {
	s := mustSnapshot(t,
		Entry{Ref: ref("rule"), Shape: HitPolyline{Points: []Vec2{{0, 10}, {100, 10}}}, StrokeWidth: 4},
	)
	if hits := s.HitTest(50, 11.5); len(hits) != 1 {
		t.Errorf("point within half stroke should hit, got %v", hits)
	}
	if hits := s.HitTest(50, 12.5); len(hits) != 0 {
		t.Errorf("point beyond half stroke should miss, got %v", hits)
	}
	if got, want := s.Bounds(), (Rect{X: -2, Y: 8, Width: 104, Height: 4}); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestSnapshotTransform(t *testing.T) {
	s := mustSnapshot(t,
		Entry{
			Ref:       ref("g.dot[0]"),
			Shape:     HitCircle{Radius: 5},
			Transform: Translate(100, 100).Multiply(Scale(2, 2)),
		},
	)
	if hits := s.HitTest(109, 100); len(hits) != 1 {
		t.Errorf("scaled circle should reach radius 10, got %v", hits)
	}
	if hits := s.HitTest(111, 100); len(hits) != 0 {
		t.Errorf("point outside scaled circle hit: %v", hits)
	}
	r, ok := s.Nearest(113, 100, 5)
	if !ok || r != ref("g.dot[0]") {
		t.Errorf("Nearest = %v, %v", r, ok)
	}
	if _, ok := s.Nearest(113, 100, 2); ok {
		t.Error("distance should be measured in snapshot units")
	}
}

func TestSnapshotQuery(t *testing.T) {
	s := mustSnapshot(t,
		Entry{Ref: ref("a"), Shape: HitRect{X: 0, Y: 0, Width: 10, Height: 10}},
		Entry{Ref: ref("b"), Shape: HitRect{X: 20, Y: 0, Width: 10, Height: 10}, ZIndex: 5},
		Entry{Ref: ref("c"), Shape: HitRect{X: 50, Y: 50, Width: 10, Height: 10}},
	)
	got := s.Query(Rect{X: 5, Y: 5, Width: 20, Height: 2})
	if want := []ElementRef{ref("b"), ref("a")}; !slices.Equal(got, want) {
		t.Errorf("Query = %v, want %v", got, want)
	}
}

func TestSnapshotNearestTie(t *testing.T) {
	s := mustSnapshot(t,
		Entry{Ref: ref("left"), Shape: HitPoint{X: 0, Y: 0}},
		Entry{Ref: ref("right"), Shape: HitPoint{X: 10, Y: 0}},
	)
	r, ok := s.Nearest(5, 0, 10)
	if !ok || r != ref("right") {
		t.Errorf("Nearest tie = %v, %v; want later entry", r, ok)
	}
	r, _ = s.Nearest(3, 0, 10)
	if r != ref("left") {
		t.Errorf("Nearest(3, 0) = %v, want left", r)
	}
}

func TestSnapshotNil(t *testing.T) {
	var s *Snapshot
	if s.Len() != 0 || s.Version() != 0 {
		t.Error("nil snapshot should be empty")
	}
	if hits := s.HitTest(0, 0); len(hits) != 0 {
		t.Errorf("HitTest on nil = %v", hits)
	}
	if _, ok := s.Nearest(0, 0, 100); ok {
		t.Error("Nearest on nil should fail")
	}
	if _, ok := s.Entry(ref("a")); ok {
		t.Error("Entry on nil should fail")
	}
	if got := s.Query(Rect{Width: 10, Height: 10}); got != nil {
		t.Errorf("Query on nil = %v", got)
	}
}

func TestNewSnapshotRejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty ref", []Entry{{Shape: HitRect{}}}},
		{"nil shape", []Entry{{Ref: ref("a")}}},
		{"negative stroke", []Entry{{Ref: ref("a"), Shape: HitRect{}, StrokeWidth: -1}}},
		{"NaN stroke", []Entry{{Ref: ref("a"), Shape: HitRect{}, StrokeWidth: math.NaN()}}},
		{"duplicate", []Entry{{Ref: ref("a"), Shape: HitRect{}}, {Ref: ref("a"), Shape: HitCircle{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(1, tt.entries)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("err = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestBuilderGroups(t *testing.T) {
	b := NewBuilder(7)
	b.PushGroup("chart", Translate(100, 0))
	b.Add("points", 0, HitCircle{CenterX: 10, CenterY: 10, Radius: 3}, 0, 0)
	b.PushGroup("legend", Translate(0, 50))
	b.Add("swatch", NoInstance, HitRect{Width: 10, Height: 10}, 1, 0)
	b.PopGroup().PopGroup().PopGroup()
	b.Add("title", NoInstance, HitRect{Width: 50, Height: 10}, 0, 0)

	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Version() != 7 || s.Len() != 3 {
		t.Fatalf("Version, Len = %d, %d; want 7, 3", s.Version(), s.Len())
	}
	if top, _ := s.Top(110, 10); top != ref("chart.points[0]") {
		t.Errorf("Top(110, 10) = %v", top)
	}
	if top, _ := s.Top(105, 55); top != ref("chart.legend.swatch") {
		t.Errorf("Top(105, 55) = %v", top)
	}
	if top, _ := s.Top(20, 5); top != ref("title") {
		t.Errorf("Top(20, 5) = %v", top)
	}
	e, ok := s.Entry(ref("chart.legend.swatch"))
	if !ok || e.ZIndex != 1 {
		t.Errorf("Entry = %+v, %v", e, ok)
	}
}

func TestSnapshotStore(t *testing.T) {
	var store SnapshotStore
	if store.Current() != nil {
		t.Fatal("zero store should be empty")
	}
	s1 := mustSnapshot(t, Entry{Ref: ref("a"), Shape: HitRect{Width: 1, Height: 1}})
	if old := store.Swap(s1); old != nil {
		t.Errorf("first Swap returned %v", old)
	}
	if store.Current() != s1 {
		t.Error("Current should return the swapped snapshot")
	}
}

func TestHoverTargetsSlop(t *testing.T) {
	s := mustSnapshot(t, Entry{Ref: ref("dot"), Shape: HitCircle{CenterX: 0, CenterY: 0, Radius: 2}})
	if got := hoverTargets(nil, s, 5, 0, 0); len(got) != 0 {
		t.Errorf("no slop: %v", got)
	}
	if got := hoverTargets(nil, s, 5, 0, 4); !slices.Equal(got, []ElementRef{ref("dot")}) {
		t.Errorf("slop 4: %v", got)
	}
}
