package eventstream

import (
	"fmt"
	"math"
	"slices"

	"github.com/tidwall/rtree"
)

// Entry describes one pickable mark instance.
type Entry struct {
	Ref    ElementRef
	Shape  Shape
	ZIndex int
	// StrokeWidth dilates the shape by half its value so thin strokes stay
	// pickable.
	StrokeWidth float64
	// Transform maps Shape coordinates into snapshot coordinates.
	Transform Affine
}

// Bounds returns the entry's stroke-expanded bounds in snapshot coordinates.
func (e Entry) Bounds() Rect {
	half := e.StrokeWidth / 2
	return e.Transform.ApplyRect(e.Shape.Bounds().Inset(half))
}

type indexedEntry struct {
	Entry
	seq    int
	half   float64
	inv    Affine
	local  bool // Transform is not the identity
	scale  float64
	bounds Rect
}

// distance returns the stroke-adjusted distance from a snapshot point to the
// entry, in snapshot units.
func (e *indexedEntry) distance(x, y float64) float64 {
	if e.local {
		x, y = e.inv.Apply(x, y)
	}
	return math.Max(e.Shape.Distance(x, y)-e.half, 0) * e.scale
}

func (e *indexedEntry) hit(x, y float64) bool {
	if e.local {
		x, y = e.inv.Apply(x, y)
	}
	if e.half == 0 {
		return e.Shape.Contains(x, y)
	}
	return e.Shape.Distance(x, y) <= e.half
}

// Snapshot is an immutable, versioned spatial index over the mark instances
// of one frame. A nil *Snapshot is valid and answers every query with an
// empty result.
type Snapshot struct {
	version uint64
	entries []indexedEntry
	byRef   map[ElementRef]int
	tree    rtree.RTreeG[int]
	bounds  Rect
}

// NewSnapshot indexes entries. Later entries are treated as drawn above
// earlier entries with the same ZIndex.
func NewSnapshot(version uint64, entries []Entry) (*Snapshot, error) {
	s := &Snapshot{
		version: version,
		entries: make([]indexedEntry, 0, len(entries)),
		byRef:   make(map[ElementRef]int, len(entries)),
	}
	for i, e := range entries {
		switch {
		case e.Ref.IsZero():
			return nil, fmt.Errorf("%w: entry %d has an empty reference", ErrInvalidSnapshot, i)
		case e.Shape == nil:
			return nil, fmt.Errorf("%w: entry %s has no shape", ErrInvalidSnapshot, e.Ref)
		case e.StrokeWidth < 0 || math.IsNaN(e.StrokeWidth):
			return nil, fmt.Errorf("%w: entry %s has stroke width %v", ErrInvalidSnapshot, e.Ref, e.StrokeWidth)
		}
		if _, dup := s.byRef[e.Ref]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %s", ErrInvalidSnapshot, e.Ref)
		}
		ie := indexedEntry{
			Entry:  e,
			seq:    i,
			half:   e.StrokeWidth / 2,
			local:  !e.Transform.IsIdentity(),
			scale:  1,
			bounds: e.Bounds(),
		}
		if ie.local {
			ie.inv = e.Transform.Invert()
			ie.scale = e.Transform.scaleFactor()
		}
		s.byRef[e.Ref] = len(s.entries)
		s.entries = append(s.entries, ie)
		s.tree.Insert(ie.bounds.min(), ie.bounds.max(), len(s.entries)-1)
		if i == 0 {
			s.bounds = ie.bounds
		} else {
			s.bounds = s.bounds.Union(ie.bounds)
		}
	}
	return s, nil
}

// Version returns the version the snapshot was built with.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Len returns the number of indexed instances.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Bounds returns the union of all expanded bounds.
func (s *Snapshot) Bounds() Rect {
	if s == nil {
		return Rect{}
	}
	return s.bounds
}

// Entry returns the indexed geometry for ref.
func (s *Snapshot) Entry(ref ElementRef) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.byRef[ref]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i].Entry, true
}

// HitTest returns every instance under (x, y), topmost first: highest
// ZIndex, then most recently added.
func (s *Snapshot) HitTest(x, y float64) []ElementRef {
	return s.appendHits(nil, x, y)
}

func (s *Snapshot) appendHits(buf []ElementRef, x, y float64) []ElementRef {
	if s == nil {
		return buf
	}
	pt := [2]float64{x, y}
	var hits []int
	s.tree.Search(pt, pt, func(_, _ [2]float64, i int) bool {
		if s.entries[i].hit(x, y) {
			hits = append(hits, i)
		}
		return true
	})
	s.sortTopmost(hits)
	for _, i := range hits {
		buf = append(buf, s.entries[i].Ref)
	}
	return buf
}

// Top returns the topmost instance under (x, y).
func (s *Snapshot) Top(x, y float64) (ElementRef, bool) {
	hits := s.HitTest(x, y)
	if len(hits) == 0 {
		return ElementRef{}, false
	}
	return hits[0], true
}

// Query returns every instance whose expanded bounds intersect r, topmost
// first.
func (s *Snapshot) Query(r Rect) []ElementRef {
	if s == nil {
		return nil
	}
	var hits []int
	s.tree.Search(r.min(), r.max(), func(_, _ [2]float64, i int) bool {
		hits = append(hits, i)
		return true
	})
	s.sortTopmost(hits)
	refs := make([]ElementRef, len(hits))
	for k, i := range hits {
		refs[k] = s.entries[i].Ref
	}
	return refs
}

// Nearest returns the instance closest to (x, y) within maxDist, measured to
// the stroke-expanded shape. Ties go to the topmost instance.
func (s *Snapshot) Nearest(x, y, maxDist float64) (ElementRef, bool) {
	if s == nil || maxDist < 0 {
		return ElementRef{}, false
	}
	best := -1
	bestDist := math.Inf(1)
	lo := [2]float64{x - maxDist, y - maxDist}
	hi := [2]float64{x + maxDist, y + maxDist}
	s.tree.Search(lo, hi, func(_, _ [2]float64, i int) bool {
		d := s.entries[i].distance(x, y)
		if d > maxDist {
			return true
		}
		if best < 0 || d < bestDist || (d == bestDist && s.above(i, best)) {
			best, bestDist = i, d
		}
		return true
	})
	if best < 0 {
		return ElementRef{}, false
	}
	return s.entries[best].Ref, true
}

// above reports whether entry i is drawn above entry j.
func (s *Snapshot) above(i, j int) bool {
	a, b := &s.entries[i], &s.entries[j]
	if a.ZIndex != b.ZIndex {
		return a.ZIndex > b.ZIndex
	}
	return a.seq > b.seq
}

func (s *Snapshot) sortTopmost(idx []int) {
	slices.SortFunc(idx, func(i, j int) int {
		switch {
		case s.above(i, j):
			return -1
		case s.above(j, i):
			return 1
		}
		return 0
	})
}

// Builder assembles a snapshot while walking a visualization's group
// hierarchy. Group transforms compose as groups are pushed.
type Builder struct {
	version uint64
	entries []Entry
	path    []string
	xf      []Affine
}

// NewBuilder starts a snapshot with the given version.
func NewBuilder(version uint64) *Builder {
	return &Builder{version: version, xf: []Affine{Identity}}
}

// PushGroup enters a child group positioned by xf relative to its parent.
func (b *Builder) PushGroup(name string, xf Affine) *Builder {
	b.path = append(b.path, name)
	b.xf = append(b.xf, b.xf[len(b.xf)-1].Multiply(xf))
	return b
}

// PopGroup leaves the current group. Popping the root is a no-op.
func (b *Builder) PopGroup() *Builder {
	if len(b.path) == 0 {
		return b
	}
	b.path = b.path[:len(b.path)-1]
	b.xf = b.xf[:len(b.xf)-1]
	return b
}

// Add records one instance of mark in the current group. Entries added
// later are drawn above earlier entries with the same z.
func (b *Builder) Add(mark string, instance int, shape Shape, z int, strokeWidth float64) *Builder {
	segs := append(slices.Clone(b.path), mark)
	b.entries = append(b.entries, Entry{
		Ref:         NewElementRef(instance, segs...),
		Shape:       shape,
		ZIndex:      z,
		StrokeWidth: strokeWidth,
		Transform:   b.xf[len(b.xf)-1],
	})
	return b
}

// Build validates and indexes the recorded entries.
func (b *Builder) Build() (*Snapshot, error) {
	return NewSnapshot(b.version, b.entries)
}
