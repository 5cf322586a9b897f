package eventstream

import "sync/atomic"

// SnapshotSource yields the geometry snapshot current at the time of the
// call. A source may return nil before the first frame has been built.
type SnapshotSource interface {
	Current() *Snapshot
}

// SnapshotFunc adapts a function to the SnapshotSource interface.
type SnapshotFunc func() *Snapshot

// Current calls the underlying function.
func (f SnapshotFunc) Current() *Snapshot { return f() }

// SnapshotStore holds the latest snapshot. Providers replace it wholesale
// with Swap; readers always see a complete snapshot. The zero value holds no
// snapshot and is ready to use.
type SnapshotStore struct {
	cur atomic.Pointer[Snapshot]
}

// Current returns the latest snapshot, or nil if none has been stored.
func (s *SnapshotStore) Current() *Snapshot { return s.cur.Load() }

// Swap publishes snap and returns the snapshot it replaced.
func (s *SnapshotStore) Swap(snap *Snapshot) *Snapshot { return s.cur.Swap(snap) }

// resolveSnapshot returns the source's current snapshot; a missing source
// behaves like an empty snapshot.
func resolveSnapshot(src SnapshotSource) *Snapshot {
	if src == nil {
		return nil
	}
	return src.Current()
}

// hoverTargets returns the instances the pointer hovers at (x, y). When
// nothing is hit and slop is positive, the nearest instance within slop is
// used so fast pointer motion does not skip thin marks.
func hoverTargets(buf []ElementRef, snap *Snapshot, x, y, slop float64) []ElementRef {
	buf = snap.appendHits(buf[:0], x, y)
	if len(buf) == 0 && slop > 0 {
		if ref, ok := snap.Nearest(x, y, slop); ok {
			buf = append(buf, ref)
		}
	}
	return buf
}
