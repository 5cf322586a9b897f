package eventstream

import (
	"slices"
	"time"
)

// translator turns raw events into scene events. It mutates the
// InteractionState it is handed and nothing else.
type translator struct {
	cfg Config
	// spare is the hover buffer not currently held by the state. The two
	// swap on every hover update so neither is reallocated per move.
	spare []ElementRef
}

// translate appends the scene events produced by raw to out.
func (t *translator) translate(raw RawEvent, snap *Snapshot, st *InteractionState, out []SceneEvent) []SceneEvent {
	now := raw.Time
	switch raw.Type {
	case RawPointerMove:
		out = t.moveTo(raw.X, raw.Y, snap, st, now, out)
		if t.cfg.PointerEvents {
			ev := st.event(EventCursorMoved, now)
			ev.Target = pick(snap, st)
			out = append(out, ev)
		}

	case RawPointerDown:
		if st.movedFrom(raw.X, raw.Y) {
			out = t.moveTo(raw.X, raw.Y, snap, st, now, out)
		} else {
			out = t.sync(snap, st, now, out)
		}
		st.Buttons = st.Buttons.with(raw.Button)
		if int(raw.Button) < numButtons {
			st.presses[raw.Button] = pressRecord{valid: true, x: raw.X, y: raw.Y, time: now}
		}
		if t.cfg.PointerEvents {
			ev := st.event(EventMouseDown, now)
			ev.Target = pick(snap, st)
			ev.Button = raw.Button
			out = append(out, ev)
		}

	case RawPointerUp:
		if st.movedFrom(raw.X, raw.Y) {
			out = t.moveTo(raw.X, raw.Y, snap, st, now, out)
		} else {
			out = t.sync(snap, st, now, out)
		}
		st.Buttons = st.Buttons.without(raw.Button)
		var press pressRecord
		if int(raw.Button) < numButtons {
			press = st.presses[raw.Button]
			st.presses[raw.Button] = pressRecord{}
		}
		if press.valid && distance(press.x, press.y, raw.X, raw.Y) <= t.cfg.ClickTolerance {
			out = t.click(raw.Button, pick(snap, st), st, now, out)
		}
		if t.cfg.PointerEvents {
			ev := st.event(EventMouseUp, now)
			ev.Target = pick(snap, st)
			ev.Button = raw.Button
			out = append(out, ev)
		}

	case RawWheel:
		out = t.sync(snap, st, now, out)
		ev := st.event(EventMouseWheel, now)
		ev.Target = pick(snap, st)
		ev.DeltaX, ev.DeltaY, ev.DeltaMode = raw.DeltaX, raw.DeltaY, raw.DeltaMode
		out = append(out, ev)

	case RawKeyDown, RawKeyUp:
		out = t.sync(snap, st, now, out)
		typ := EventKeyPress
		if raw.Type == RawKeyDown {
			st.Modifiers |= raw.Key.Modifier()
		} else {
			st.Modifiers &^= raw.Key.Modifier()
			typ = EventKeyRelease
		}
		ev := st.event(typ, now)
		ev.Key = raw.Key
		out = append(out, ev)

	case RawFileChanged:
		ev := st.event(EventFileChanged, now)
		ev.Path, ev.Err = raw.Path, raw.Err
		out = append(out, ev)

	case RawResize:
		st.Viewport = Vec2{X: raw.Width, Y: raw.Height}
		ev := st.event(EventWindowResize, now)
		ev.Width, ev.Height = raw.Width, raw.Height
		out = append(out, ev)

	case RawFocusChange:
		st.Focused = raw.Focused
		if !raw.Focused {
			st.releaseAll()
		}
		ev := st.event(EventWindowFocus, now)
		ev.Focused = raw.Focused
		out = append(out, ev)

	case RawClose:
		st.Closed = true
		out = append(out, st.event(EventWindowClose, now))
	}
	return out
}

// pick returns the topmost instance under the stored pointer in snap. Unlike
// the hover set it ignores hover slop.
func pick(snap *Snapshot, st *InteractionState) ElementRef {
	if !st.HasPointer {
		return ElementRef{}
	}
	ref, _ := snap.Top(st.Pointer.X, st.Pointer.Y)
	return ref
}

// click emits the click for a completed press on target at the current
// pointer. Only the left button takes part in double-click detection.
func (t *translator) click(button MouseButton, target ElementRef, st *InteractionState, now time.Time, out []SceneEvent) []SceneEvent {
	ev := st.event(EventClick, now)
	ev.Target = target
	ev.Button = button
	ev.ClickCount = 1

	if button != MouseButtonLeft {
		return append(out, ev)
	}

	last := st.lastClick
	double := last.valid &&
		last.target == target &&
		now.Sub(last.time) <= t.cfg.DoubleClickWindow &&
		distance(last.x, last.y, st.Pointer.X, st.Pointer.Y) <= t.cfg.DoubleClickDistance
	if !double {
		st.lastClick = clickRecord{valid: true, target: target, x: st.Pointer.X, y: st.Pointer.Y, time: now}
		return append(out, ev)
	}

	st.lastClick = clickRecord{}
	if t.cfg.DoubleClickPolicy == DoubleClickBoth {
		out = append(out, ev)
	}
	ev.Type = EventDoubleClick
	ev.ClickCount = 2
	return append(out, ev)
}

// moveTo stores the pointer position and re-resolves hover against snap.
func (t *translator) moveTo(x, y float64, snap *Snapshot, st *InteractionState, now time.Time, out []SceneEvent) []SceneEvent {
	st.Pointer = Vec2{X: x, Y: y}
	st.HasPointer = true
	return t.rehover(snap, st, now, out)
}

// sync re-resolves hover when snap is not the snapshot the hover set was
// computed against, so a rebuilt scene reports its enters and leaves before
// the event that noticed it.
func (t *translator) sync(snap *Snapshot, st *InteractionState, now time.Time, out []SceneEvent) []SceneEvent {
	if st.snap == snap {
		return out
	}
	return t.rehover(snap, st, now, out)
}

// rehover diffs the hover set at the stored pointer. Leaves come first in
// the previous hover order, then enters topmost first.
func (t *translator) rehover(snap *Snapshot, st *InteractionState, now time.Time, out []SceneEvent) []SceneEvent {
	st.snap = snap
	if !st.HasPointer {
		return out
	}
	next := hoverTargets(t.spare, snap, st.Pointer.X, st.Pointer.Y, t.cfg.HoverSlop)
	for _, ref := range st.Hovered {
		if !slices.Contains(next, ref) {
			ev := st.event(EventMouseLeave, now)
			ev.Target = ref
			out = append(out, ev)
		}
	}
	for _, ref := range next {
		if !slices.Contains(st.Hovered, ref) {
			ev := st.event(EventMouseEnter, now)
			ev.Target = ref
			out = append(out, ev)
		}
	}
	t.spare = st.Hovered
	st.Hovered = next
	return out
}
