package eventstream

import "time"

// InjectMove queues a pointer move to (x, y).
func (q *Queue) InjectMove(x, y float64) {
	q.Push(PointerMove(x, y))
}

// InjectPress queues a left-button press at (x, y).
func (q *Queue) InjectPress(x, y float64) {
	q.Push(PointerDown(x, y, MouseButtonLeft))
}

// InjectRelease queues a left-button release at (x, y).
func (q *Queue) InjectRelease(x, y float64) {
	q.Push(PointerUp(x, y, MouseButtonLeft))
}

// InjectClick is a convenience that queues a move, press and release at
// the same coordinates.
func (q *Queue) InjectClick(x, y float64, button MouseButton) {
	q.Push(PointerMove(x, y))
	q.Push(PointerDown(x, y, button))
	q.Push(PointerUp(x, y, button))
}

// InjectDrag queues a full drag: press at (fromX, fromY), steps linearly
// interpolated moves, and release at (toX, toY). steps below zero count as
// zero.
func (q *Queue) InjectDrag(fromX, fromY, toX, toY float64, steps int) {
	q.InjectMove(fromX, fromY)
	q.InjectPress(fromX, fromY)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		q.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	q.InjectMove(toX, toY)
	q.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel scroll of (dx, dy) lines.
func (q *Queue) InjectWheel(dx, dy float64) {
	q.Push(Wheel(dx, dy, WheelLines))
}

// InjectKey queues a press and release of key.
func (q *Queue) InjectKey(key Key) {
	q.Push(KeyDown(key))
	q.Push(KeyUp(key))
}

// InjectSequence queues events stamped at start plus each one's offset in
// step, for replaying timed gestures.
func (q *Queue) InjectSequence(start time.Time, step time.Duration, events ...RawEvent) {
	for i, e := range events {
		q.Push(e.At(start.Add(time.Duration(i) * step)))
	}
}
