package eventstream

import "sync"

// Queue is a FIFO of raw events. Producers such as the ebiten poller and
// the file watcher push from any goroutine; the host loop drains it into
// Manager.DeliverAll. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	events []RawEvent
}

// Push appends e.
func (q *Queue) Push(e RawEvent) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Drain appends every queued event to buf in arrival order and empties the
// queue.
func (q *Queue) Drain(buf []RawEvent) []RawEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	buf = append(buf, q.events...)
	clear(q.events)
	q.events = q.events[:0]
	return buf
}

// DrainCoalesced is Drain with runs of consecutive pointer moves collapsed
// to the last one, so a slow frame handles one move instead of many.
func (q *Queue) DrainCoalesced(buf []RawEvent) []RawEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.events {
		if e.Type == RawPointerMove && i+1 < len(q.events) && q.events[i+1].Type == RawPointerMove {
			continue
		}
		buf = append(buf, e)
	}
	clear(q.events)
	q.events = q.events[:0]
	return buf
}
