package eventstream

import (
	"fmt"
	"time"
)

// StreamID identifies a registration within one Manager.
type StreamID uint32

// EventContext is what a handler sees for one scene event.
type EventContext struct {
	Event SceneEvent
	// Target is the geometry of Event.Target in Snapshot; zero when the
	// event is untargeted.
	Target Entry
	// Snapshot is the snapshot the event was resolved against. It may be nil.
	Snapshot *Snapshot
	// Hovered is the hover set after translation, topmost first. It must not
	// be retained past the call.
	Hovered []ElementRef

	Stream   string
	StreamID StreamID
}

// Handler reacts to scene events by mutating the application state.
type Handler[S any] interface {
	Handle(ctx EventContext, state *S) (UpdateStatus, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[S any] func(ctx EventContext, state *S) (UpdateStatus, error)

// Handle calls f.
func (f HandlerFunc[S]) Handle(ctx EventContext, state *S) (UpdateStatus, error) {
	return f(ctx, state)
}

// Between gates a stream to the window opened by an event matching Start
// and closed by an event matching End. The Start event itself is not
// delivered; the End event is, if it passes the stream's own filter.
type Between struct {
	Start EventFilter
	End   EventFilter
}

// StreamConfig describes one registration.
type StreamConfig struct {
	// Name labels the stream in logs, metrics and errors. Default:
	// "stream-<id>".
	Name string

	EventFilter

	// Consume stops later registrations from seeing events this stream
	// handled.
	Consume bool
	// Throttle is the minimum time between two invocations. Events arriving
	// sooner are dropped, not deferred.
	Throttle time.Duration
	// Between optionally restricts the stream to a gesture window.
	Between *Between
}

type compiledBetween struct {
	start, end compiledFilter
}

// registration is one stream plus its runtime state.
type registration[S any] struct {
	id       StreamID
	name     string
	filter   compiledFilter
	consume  bool
	throttle time.Duration
	between  *compiledBetween
	handler  Handler[S]

	removed bool

	dispatched   bool
	lastDispatch time.Time

	active      bool
	activeSince time.Time
}

func compileStream[S any](id StreamID, cfg StreamConfig, h Handler[S]) (*registration[S], error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil handler", ErrInvalidConfig)
	}
	if cfg.Throttle < 0 {
		return nil, fmt.Errorf("%w: negative throttle %v", ErrInvalidConfig, cfg.Throttle)
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("stream-%d", id)
	}
	f, err := cfg.EventFilter.compile()
	if err != nil {
		return nil, fmt.Errorf("stream %q: %w", name, err)
	}
	r := &registration[S]{
		id:       id,
		name:     name,
		filter:   f,
		consume:  cfg.Consume,
		throttle: cfg.Throttle,
		handler:  h,
	}
	if cfg.Between != nil {
		start, err := cfg.Between.Start.compile()
		if err != nil {
			return nil, fmt.Errorf("stream %q: between start: %w", name, err)
		}
		end, err := cfg.Between.End.compile()
		if err != nil {
			return nil, fmt.Errorf("stream %q: between end: %w", name, err)
		}
		r.between = &compiledBetween{start: start, end: end}
	}
	return r, nil
}

// admit runs between gating, filtering and throttling for ev and reports
// whether the handler should be invoked. Gating runs before the stream's
// own filter so boundaries are seen even when the stream ignores them.
func (r *registration[S]) admit(ev SceneEvent, m *Metrics) bool {
	if r.between != nil {
		if !r.active {
			if r.between.start.match(ev) {
				r.active = true
				r.activeSince = ev.Time
			} else if r.filter.match(ev) {
				m.recordSuppressed(r.name, reasonBetween)
			}
			return false
		}
		if r.between.end.match(ev) {
			r.active = false
			r.activeSince = time.Time{}
		}
	}
	if !r.filter.match(ev) {
		return false
	}
	if r.throttle > 0 {
		// An event older than the last dispatch means the clock was reset,
		// so it restarts the window instead of extending it.
		if elapsed := ev.Time.Sub(r.lastDispatch); r.dispatched && elapsed >= 0 && elapsed < r.throttle {
			m.recordSuppressed(r.name, reasonThrottle)
			return false
		}
		r.dispatched = true
		r.lastDispatch = ev.Time
	}
	return true
}

// reset clears the runtime state, keeping the configuration.
func (r *registration[S]) reset() {
	r.dispatched = false
	r.lastDispatch = time.Time{}
	r.active = false
	r.activeSince = time.Time{}
}

type unregisterer interface {
	Unregister(id StreamID) bool
}

// StreamHandle refers to a registered stream.
type StreamHandle struct {
	id    StreamID
	owner unregisterer
}

// ID returns the stream's identifier.
func (h StreamHandle) ID() StreamID { return h.id }

// Remove unregisters the stream. It reports whether the stream was still
// registered.
func (h StreamHandle) Remove() bool {
	if h.owner == nil {
		return false
	}
	return h.owner.Unregister(h.id)
}
