package eventstream

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"
)

// EntityStore is the interface for optional ECS integration. When set on a
// Manager, every translated scene event is forwarded to it before the
// streams see it.
type EntityStore interface {
	EmitEvent(event SceneEvent)
}

// Manager translates raw events against the current snapshot and routes the
// resulting scene events to registered streams. S is the application state
// handlers mutate. A Manager is not safe for concurrent use; feed it from one
// goroutine, for example by draining a Queue.
type Manager[S any] struct {
	cfg    Config
	source SnapshotSource
	store  EntityStore
	debug  bool

	state InteractionState
	tr    translator

	regs   []*registration[S]
	nextID StreamID

	dispatching bool
	events      []SceneEvent
}

// NewManager creates a manager reading snapshots from source, which may be
// nil until Attach is called.
func NewManager[S any](source SnapshotSource, cfg Config) (*Manager[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.defaults()
	return &Manager[S]{
		cfg:    cfg,
		source: source,
		debug:  cfg.Debug,
		state:  newInteractionState(),
		tr:     translator{cfg: cfg},
	}, nil
}

// Config returns the manager's configuration with defaults applied.
func (m *Manager[S]) Config() Config { return m.cfg }

// SetEntityStore sets the optional ECS store that receives scene events.
func (m *Manager[S]) SetEntityStore(store EntityStore) { m.store = store }

// Register adds a stream after every existing one. Stream names must be
// unique. On error nothing is registered. Streams registered from inside a
// handler first see the next raw event.
func (m *Manager[S]) Register(cfg StreamConfig, h Handler[S]) (StreamHandle, error) {
	r, err := compileStream(m.nextID+1, cfg, h)
	if err != nil {
		return StreamHandle{}, err
	}
	if slices.ContainsFunc(m.regs, func(o *registration[S]) bool { return o.name == r.name }) {
		return StreamHandle{}, fmt.Errorf("%w: duplicate stream name %q", ErrInvalidConfig, r.name)
	}
	m.nextID++
	m.regs = append(m.regs, r)
	if m.debug {
		m.debugCheckStreams()
	}
	return StreamHandle{id: r.id, owner: m}, nil
}

// RegisterFunc is Register for a plain function.
func (m *Manager[S]) RegisterFunc(cfg StreamConfig, fn func(EventContext, *S) (UpdateStatus, error)) (StreamHandle, error) {
	if fn == nil {
		return StreamHandle{}, fmt.Errorf("%w: nil handler", ErrInvalidConfig)
	}
	return m.Register(cfg, HandlerFunc[S](fn))
}

// Unregister removes the stream with the given id. The stream is not
// invoked again, even for the remainder of an ongoing dispatch.
func (m *Manager[S]) Unregister(id StreamID) bool {
	i := slices.IndexFunc(m.regs, func(r *registration[S]) bool { return r.id == id })
	if i < 0 {
		return false
	}
	m.regs[i].removed = true
	// Copy so a dispatch iterating the old slice is unaffected.
	m.regs = slices.Delete(slices.Clone(m.regs), i, i+1)
	return true
}

// Streams returns the registered stream ids in dispatch order.
func (m *Manager[S]) Streams() []StreamID {
	ids := make([]StreamID, len(m.regs))
	for i, r := range m.regs {
		ids[i] = r.id
	}
	return ids
}

// Deliver translates raw and dispatches the resulting scene events. It
// returns the merged UpdateStatus of every invoked handler and the handler
// errors joined together. Handler errors do not stop dispatch.
func (m *Manager[S]) Deliver(raw RawEvent, state *S) (UpdateStatus, error) {
	return m.run(raw.Type.String(), state, func(snap *Snapshot, out []SceneEvent) []SceneEvent {
		if raw.Time.IsZero() {
			raw.Time = m.cfg.Clock()
		}
		m.cfg.Metrics.recordRaw(raw.Type)
		return m.tr.translate(raw, snap, &m.state, out)
	})
}

// DeliverAll delivers each event in order. Dispatch stops early only on
// ErrReentrantDispatch.
func (m *Manager[S]) DeliverAll(raws []RawEvent, state *S) (UpdateStatus, error) {
	var (
		status UpdateStatus
		errs   []error
	)
	for _, raw := range raws {
		st, err := m.Deliver(raw, state)
		status = status.Merge(st)
		if errors.Is(err, ErrReentrantDispatch) {
			return status, err
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return status, errors.Join(errs...)
}

// Refresh re-resolves the hover set at the last pointer position, typically
// after the snapshot was rebuilt, and dispatches any enter and leave events.
func (m *Manager[S]) Refresh(state *S) (UpdateStatus, error) {
	return m.run("refresh", state, func(snap *Snapshot, out []SceneEvent) []SceneEvent {
		return m.tr.rehover(snap, &m.state, m.cfg.Clock(), out)
	})
}

func (m *Manager[S]) run(label string, state *S, translate func(*Snapshot, []SceneEvent) []SceneEvent) (UpdateStatus, error) {
	if m.dispatching {
		return UpdateNone, ErrReentrantDispatch
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	start := time.Now()
	regs := m.regs
	snap := resolveSnapshot(m.source)
	m.events = translate(snap, m.events[:0])

	var (
		status  UpdateStatus
		errs    []error
		invoked int
	)
	for _, ev := range m.events {
		m.cfg.Metrics.recordScene(ev.Type)
		if m.store != nil {
			m.store.EmitEvent(ev)
		}
		ctx := EventContext{Event: ev, Snapshot: snap, Hovered: m.state.Hovered}
		if ev.Targeted() {
			ctx.Target, _ = snap.Entry(ev.Target)
		}
		for _, r := range regs {
			if r.removed || !r.admit(ev, m.cfg.Metrics) {
				continue
			}
			ctx.Stream, ctx.StreamID = r.name, r.id
			st, err := r.handler.Handle(ctx, state)
			invoked++
			status = status.Merge(st)
			m.cfg.Metrics.recordInvocation(r.name, err)
			if err != nil {
				errs = append(errs, &HandlerError{Stream: r.name, ID: r.id, Event: ev.Type, Err: err})
			}
			if r.consume {
				m.cfg.Metrics.recordConsumed(r.name)
				break
			}
		}
	}

	elapsed := time.Since(start)
	m.cfg.Metrics.recordDuration(elapsed)
	if m.debug {
		m.debugLog(label, snap, m.events, invoked, status, elapsed)
	}
	return status, errors.Join(errs...)
}

// Attach sets the snapshot source used for subsequent events.
func (m *Manager[S]) Attach(source SnapshotSource) { m.source = source }

// Detach drops the snapshot source and resets the interaction state and
// every stream's throttle and gesture state. Registrations are kept.
func (m *Manager[S]) Detach() {
	m.source = nil
	m.state = newInteractionState()
	m.tr.spare = nil
	for _, r := range m.regs {
		r.reset()
	}
}

// State returns a copy of the interaction state.
func (m *Manager[S]) State() InteractionState {
	c := m.state.clone()
	c.Gestures = m.ActiveGestures()
	return c
}

// Hovered returns the instances under the pointer, topmost first.
func (m *Manager[S]) Hovered() []ElementRef { return slices.Clone(m.state.Hovered) }

// Modifiers returns the modifier keys currently held.
func (m *Manager[S]) Modifiers() KeyModifiers { return m.state.Modifiers }

// Pointer returns the last pointer position and whether one has been seen.
func (m *Manager[S]) Pointer() (Vec2, bool) { return m.state.Pointer, m.state.HasPointer }

// ActiveGestures maps the name of every stream whose between window is open
// to the time it opened.
func (m *Manager[S]) ActiveGestures() map[string]time.Time {
	out := make(map[string]time.Time)
	for _, r := range m.regs {
		if r.between != nil && r.active {
			out[r.name] = r.activeSince
		}
	}
	return out
}

// WatchedFiles returns the sorted, de-duplicated Files of every stream.
func (m *Manager[S]) WatchedFiles() []string {
	seen := make(map[string]struct{})
	for _, r := range m.regs {
		for _, p := range r.filter.fileList() {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
