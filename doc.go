// Package eventstream turns raw input-device events into visualization-aware
// events and routes them to handler registrations.
//
// A host feeds one [RawEvent] at a time into [Manager.Deliver]. The manager
// resolves pointer positions against the current geometry [Snapshot] (an
// R-tree over every rendered mark instance), tracks hover, click and modifier
// state, and dispatches the resulting [SceneEvent] values to registered
// streams in registration order. Each handler receives exclusive access to
// the caller's application state and returns an [UpdateStatus]; the merged
// status tells the host whether to rebuild geometry, redraw, or do nothing.
//
// # Quick start
//
//	store := &eventstream.SnapshotStore{}
//	store.Swap(buildSnapshot(state))
//
//	m, err := eventstream.NewManager[ChartState](store, eventstream.Config{})
//	if err != nil { ... }
//
//	m.Register(eventstream.StreamConfig{
//		Name: "select-point",
//		EventFilter: eventstream.EventFilter{
//			Types:   []eventstream.EventType{eventstream.EventClick},
//			Targets: []eventstream.PathMatcher{eventstream.Prefix("chart.points")},
//		},
//		Consume: true,
//	}, eventstream.HandlerFunc[ChartState](func(ctx eventstream.EventContext, s *ChartState) (eventstream.UpdateStatus, error) {
//		s.Selected = ctx.Event.Target.Instance
//		return eventstream.UpdateRebuild, nil
//	}))
//
//	status, err := m.Deliver(eventstream.PointerMove(120, 80), &state)
//
// # Snapshots
//
// Snapshots are immutable. Build one with [NewSnapshot] or a [Builder] that
// mirrors the group hierarchy of the visualization, then publish it through
// a [SnapshotStore]. Every raw event resolves against whichever snapshot is
// current when it is delivered.
//
// # Streams
//
// A [StreamConfig] accepts a set of event kinds, optional target matchers
// ([Exact], [Prefix], [Glob], [Instance], [MatchFunc]), a subtree scope,
// spatial bounds, file paths and custom predicates. Streams may consume the
// events they handle, throttle their invocations, and gate themselves on a
// between window opened and closed by other events.
//
// Input from [Ebitengine] is adapted by the ebitensource package, file-change
// notifications by filewatch, and ECS integration (via [Donburi]) lives in
// eventstream/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package eventstream
