package ebitensource

import (
	"errors"
	"testing"

	"github.com/phanxgames/eventstream"
)

type settleState struct {
	rebuilds int
}

// newSettleApp builds an app whose nth snapshot holds the elements layout(n)
// returns, all under the pointer at (10, 10). Its enter handler answers with
// onEnter.
func newSettleApp(t *testing.T, layout func(rebuilds int) []string, onEnter eventstream.UpdateStatus) App[settleState] {
	t.Helper()
	app := App[settleState]{
		State: &settleState{},
		Store: &eventstream.SnapshotStore{},
	}
	app.Rebuild = func(s *settleState) (*eventstream.Snapshot, error) {
		var entries []eventstream.Entry
		for i, path := range layout(s.rebuilds) {
			entries = append(entries, eventstream.Entry{
				Ref:    eventstream.NewElementRef(eventstream.NoInstance, path),
				Shape:  eventstream.HitRect{Width: 50, Height: 50},
				ZIndex: i,
			})
		}
		s.rebuilds++
		return eventstream.NewSnapshot(uint64(s.rebuilds), entries)
	}
	if err := rebuild(app); err != nil {
		t.Fatal(err)
	}
	m, err := eventstream.NewManager[settleState](app.Store, eventstream.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.Register(eventstream.StreamConfig{
		EventFilter: eventstream.EventFilter{Types: []eventstream.EventType{eventstream.EventMouseEnter}},
	}, eventstream.HandlerFunc[settleState](func(eventstream.EventContext, *settleState) (eventstream.UpdateStatus, error) {
		return onEnter, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	app.Manager = m
	if _, err := m.Deliver(eventstream.PointerMove(10, 10), app.State); err != nil {
		t.Fatal(err)
	}
	return app
}

func TestSettle(t *testing.T) {
	grows := func(n int) []string {
		if n == 0 {
			return []string{"a"}
		}
		return []string{"a", "b"}
	}
	flips := func(n int) []string {
		if n%2 == 0 {
			return []string{"a"}
		}
		return []string{"b"}
	}
	tests := []struct {
		name         string
		layout       func(int) []string
		status       eventstream.UpdateStatus
		wantRebuilds int
		wantStatus   eventstream.UpdateStatus
	}{
		{"render only", grows, eventstream.UpdateRender, 0, eventstream.UpdateRender},
		// The first rebuild adds b under the pointer; entering it asks again.
		{"follows refresh", grows, eventstream.UpdateRebuild, 2, eventstream.UpdateRebuild},
		{"bounded", flips, eventstream.UpdateRebuild, MaxRebuilds, eventstream.UpdateRebuild},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newSettleApp(t, tt.layout, eventstream.UpdateRebuild)
			before := app.State.rebuilds
			status, err := Settle(app, tt.status)
			if err != nil {
				t.Fatalf("Settle: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
			if got := app.State.rebuilds - before; got != tt.wantRebuilds {
				t.Errorf("rebuilds = %d, want %d", got, tt.wantRebuilds)
			}
		})
	}
}

func TestSettleRebuildError(t *testing.T) {
	app := newSettleApp(t, func(int) []string { return []string{"a"} }, eventstream.UpdateNone)
	errBroken := errors.New("broken data")
	app.Rebuild = func(*settleState) (*eventstream.Snapshot, error) { return nil, errBroken }

	if _, err := Settle(app, eventstream.UpdateRebuild); !errors.Is(err, errBroken) {
		t.Errorf("Settle = %v, want %v", err, errBroken)
	}
}
