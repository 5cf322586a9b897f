package ebitensource

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/eventstream"
)

// RunConfig holds window and loop options for Run.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height set the initial window size. Zero means 640x480.
	Width, Height int
	// Resizable lets the user resize the window. Resizes are delivered as
	// window-resize scene events.
	Resizable bool
	// Coalesce collapses consecutive pointer moves queued within one tick.
	Coalesce bool
	// ShowFPS draws an FPS, TPS and event-rate overlay above the app.
	ShowFPS bool
	// Debug enables the manager's per-dispatch debug logging.
	Debug bool
}

// App is what Run drives. Manager, State, Store and Rebuild are required.
type App[S any] struct {
	Manager *eventstream.Manager[S]
	State   *S
	// Store holds the snapshot the manager hit-tests against. Run attaches
	// it to Manager.
	Store *eventstream.SnapshotStore
	// Queue receives polled events. Other producers, such as a file
	// watcher, may push to it too. Nil means Run allocates one.
	Queue *eventstream.Queue
	// Rebuild produces a fresh snapshot from the state. It runs once before
	// the first frame and again whenever a handler returns UpdateRebuild.
	Rebuild func(state *S) (*eventstream.Snapshot, error)
	// Update, if set, runs once per tick after dispatch.
	Update func(state *S) error
	// Draw renders the state.
	Draw func(screen *ebiten.Image, state *S)
}

type game[S any] struct {
	app    App[S]
	source *Source
	logger *slog.Logger
	buf    []eventstream.RawEvent
	cfg    RunConfig
	fps    *fpsOverlay
}

// Run opens a window and runs app until the window is closed or a callback
// returns an error. Closing the window is delivered as a window-close scene
// event before Run returns nil.
func Run[S any](app App[S], cfg RunConfig) error {
	if app.Manager == nil || app.State == nil || app.Store == nil || app.Rebuild == nil {
		return fmt.Errorf("%w: app needs Manager, State, Store and Rebuild", eventstream.ErrInvalidConfig)
	}
	if app.Queue == nil {
		app.Queue = &eventstream.Queue{}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 640, 480
	}
	g := &game[S]{
		app:    app,
		source: NewSource(),
		logger: app.Manager.Config().Logger,
		cfg:    cfg,
	}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	if err := g.rebuild(); err != nil {
		return err
	}
	app.Manager.Attach(app.Store)
	if cfg.Debug {
		app.Manager.SetDebugMode(true)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *game[S]) rebuild() error { return rebuild(g.app) }

func rebuild[S any](app App[S]) error {
	snap, err := app.Rebuild(app.State)
	if err != nil {
		return fmt.Errorf("rebuild snapshot: %w", err)
	}
	app.Store.Swap(snap)
	return nil
}

// MaxRebuilds bounds how many times Settle rebuilds the snapshot for one
// dispatch.
const MaxRebuilds = 4

// Settle rebuilds the snapshot and refreshes the hover set for as long as
// status asks for a rebuild, up to MaxRebuilds times. A refresh can itself
// enter handlers that ask for another rebuild. It returns status merged with
// every refresh status.
//
// Handler errors are logged and do not stop the loop. A failed rebuild or a
// reentrant dispatch is returned.
func Settle[S any](app App[S], status eventstream.UpdateStatus) (eventstream.UpdateStatus, error) {
	logger := app.Manager.Config().Logger
	merged, pending := status, status
	for i := 0; pending.NeedsRebuild(); i++ {
		if i == MaxRebuilds {
			logger.Warn("eventstream snapshot did not settle", slog.Int("rebuilds", i))
			break
		}
		if err := rebuild(app); err != nil {
			return merged, err
		}
		var err error
		pending, err = app.Manager.Refresh(app.State)
		if errors.Is(err, eventstream.ErrReentrantDispatch) {
			return merged, err
		}
		if err != nil {
			logger.Warn("eventstream handler failed", slog.Any("error", err))
		}
		merged = merged.Merge(pending)
	}
	return merged, nil
}

// Update implements ebiten.Game.
func (g *game[S]) Update() error {
	m := g.app.Manager
	g.source.Poll(g.app.Queue)
	if g.cfg.Coalesce {
		g.buf = g.app.Queue.DrainCoalesced(g.buf[:0])
	} else {
		g.buf = g.app.Queue.Drain(g.buf[:0])
	}

	if g.fps != nil {
		g.fps.update(len(g.buf))
	}

	status, err := m.DeliverAll(g.buf, g.app.State)
	if errors.Is(err, eventstream.ErrReentrantDispatch) {
		return err
	}
	if err != nil {
		g.logger.Warn("eventstream handler failed", slog.Any("error", err))
	}

	if _, err := Settle(g.app, status); err != nil {
		return err
	}

	if m.State().Closed {
		return ebiten.Termination
	}
	if g.app.Update != nil {
		return g.app.Update(g.app.State)
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *game[S]) Draw(screen *ebiten.Image) {
	if g.app.Draw != nil {
		g.app.Draw(screen, g.app.State)
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout implements ebiten.Game. The logical screen tracks the window so
// pointer coordinates match the sizes reported by resize events.
func (g *game[S]) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
