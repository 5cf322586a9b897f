// Package filewatch turns filesystem notifications into eventstream
// file-changed events.
//
// The watcher subscribes to the parent directory of every requested file,
// so editors that save by writing a temp file and renaming it over the
// original are still observed. Bursts of writes to one file are debounced
// into a single event.
//
// Typical usage:
//
//	w, err := filewatch.New(queue, filewatch.Options{Debounce: 100 * time.Millisecond}, m.WatchedFiles()...)
//	if err != nil { ... }
//	defer w.Close()
//	go w.Run(ctx)
package filewatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phanxgames/eventstream"
)

// ErrRemoved is reported on the file-changed event of a watched file that
// was removed or renamed away.
var ErrRemoved = errors.New("file removed")

// Sink receives raw events. *eventstream.Queue satisfies it.
type Sink interface {
	Push(e eventstream.RawEvent)
}

// Options tunes the watcher.
type Options struct {
	// Debounce is the quiet period after a change before the event is
	// pushed. Further changes to the same file restart it. 0 means push
	// immediately.
	Debounce time.Duration
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Debounce < 0 {
		o.Debounce = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Stats are point-in-time counters.
type Stats struct {
	Notifications int64 `json:"notifications"`
	Pushed        int64 `json:"pushed"`
	Errors        int64 `json:"errors"`
}

// Watcher pushes a file-changed raw event to its sink whenever a watched
// file is written, created or removed.
type Watcher struct {
	fs   *fsnotify.Watcher
	sink Sink
	opts Options

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}

	notifications atomic.Int64
	pushed        atomic.Int64
	errors        atomic.Int64
}

// New creates a Watcher for paths. Call Run to start delivering events and
// Close to release the underlying watcher.
func New(sink Sink, opts Options, paths ...string) (*Watcher, error) {
	opts.defaults()
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filewatch: %w", err)
	}
	w := &Watcher{
		fs:    fw,
		sink:  sink,
		opts:  opts,
		files: make(map[string]struct{}),
		dirs:  make(map[string]struct{}),
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Add starts watching path. Adding a path twice is a no-op.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filewatch: %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; ok {
		return nil
	}
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("filewatch: watch %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	return nil
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Notifications: w.notifications.Load(),
		Pushed:        w.pushed.Load(),
		Errors:        w.errors.Load(),
	}
}

func (w *Watcher) watched(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(name)]
	return ok
}

// Run blocks until ctx is cancelled or the watcher is closed, pushing
// events to the sink. No debounce timer outlives Run.
func (w *Watcher) Run(ctx context.Context) {
	log := w.opts.Logger
	deb := newDebouncer(w.opts.Debounce)
	defer deb.close()

	push := func(c change) {
		w.pushed.Add(1)
		log.Debug("filewatch: file changed", "path", c.path, "error", c.err)
		w.sink.Push(eventstream.FileChanged(c.path, c.err))
	}

	log.Info("filewatch: started", "files", len(w.Files()), "debounce", w.opts.Debounce)
	for {
		select {
		case <-ctx.Done():
			log.Info("filewatch: stopped")
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.watched(ev.Name) {
				continue
			}
			var c change
			switch {
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
				c = change{path: filepath.Clean(ev.Name)}
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				c = change{path: filepath.Clean(ev.Name), err: ErrRemoved}
			default:
				continue
			}
			w.notifications.Add(1)
			if w.opts.Debounce <= 0 {
				push(c)
				continue
			}
			deb.schedule(c)

		case d := <-deb.due:
			if deb.settle(d) {
				push(d.change)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.errors.Add(1)
			log.Warn("filewatch: watcher error", "error", err)
		}
	}
}

type change struct {
	path string
	err  error
}

type delivery struct {
	change
	gen uint64
}

type pendingChange struct {
	timer *time.Timer
	gen   uint64
}

// debouncer delays changes per path. A newer change to a path replaces the
// pending one. Each timer carries a generation and settle accepts only the
// latest, so a timer that fired while being replaced cannot push twice.
// Only the Run goroutine calls its methods.
type debouncer struct {
	delay   time.Duration
	due     chan delivery
	done    chan struct{}
	gen     uint64
	pending map[string]pendingChange
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		due:     make(chan delivery),
		done:    make(chan struct{}),
		pending: make(map[string]pendingChange),
	}
}

func (d *debouncer) schedule(c change) {
	d.gen++
	gen := d.gen
	if p, ok := d.pending[c.path]; ok && p.timer.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.pending[c.path] = pendingChange{gen: gen, timer: time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		select {
		case d.due <- delivery{change: c, gen: gen}:
		case <-d.done:
		}
	})}
}

// settle reports whether d is the latest change for its path and clears it.
func (d *debouncer) settle(dl delivery) bool {
	p, ok := d.pending[dl.path]
	if !ok || p.gen != dl.gen {
		return false
	}
	delete(d.pending, dl.path)
	return true
}

// close drops every pending change and waits for fired timers to return.
func (d *debouncer) close() {
	close(d.done)
	for path, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, path)
	}
	d.wg.Wait()
}

// Close stops the underlying watcher. A running Run returns.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
