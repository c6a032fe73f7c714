package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the minimum spacing between two reloads.
const DefaultInterval = 250 * time.Millisecond

// Event conveys a reloaded catalog set or the error that stopped the reload.
type Event struct {
	Path string
	Set  catalog.Set
	Err  error
}

// Watcher reloads a catalog file whenever it changes on disk and publishes
// the result.
type Watcher struct {
	path     string
	throttle *throttle
	load     func(string) (catalog.Set, error)
	fs       *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching path. The parent directory is watched so
// editors that replace the file by rename keep being tracked.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	return newWatcher(path, interval, catalog.LoadFile)
}

func newWatcher(path string, interval time.Duration, load func(string) (catalog.Set, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		throttle: newThrottle(interval),
		load:     load,
		fs:       fsw,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}

	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns a channel of reload events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited and the events channel
// is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.fs.Close()

	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(evt) {
				continue
			}
			if !w.throttle.wait(w.ctx) {
				return
			}
			w.drain()
			if !w.emit(w.reload()) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !w.emit(Event{Path: w.path, Err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != w.path {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create)
}

// drain discards the notifications that queued up while throttled; the
// reload that follows reads the latest content anyway.
func (w *Watcher) drain() {
	for {
		select {
		case <-w.fs.Events:
		default:
			return
		}
	}
}

func (w *Watcher) reload() Event {
	set, err := w.load(w.path)
	if err != nil {
		events.Catalog.Error(w.path, err)
		return Event{Path: w.path, Err: err}
	}
	events.Catalog.Reloaded(w.path, set.Projects.Len()+set.Types.Len())
	return Event{Path: w.path, Set: set}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
