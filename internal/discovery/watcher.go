package discovery

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"stagehand/pkg/logging"
)

// DefaultDebounceInterval is how long the watcher waits for further changes
// before invalidating.
const DefaultDebounceInterval = 250 * time.Millisecond

// Watcher invalidates a Discoverer's cache entry when files in the watched
// directory change.
type Watcher struct {
	mu sync.Mutex

	dir        string
	discoverer *Discoverer
	debounce   time.Duration
	onChange   func(dir string)

	timer   *time.Timer
	stopCh  chan struct{}
	done    chan struct{}
	running bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounceInterval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnChange registers a callback run after each invalidation.
func WithOnChange(fn func(dir string)) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// NewWatcher creates a watcher for dir. It does nothing until Start.
func NewWatcher(dir string, discoverer *Discoverer, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:        dir,
		discoverer: discoverer,
		debounce:   DefaultDebounceInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The watcher stops when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, w.done)

	logging.Info("DiscoveryWatcher", "Started watching %s for definition changes", w.dir)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh, done chan struct{}) {
	defer close(done)
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("DiscoveryWatcher", err, "Error closing filesystem watcher")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			w.cancelPending()
			return

		case <-stopCh:
			w.cancelPending()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("DiscoveryWatcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if !isYAMLFile(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	logging.Debug("DiscoveryWatcher", "%s %s", event.Op, filepath.Base(event.Name))

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.invalidate)
}

func (w *Watcher) invalidate() {
	w.mu.Lock()
	w.timer = nil
	onChange := w.onChange
	w.mu.Unlock()

	w.discoverer.Invalidate(w.dir)
	logging.Info("DiscoveryWatcher", "Definitions in %s changed, cache invalidated", w.dir)

	if onChange != nil {
		onChange(w.dir)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Stop ends watching and waits for the event loop to exit. The watcher also
// stops on its own once the context passed to Start is done.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	done := w.done
	w.mu.Unlock()

	<-done
	return nil
}

// Running reports whether the event loop is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
