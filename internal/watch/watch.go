// Package watch reports changes to a single script file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keybot/internal/logging"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("watcher closed")

// Event is a change to the watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Watcher watches the directory holding one file and reports writes to
// that file. Watching the directory keeps the watch alive when editors
// replace the file by renaming.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	target string
	logger *logging.Logger

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New starts watching path.
func New(path string, opts ...Option) (*Watcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		fsw:     fsw,
		target:  target,
		logger:  logging.Null(),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watch")

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.target
}

// Events returns undebounced change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			select {
			case w.events <- Event{Path: w.target, Op: ev.Op, At: time.Now()}:
			case <-w.closeCh:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropped watch error: %v", err)
			}
		}
	}
}

// Run calls fn for every debounced change until ctx is done or the watcher
// is closed. Errors from fn are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, delay time.Duration, fn func(context.Context, Event) error) error {
	events := Debounce(ctx, w.Events(), delay)
	errs := w.Errors()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return ErrClosed
			}
			w.logger.Debug("%s changed (%s)", ev.Path, ev.Op)
			if err := fn(ctx, ev); err != nil {
				w.logger.Warn("handling change to %s: %v", ev.Path, err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}
