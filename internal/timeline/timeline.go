// Package timeline queues key events relative to one another and replays
// them in strict order.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/input/key"
	"github.com/dshills/keybot/internal/logging"
)

// Timeline errors.
var (
	// ErrBusy is returned when Execute is called while another drain of
	// the same timeline is in progress.
	ErrBusy = errors.New("timeline is already executing")

	// ErrDispatch marks a failure raised by the dispatcher.
	ErrDispatch = errors.New("dispatch failed")
)

// Entry is one scheduled event. Gap is measured from the previous entry's
// dispatch (or from the start of Execute for the first entry).
type Entry struct {
	Gap    time.Duration
	Key    key.Key
	Toggle key.Toggle
}

// DispatchError reports which entry the dispatcher rejected.
type DispatchError struct {
	Index int
	Entry Entry
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("entry %d (%s %s): %v", e.Index, e.Entry.Key, e.Entry.Toggle, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Is matches ErrDispatch as well as the wrapped error.
func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatch
}

// Timeline is an ordered queue of entries.
// Queue and Clear are not meant to be called while Execute is running.
type Timeline struct {
	mu      sync.Mutex
	entries []Entry
	clock   Clock
	logger  *logging.Logger
	running atomic.Bool
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(t *Timeline) {
		t.clock = c
	}
}

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *logging.Logger) Option {
	return func(t *Timeline) {
		t.logger = l
	}
}

// New creates an empty timeline.
func New(opts ...Option) *Timeline {
	t := &Timeline{
		clock:  RealClock{},
		logger: logging.Null(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Queue appends an entry. It never blocks on dispatch and cannot fail.
func (t *Timeline) Queue(gap time.Duration, k key.Key, toggle key.Toggle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Gap: gap, Key: k, Toggle: toggle})
}

// Clear discards every queued entry without executing it.
func (t *Timeline) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Len returns the number of queued entries.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Entries returns a copy of the queued entries.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Total returns the sum of all gaps, i.e. the offset of the last entry.
func (t *Timeline) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, e := range t.entries {
		total += e.Gap
	}
	return total
}

// IsExecuting returns true while Execute is draining the timeline.
func (t *Timeline) IsExecuting() bool {
	return t.running.Load()
}

// Execute walks the entries in order: for each it sleeps for the gap and
// then dispatches the event. The queue is left intact.
//
// Cancelling ctx stops the walk before the next dispatch and returns
// ctx.Err(). A dispatch failure stops the walk and returns a
// *DispatchError. Events already dispatched are not undone.
func (t *Timeline) Execute(ctx context.Context, d dispatch.Dispatcher) error {
	if d == nil {
		return errors.New("dispatcher cannot be nil")
	}
	if !t.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer t.running.Store(false)

	entries := t.Entries()
	var elapsed time.Duration

	for i, e := range entries {
		if err := t.clock.Sleep(ctx, e.Gap); err != nil {
			t.logger.Debug("cancelled before entry %d of %d", i, len(entries))
			return err
		}
		elapsed += e.Gap

		if err := d.Dispatch(e.Key, e.Toggle); err != nil {
			return &DispatchError{Index: i, Entry: e, Err: err}
		}
		t.logger.Debug("+%s %s %s", elapsed, e.Key, e.Toggle)
	}
	return nil
}
