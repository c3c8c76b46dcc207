package dispatch

import (
	"sync"
	"time"

	"github.com/dshills/keybot/internal/input/key"
)

// Event is a dispatched key event as seen by a Recorder.
type Event struct {
	Key    key.Key
	Toggle key.Toggle
	At     time.Time
}

// Recorder keeps every event it is asked to dispatch. It never fails and is
// safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Dispatch records the event.
func (r *Recorder) Dispatch(k key.Key, t key.Toggle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Key: k, Toggle: t, At: r.now()})
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset forgets every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
