package macro

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/keybot/internal/input/key"
)

// ErrAlreadyRecording is returned by Start while a recording is active.
var ErrAlreadyRecording = errors.New("already recording")

// Press is one recorded key press with the modifiers held during it.
type Press struct {
	Key  key.Key
	Mods []key.Key
	At   time.Time
}

// Recorder collects presses between Start and Stop.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	started   time.Time
	presses   []Press
	now       func() time.Time
}

// NewRecorder creates an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Start begins a new recording, discarding the previous one.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}
	r.recording = true
	r.started = r.now()
	r.presses = nil
	return nil
}

// Stop ends the recording and returns a copy of the presses.
// Returns nil if not recording.
func (r *Recorder) Stop() []Press {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil
	}
	r.recording = false
	return r.copyLocked()
}

// IsRecording returns true while recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Started returns when the current or last recording began.
func (r *Recorder) Started() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Record stamps and adds a press. Does nothing if not recording.
func (r *Recorder) Record(k key.Key, mods ...key.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}
	r.presses = append(r.presses, Press{Key: k, Mods: mods, At: r.now()})
}

// Presses returns a copy of the presses recorded so far.
func (r *Recorder) Presses() []Press {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyLocked()
}

// Len returns the number of recorded presses.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.presses)
}

func (r *Recorder) copyLocked() []Press {
	out := make([]Press, len(r.presses))
	copy(out, r.presses)
	return out
}
