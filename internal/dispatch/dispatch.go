// Package dispatch provides the input-dispatch capability: raising one
// key-down or key-up event for a logical key.
package dispatch

import (
	"errors"
	"fmt"
	"io"

	"github.com/dshills/keybot/internal/input/key"
)

// Errors for dispatchers.
var (
	// ErrUnsupportedKey is returned when a backend cannot raise a key.
	ErrUnsupportedKey = errors.New("key not supported by backend")

	// ErrUnsupportedPlatform is returned when a backend is unavailable on
	// this operating system.
	ErrUnsupportedPlatform = errors.New("backend not supported on this platform")

	// ErrClosed is returned when dispatching through a closed backend.
	ErrClosed = errors.New("dispatcher is closed")

	// ErrUnknownBackend is returned by Open for an unrecognised name.
	ErrUnknownBackend = errors.New("unknown dispatch backend")
)

// Dispatcher raises key events. Dispatch blocks until the event has been
// handed to the backend.
type Dispatcher interface {
	Dispatch(k key.Key, t key.Toggle) error
}

// Func adapts a function to a Dispatcher.
type Func func(k key.Key, t key.Toggle) error

// Dispatch calls f.
func (f Func) Dispatch(k key.Key, t key.Toggle) error {
	return f(k, t)
}

// Multi fans every event out to several dispatchers in order, stopping at
// the first error.
type Multi []Dispatcher

// Dispatch sends the event to each dispatcher.
func (m Multi) Dispatch(k key.Key, t key.Toggle) error {
	for _, d := range m {
		if err := d.Dispatch(k, t); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every dispatcher that implements io.Closer.
func (m Multi) Close() error {
	var errs []error
	for _, d := range m {
		if err := Close(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes d if it implements io.Closer.
func Close(d Dispatcher) error {
	if c, ok := d.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Interrupter is implemented by backends that let the user stop a run.
type Interrupter interface {
	// Interrupts is closed when the user asks to stop.
	Interrupts() <-chan struct{}
}

// Interrupts returns the interrupt channel of d, or of the first member of
// a Multi that has one. It returns nil, which never fires, otherwise.
func Interrupts(d Dispatcher) <-chan struct{} {
	switch d := d.(type) {
	case Interrupter:
		return d.Interrupts()
	case Multi:
		for _, m := range d {
			if ch := Interrupts(m); ch != nil {
				return ch
			}
		}
	}
	return nil
}

// KeyError reports a dispatch failure for one event.
type KeyError struct {
	Key    key.Key
	Toggle key.Toggle
	Err    error
}

func (e *KeyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("dispatch %s %s: %v", e.Key, e.Toggle, e.Err)
}

func (e *KeyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
