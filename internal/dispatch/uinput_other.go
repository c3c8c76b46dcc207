//go:build !linux

package dispatch

import "github.com/dshills/keybot/internal/input/key"

// Uinput is only available on Linux.
type Uinput struct{}

// NewUinput always fails outside Linux.
func NewUinput(name string) (*Uinput, error) {
	return nil, ErrUnsupportedPlatform
}

// Dispatch always fails outside Linux.
func (u *Uinput) Dispatch(k key.Key, t key.Toggle) error {
	return &KeyError{Key: k, Toggle: t, Err: ErrUnsupportedPlatform}
}

// Close is a no-op.
func (u *Uinput) Close() error { return nil }
