package dispatch

import (
	"errors"
	"fmt"

	"github.com/dshills/keybot/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendUinput   = "uinput"
	BackendLog      = "log"
	BackendLua      = "lua"
	BackendTerminal = "terminal"
)

// DefaultDeviceName names the uinput virtual keyboard.
const DefaultDeviceName = "keybot virtual keyboard"

// Backends returns every backend name.
func Backends() []string {
	return []string{BackendUinput, BackendLog, BackendLua, BackendTerminal}
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of the Backend* names.
	Backend string
	// LuaHook is the hook script for the lua backend.
	LuaHook string
	// DeviceName names the uinput device. Defaults to DefaultDeviceName.
	DeviceName string
	// Echo additionally logs every event.
	Echo bool
	// Logger is used by the log backend and by Echo.
	Logger *logging.Logger
}

// Open creates the dispatcher described by opts. Close it with Close.
func Open(opts Options) (Dispatcher, error) {
	var (
		d   Dispatcher
		err error
	)

	switch opts.Backend {
	case BackendUinput:
		name := opts.DeviceName
		if name == "" {
			name = DefaultDeviceName
		}
		d, err = NewUinput(name)
	case BackendLog:
		return NewLog(opts.Logger), nil
	case BackendLua:
		if opts.LuaHook == "" {
			return nil, errors.New("lua backend requires a hook script")
		}
		d, err = NewLua(opts.LuaHook)
	case BackendTerminal:
		d, err = OpenTerminal()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", opts.Backend, err)
	}

	if opts.Echo {
		return Multi{d, NewLog(opts.Logger)}, nil
	}
	return d, nil
}
