package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/keybot/internal/config"
	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/history"
	"github.com/dshills/keybot/internal/interpreter"
	"github.com/dshills/keybot/internal/logging"
)

// bootstrapper initializes components in dependency order and releases
// the ones already started when a later one fails.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initDispatcher,
		b.initHistory,
		b.initInterpreter,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	required := path != ""
	if !required {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(config.Options{Path: path, Required: required, LookupEnv: b.opts.LookupEnv})
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if b.opts.Configure != nil {
		if err := b.opts.Configure(cfg); err != nil {
			return &InitError{Component: "config", Err: err}
		}
		if err := cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogging() error {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(b.app.config.Logging.Level)
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}
	b.app.logger = logging.New(cfg)
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	if b.opts.Dispatcher != nil {
		b.app.dispatcher = b.opts.Dispatcher
		return nil
	}

	dc := b.app.config.Dispatch
	d, err := dispatch.Open(dispatch.Options{
		Backend:    dc.Backend,
		LuaHook:    dc.LuaHook,
		DeviceName: dc.DeviceName,
		Echo:       dc.Echo,
		Logger:     b.app.logger,
	})
	if err != nil {
		return &InitError{Component: "dispatcher", Err: err}
	}

	b.app.dispatcher = d
	b.app.ownDispatch = true
	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

func (b *bootstrapper) initHistory() error {
	path := b.app.config.History.Path
	if path == "" {
		return nil
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return &InitError{Component: "history", Err: err}
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return &InitError{Component: "history", Err: fmt.Errorf("%s: %w", path, err)}
	}

	b.app.history = store
	b.initOrder = append(b.initOrder, "history")
	return nil
}

func (b *bootstrapper) initInterpreter() error {
	opts := []interpreter.Option{
		interpreter.WithLogger(b.app.logger),
		interpreter.WithCompileOptions(b.app.config.Compiler.Options()),
	}
	if b.opts.Clock != nil {
		opts = append(opts, interpreter.WithClock(b.opts.Clock))
	}
	b.app.interp = interpreter.New(b.app.dispatcher, opts...)
	b.initOrder = append(b.initOrder, "interpreter")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "dispatcher":
			if err := dispatch.Close(b.app.dispatcher); err != nil && b.app.logger != nil {
				b.app.logger.Warn("closing dispatcher: %v", err)
			}
		case "history":
			_ = b.app.history.Close()
		}
	}
}
