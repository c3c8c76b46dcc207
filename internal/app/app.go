// Package app wires configuration, logging, the dispatch backend, the
// interpreter and run history into the runtime used by the keybot command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/keybot/internal/config"
	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/history"
	"github.com/dshills/keybot/internal/interpreter"
	"github.com/dshills/keybot/internal/logging"
	"github.com/dshills/keybot/internal/timeline"
	"github.com/dshills/keybot/internal/watch"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. When empty the default path is
	// tried and a missing file is not an error.
	ConfigPath string

	// Configure is applied to the loaded configuration before validation,
	// typically to apply command-line flags.
	Configure func(*config.Config) error

	// LookupEnv replaces the environment lookup.
	LookupEnv config.LookupFunc

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Dispatcher replaces the configured backend. The application does not
	// close a dispatcher it did not open.
	Dispatcher dispatch.Dispatcher

	// Clock replaces the wall clock used by the timeline.
	Clock timeline.Clock
}

// Application is the keybot runtime.
type Application struct {
	config      *config.Config
	logger      *logging.Logger
	dispatcher  dispatch.Dispatcher
	ownDispatch bool
	interp      *interpreter.Interpreter
	history     *history.Store

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates and initializes an application.
func New(opts Options) (*Application, error) {
	app := &Application{}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the root logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Interpreter returns the interpreter.
func (app *Application) Interpreter() *interpreter.Interpreter {
	return app.interp
}

// History returns the run history, or nil when none is configured.
func (app *Application) History() *history.Store {
	return app.history
}

// Shutdown releases the dispatch backend and the history database.
// It is safe to call more than once.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		var errs ErrorList
		if app.ownDispatch && app.dispatcher != nil {
			errs.Add(dispatch.Close(app.dispatcher))
		}
		if app.history != nil {
			errs.Add(app.history.Close())
		}
		app.shutdownErr = errs.AsError()
	})
	return app.shutdownErr
}

// RunScript loads the script at path and runs one of its methods on a fresh
// timeline. The run is recorded in history when history is configured.
func (app *Application) RunScript(ctx context.Context, path, method string) (interpreter.Report, error) {
	ctx, cancel := app.withInterrupts(ctx)
	defer cancel()
	return app.runScript(ctx, path, method)
}

func (app *Application) runScript(ctx context.Context, path, method string) (interpreter.Report, error) {
	if err := app.interp.Load(path); err != nil {
		return interpreter.Report{Source: path, Method: method, Err: err}, err
	}

	app.interp.Reset()
	report, err := app.interp.Run(ctx, method)
	app.record(ctx, report)
	return report, err
}

// WatchScript runs the script once and again every time the file changes,
// until ctx is done. Failed runs are logged and do not stop the watch.
func (app *Application) WatchScript(ctx context.Context, path, method string) error {
	ctx, cancel := app.withInterrupts(ctx)
	defer cancel()

	w, err := watch.New(path, watch.WithLogger(app.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	logger := app.logger.WithComponent("watch")
	rerun := func(ctx context.Context, _ watch.Event) error {
		_, err := app.runScript(ctx, path, method)
		if errors.Is(err, interpreter.ErrInvalidFile) {
			return err
		}
		if err != nil {
			logger.Error("%v", err)
		}
		return nil
	}

	if err := rerun(ctx, watch.Event{Path: path}); err != nil {
		return err
	}
	logger.Info("watching %s", w.Path())
	return w.Run(ctx, app.config.Watch.Debounce.Std(), rerun)
}

// ReplaySchedule plays a schedule previously written by timeline.Export.
// The format is chosen by the file extension (.yaml, .yml or .json).
func (app *Application) ReplaySchedule(ctx context.Context, path string) (int, error) {
	format, err := timeline.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	method, entries, err := timeline.Import(f, format)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	ctx, cancel := app.withInterrupts(ctx)
	defer cancel()

	tl := app.interp.Timeline()
	app.interp.Reset()
	for _, e := range entries {
		tl.Queue(e.Gap, e.Key, e.Toggle)
	}
	app.logger.Info("replaying %s from %s: %d events over %s", method, path, tl.Len(), tl.Total())
	return tl.Len(), tl.Execute(ctx, app.dispatcher)
}

func (app *Application) record(ctx context.Context, report interpreter.Report) {
	if app.history == nil {
		return
	}
	run := history.FromReport(report, app.config.Dispatch.Backend)
	if err := app.history.Record(context.WithoutCancel(ctx), run); err != nil {
		app.logger.Warn("recording run %s: %v", run.ID, err)
	}
}

// withInterrupts derives a context that is also cancelled when the backend
// reports a user interrupt.
func (app *Application) withInterrupts(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	interrupts := dispatch.Interrupts(app.dispatcher)
	if interrupts == nil {
		return ctx, cancel
	}

	go func() {
		select {
		case <-interrupts:
			app.logger.Info("interrupted from terminal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
