package interpreter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/input/fuzzy"
	"github.com/dshills/keybot/internal/logging"
	"github.com/dshills/keybot/internal/script/compiler"
	"github.com/dshills/keybot/internal/script/program"
	"github.com/dshills/keybot/internal/timeline"
)

// FileExtension is the suffix every script path must carry.
const FileExtension = ".bot.lisp"

// MainMethod is the method run by Main.
const MainMethod = "main"

// Interpreter owns one compiled environment and one timeline.
// It is not safe for concurrent use.
type Interpreter struct {
	env        program.Environment
	timeline   *timeline.Timeline
	dispatcher dispatch.Dispatcher
	compile    compiler.Options
	logger     *logging.Logger
	source     string

	readFile     func(string) ([]byte, error)
	timelineOpts []timeline.Option
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithCompileOptions sets the timings used when compiling scripts.
func WithCompileOptions(opts compiler.Options) Option {
	return func(in *Interpreter) {
		in.compile = opts
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(in *Interpreter) {
		in.logger = l
	}
}

// WithClock replaces the clock the timeline sleeps on.
func WithClock(c timeline.Clock) Option {
	return func(in *Interpreter) {
		in.timelineOpts = append(in.timelineOpts, timeline.WithClock(c))
	}
}

// New creates an interpreter with an empty environment that dispatches
// through d.
func New(d dispatch.Dispatcher, opts ...Option) *Interpreter {
	in := &Interpreter{
		env:        program.Environment{},
		dispatcher: d,
		compile:    compiler.DefaultOptions(),
		logger:     logging.Null(),
		readFile:   os.ReadFile,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger = in.logger.WithComponent("interpreter")

	tlOpts := append([]timeline.Option{timeline.WithLogger(in.logger.WithComponent("timeline"))}, in.timelineOpts...)
	in.timeline = timeline.New(tlOpts...)
	return in
}

// Environment returns the compiled methods.
func (in *Interpreter) Environment() program.Environment {
	return in.env
}

// Timeline returns the interpreter's timeline.
func (in *Interpreter) Timeline() *timeline.Timeline {
	return in.timeline
}

// Source returns the name of the last successfully loaded script.
func (in *Interpreter) Source() string {
	return in.source
}

// Load reads, tokenizes and compiles the script at path, replacing the
// environment. The extension is checked before the file is read. On failure
// the previous environment is kept.
func (in *Interpreter) Load(path string) error {
	if !strings.HasSuffix(path, FileExtension) {
		return &Error{Op: "load", Target: path, Expected: FileExtension, Err: ErrInvalidFile}
	}

	data, err := in.readFile(path)
	if err != nil {
		return &Error{Op: "load", Target: path, Err: fmt.Errorf("%w: %w", ErrFileNotFound, err)}
	}

	return in.LoadSource(path, string(data))
}

// LoadSource compiles script text named source, replacing the environment.
// On failure the previous environment is kept.
func (in *Interpreter) LoadSource(source, src string) error {
	env, err := compiler.CompileSource(src, source, in.compile)
	if err != nil {
		return &Error{Op: "load", Target: source, Err: err}
	}

	in.env = env
	in.source = source
	in.logger.Debug("loaded %s: %d methods", source, len(env))
	return nil
}

// Reset discards the queued schedule. The environment is kept, so the same
// script can run again without recompiling.
func (in *Interpreter) Reset() {
	in.timeline.Clear()
}

// Execute schedules one operation. It never blocks and never dispatches.
func (in *Interpreter) Execute(op program.Operation) error {
	switch op := op.(type) {
	case program.Input:
		in.timeline.Queue(op.Gap, op.Key, op.Toggle)
		return nil
	default:
		return &Error{Op: "queue", Target: fmt.Sprintf("%T", op), Err: ErrUnsupportedOperation}
	}
}

// ExecuteMethod queues every operation of the named method, in order, and
// then drains the timeline through the dispatcher.
//
// Queuing stops at the first failing operation; operations queued before it
// stay queued and nothing is dispatched. The timeline is not cleared after
// the drain: call Reset before running again to avoid replaying stale
// entries.
func (in *Interpreter) ExecuteMethod(ctx context.Context, name string) error {
	return in.executeMethod(ctx, name, in.logger)
}

func (in *Interpreter) executeMethod(ctx context.Context, name string, logger *logging.Logger) error {
	if err := in.queueMethod(name); err != nil {
		return err
	}
	if in.dispatcher == nil {
		return &Error{Op: "execute", Target: name, Err: ErrNoDispatcher}
	}

	logger.Info("executing %s: %d events over %s", name, in.timeline.Len(), in.timeline.Total())
	if err := in.timeline.Execute(ctx, in.dispatcher); err != nil {
		return &Error{Op: "execute", Target: name, Err: err}
	}
	return nil
}

func (in *Interpreter) queueMethod(name string) error {
	ops, ok := in.env.Lookup(name)
	if !ok {
		return &Error{
			Op:      "execute",
			Target:  name,
			Similar: fuzzy.Suggest(name, in.env.Methods(), 3),
			Err:     ErrMethodNotFound,
		}
	}
	for _, op := range ops {
		if err := in.Execute(op); err != nil {
			return err
		}
	}
	return nil
}

// Main executes the main method.
func (in *Interpreter) Main(ctx context.Context) error {
	return in.ExecuteMethod(ctx, MainMethod)
}

// Schedule resets the timeline and queues the named method without
// dispatching anything, returning the resulting entries.
func (in *Interpreter) Schedule(name string) ([]timeline.Entry, error) {
	in.Reset()
	if err := in.queueMethod(name); err != nil {
		return nil, err
	}
	return in.timeline.Entries(), nil
}

// Report describes one Run.
type Report struct {
	ID        uuid.UUID
	Source    string
	Method    string
	Events    int
	Scheduled time.Duration
	Started   time.Time
	Finished  time.Time
	Err       error
}

// Elapsed returns the wall-clock duration of the run.
func (r Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Status returns "ok", "cancelled" or "failed".
func (r Report) Status() string {
	switch {
	case r.Err == nil:
		return "ok"
	case isCancellation(r.Err):
		return "cancelled"
	default:
		return "failed"
	}
}

// Run executes a method as a tracked run with its own ID. The returned
// error is also recorded in the report.
func (in *Interpreter) Run(ctx context.Context, method string) (Report, error) {
	report := Report{
		ID:      uuid.New(),
		Source:  in.source,
		Method:  method,
		Started: time.Now(),
	}
	logger := in.logger.WithFields(map[string]any{"run_id": report.ID, "method": method})

	report.Err = in.executeMethod(ctx, method, logger)
	report.Finished = time.Now()
	report.Events = in.timeline.Len()
	report.Scheduled = in.timeline.Total()

	if report.Err != nil {
		logger.Warn("run %s: %v", report.Status(), report.Err)
	} else {
		logger.Info("run finished in %s", report.Elapsed().Round(time.Millisecond))
	}
	return report, report.Err
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
