package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keybot/internal/config"
	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/input/key"
	"github.com/dshills/keybot/internal/interpreter"
	"github.com/dshills/keybot/internal/timeline"
)

type instantClock struct{}

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// blockingClock sleeps until ctx is done.
type blockingClock struct{}

func (blockingClock) Sleep(ctx context.Context, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

type interruptingRecorder struct {
	*dispatch.Recorder
	ch chan struct{}
}

func (r interruptingRecorder) Interrupts() <-chan struct{} { return r.ch }

func noEnv(string) (string, bool) { return "", false }

func writeScript(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "macro"+interpreter.FileExtension)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func newTestApp(t *testing.T, d dispatch.Dispatcher, opts Options) *Application {
	t.Helper()
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("[history]\npath = \":memory:\"\n"), 0o600))
	}
	opts.Dispatcher = d
	opts.LookupEnv = noEnv
	if opts.Clock == nil {
		opts.Clock = instantClock{}
	}
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Shutdown()) })
	return app
}

func TestRunScriptRecordsHistory(t *testing.T) {
	rec := dispatch.NewRecorder()
	app := newTestApp(t, rec, Options{})
	path := writeScript(t, t.TempDir(), "def main tap a end\ndef other tap b end")
	ctx := context.Background()

	report, err := app.RunScript(ctx, path, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Events)

	_, err = app.RunScript(ctx, path, "main")
	require.NoError(t, err)
	assert.Len(t, rec.Events(), 4, "each run starts from an empty timeline")

	_, err = app.RunScript(ctx, path, "missing")
	assert.ErrorIs(t, err, interpreter.ErrMethodNotFound)

	runs, err := app.History().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	statuses := map[string]int{}
	for _, r := range runs {
		statuses[r.Status]++
		assert.Equal(t, path, r.Script)
	}
	assert.Equal(t, map[string]int{"ok": 2, "failed": 1}, statuses)
}

func TestRunScriptInvalidFile(t *testing.T) {
	app := newTestApp(t, dispatch.NewRecorder(), Options{})
	report, err := app.RunScript(context.Background(), "macro.txt", "main")
	assert.ErrorIs(t, err, interpreter.ErrInvalidFile)
	assert.Equal(t, "failed", report.Status())

	runs, err := app.History().Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs, "load failures are not runs")
}

func TestRunScriptInterrupted(t *testing.T) {
	d := interruptingRecorder{Recorder: dispatch.NewRecorder(), ch: make(chan struct{})}
	app := newTestApp(t, d, Options{Clock: blockingClock{}})
	path := writeScript(t, t.TempDir(), "def main tap a 1s end")

	close(d.ch)
	report, err := app.RunScript(context.Background(), path, "main")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "cancelled", report.Status())
	assert.Empty(t, d.Events())
}

func TestConfigureAndValidation(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		LookupEnv:  noEnv,
		Dispatcher: dispatch.NewRecorder(),
	})
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "config", ierr.Component)
	assert.ErrorIs(t, err, os.ErrNotExist)

	app := newTestApp(t, dispatch.NewRecorder(), Options{
		Configure: func(c *config.Config) error {
			return c.Set("compiler.tap_hold", "75ms")
		},
	})
	assert.Equal(t, 75*time.Millisecond, app.Config().Compiler.TapHold.Std())

	path := writeScript(t, t.TempDir(), "def main tap a end")
	require.NoError(t, app.Interpreter().Load(path))
	entries, err := app.Interpreter().Schedule("main")
	require.NoError(t, err)
	assert.Equal(t, 75*time.Millisecond, entries[1].Gap)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o600))
	_, err = New(Options{
		ConfigPath: cfgPath,
		LookupEnv:  noEnv,
		Dispatcher: dispatch.NewRecorder(),
		Configure: func(c *config.Config) error {
			c.Logging.Level = "chatty"
			return nil
		},
	})
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestOpensConfiguredBackend(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dispatch:\n  backend: log\n"), 0o600))

	app, err := New(Options{ConfigPath: cfgPath, LookupEnv: noEnv, LogOutput: &syncBuffer{}})
	require.NoError(t, err)
	assert.Nil(t, app.History())
	assert.NoError(t, app.Shutdown())
	assert.NoError(t, app.Shutdown())
}

func TestWatchScriptReruns(t *testing.T) {
	rec := dispatch.NewRecorder()
	app := newTestApp(t, rec, Options{})
	app.Config().Watch.Debounce = config.Duration(20 * time.Millisecond)
	path := writeScript(t, t.TempDir(), "def main tap a end")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- app.WatchScript(ctx, path, "main") }()

	require.Eventually(t, func() bool { return len(rec.Events()) == 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("def main tap b end"), 0o600))
	require.Eventually(t, func() bool {
		events := rec.Events()
		return len(events) >= 4 && events[len(events)-1].Key == key.KeyB
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchScriptRejectsInvalidFile(t *testing.T) {
	app := newTestApp(t, dispatch.NewRecorder(), Options{})
	err := app.WatchScript(context.Background(), filepath.Join(t.TempDir(), "macro.txt"), "main")
	assert.ErrorIs(t, err, interpreter.ErrInvalidFile)
}

func TestErrorList(t *testing.T) {
	var errs ErrorList
	assert.NoError(t, errs.AsError())

	errs.Add(nil)
	errs.Add(os.ErrClosed)
	errs.Add(context.Canceled)
	assert.Equal(t, 2, errs.Len())
	assert.ErrorIs(t, errs.AsError(), context.Canceled)
	assert.Contains(t, errs.Error(), "2 errors")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func TestReplaySchedule(t *testing.T) {
	rec := dispatch.NewRecorder()
	app := newTestApp(t, rec, Options{})
	dir := t.TempDir()

	path := writeScript(t, dir, "def main tap a tap b end")
	require.NoError(t, app.Interpreter().Load(path))
	entries, err := app.Interpreter().Schedule("main")
	require.NoError(t, err)

	schedule := filepath.Join(dir, "main.yaml")
	f, err := os.Create(schedule)
	require.NoError(t, err)
	require.NoError(t, timeline.Export(f, "main", entries, timeline.FormatYAML))
	require.NoError(t, f.Close())

	n, err := app.ReplaySchedule(context.Background(), schedule)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var got []key.Key
	for _, ev := range rec.Events() {
		got = append(got, ev.Key)
	}
	assert.Equal(t, []key.Key{key.KeyA, key.KeyA, key.KeyB, key.KeyB}, got)

	_, err = app.ReplaySchedule(context.Background(), filepath.Join(dir, "main.txt"))
	assert.Error(t, err)
}
