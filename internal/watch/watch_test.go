package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceCoalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan Event)
	out := Debounce(ctx, in, 30*time.Millisecond)

	in <- Event{Path: "a", Op: fsnotify.Create}
	in <- Event{Path: "a", Op: fsnotify.Write}
	in <- Event{Path: "a", Op: fsnotify.Write}

	select {
	case ev := <-out:
		assert.Equal(t, "a", ev.Path)
		assert.True(t, ev.Op.Has(fsnotify.Create))
		assert.True(t, ev.Op.Has(fsnotify.Write))
	case <-time.After(2 * time.Second):
		t.Fatal("no debounced event")
	}

	select {
	case ev := <-out:
		t.Fatalf("unexpected second event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebounceClosesWithInput(t *testing.T) {
	in := make(chan Event)
	out := Debounce(context.Background(), in, time.Millisecond)
	close(in)

	_, ok := <-out
	assert.False(t, ok)
}

func TestWatcherReportsTargetOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "macro.bot.lisp")
	other := filepath.Join(dir, "other.bot.lisp")
	require.NoError(t, os.WriteFile(target, []byte("def main end"), 0o600))

	w, err := New(target)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("def main tap a end"), 0o600))

	select {
	case ev := <-w.Events():
		assert.Equal(t, w.Path(), ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for target")
	}
}

func TestRunCallsHandler(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "macro.bot.lisp")
	require.NoError(t, os.WriteFile(target, []byte(""), 0o600))

	w, err := New(target)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, 20*time.Millisecond, func(context.Context, Event) error {
			calls.Add(1)
			return errors.New("handler errors are logged")
		})
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("def main end"), 0o600))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunAfterClose(t *testing.T) {
	target := filepath.Join(t.TempDir(), "macro.bot.lisp")
	w, err := New(target)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	err = w.Run(context.Background(), time.Millisecond, func(context.Context, Event) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "macro.bot.lisp"))
	assert.Error(t, err)
}
