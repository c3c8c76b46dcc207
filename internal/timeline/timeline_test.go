package timeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keybot/internal/dispatch"
	"github.com/dshills/keybot/internal/input/key"
)

const ms = time.Millisecond

// fakeClock advances virtual time instead of sleeping.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Duration
	onSleep func(d time.Duration)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
	if c.onSleep != nil {
		c.onSleep(d)
	}
	return ctx.Err()
}

func (c *fakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type stamped struct {
	at     time.Duration
	key    key.Key
	toggle key.Toggle
}

func stampingDispatcher(clock *fakeClock, out *[]stamped) dispatch.Dispatcher {
	return dispatch.Func(func(k key.Key, t key.Toggle) error {
		*out = append(*out, stamped{at: clock.Now(), key: k, toggle: t})
		return nil
	})
}

func TestExecuteDispatchesAtCumulativeOffsets(t *testing.T) {
	clock := &fakeClock{}
	tl := New(WithClock(clock))
	tl.Queue(30*ms, key.KeyA, key.Down)
	tl.Queue(20*ms, key.KeyA, key.Up)
	tl.Queue(0, key.KeyB, key.Down)

	var got []stamped
	require.NoError(t, tl.Execute(context.Background(), stampingDispatcher(clock, &got)))

	assert.Equal(t, []stamped{
		{30 * ms, key.KeyA, key.Down},
		{50 * ms, key.KeyA, key.Up},
		{50 * ms, key.KeyB, key.Down},
	}, got)

	// The queue survives a drain.
	assert.Equal(t, 3, tl.Len())
	assert.Equal(t, 50*ms, tl.Total())
}

func TestQueueAndClear(t *testing.T) {
	tl := New()
	assert.Equal(t, 0, tl.Len())

	tl.Queue(5*ms, key.KeyX, key.Down)
	entries := tl.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Gap: 5 * ms, Key: key.KeyX, Toggle: key.Down}, entries[0])

	// Entries returns a copy.
	entries[0].Key = key.KeyY
	assert.Equal(t, key.KeyX, tl.Entries()[0].Key)

	tl.Clear()
	assert.Equal(t, 0, tl.Len())
	assert.Equal(t, time.Duration(0), tl.Total())
}

func TestExecuteStopsOnDispatchError(t *testing.T) {
	tl := New(WithClock(&fakeClock{}))
	tl.Queue(0, key.KeyA, key.Down)
	tl.Queue(0, key.KeyB, key.Down)
	tl.Queue(0, key.KeyC, key.Down)

	boom := errors.New("boom")
	var fired []key.Key
	err := tl.Execute(context.Background(), dispatch.Func(func(k key.Key, _ key.Toggle) error {
		if k == key.KeyB {
			return boom
		}
		fired = append(fired, k)
		return nil
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDispatch)
	assert.ErrorIs(t, err, boom)

	var derr *DispatchError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 1, derr.Index)
	assert.Equal(t, []key.Key{key.KeyA}, fired)
}

func TestExecuteCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{}
	tl := New(WithClock(clock))
	tl.Queue(10*ms, key.KeyA, key.Down)
	tl.Queue(10*ms, key.KeyA, key.Up)
	tl.Queue(10*ms, key.KeyB, key.Down)

	var got []stamped
	d := stampingDispatcher(clock, &got)
	cancelAfterFirst := dispatch.Func(func(k key.Key, tg key.Toggle) error {
		if err := d.Dispatch(k, tg); err != nil {
			return err
		}
		cancel()
		return nil
	})

	err := tl.Execute(ctx, cancelAfterFirst)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, got, 1)
	assert.False(t, tl.IsExecuting())
}

func TestExecuteRealClockCancelsMidGap(t *testing.T) {
	tl := New()
	tl.Queue(time.Hour, key.KeyA, key.Down)

	ctx, cancel := context.WithTimeout(context.Background(), 20*ms)
	defer cancel()

	start := time.Now()
	err := tl.Execute(ctx, dispatch.Func(func(key.Key, key.Toggle) error {
		t.Fatal("dispatched despite cancellation")
		return nil
	}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestExecuteBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	clock := &fakeClock{}
	tl := New(WithClock(clock))
	tl.Queue(0, key.KeyA, key.Down)

	done := make(chan error, 1)
	go func() {
		done <- tl.Execute(context.Background(), dispatch.Func(func(key.Key, key.Toggle) error {
			close(started)
			<-release
			return nil
		}))
	}()

	<-started
	assert.True(t, tl.IsExecuting())
	assert.ErrorIs(t, tl.Execute(context.Background(), dispatch.Func(func(key.Key, key.Toggle) error { return nil })), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, tl.IsExecuting())
}

func TestExecuteNilDispatcher(t *testing.T) {
	assert.Error(t, New().Execute(context.Background(), nil))
}

func TestExecuteEmpty(t *testing.T) {
	assert.NoError(t, New().Execute(context.Background(), dispatch.Func(func(key.Key, key.Toggle) error {
		t.Fatal("unexpected dispatch")
		return nil
	})))
}
