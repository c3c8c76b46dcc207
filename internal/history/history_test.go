package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keybot/internal/interpreter"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:        id,
		Script:    "jump.bot.lisp",
		Method:    "main",
		Backend:   "log",
		Events:    4,
		Scheduled: 350 * time.Millisecond,
		Started:   started,
		Finished:  started.Add(360 * time.Millisecond),
		Status:    "ok",
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)

	first := sampleRun("a", base)
	second := sampleRun("b", base.Add(time.Minute))
	second.Status = "failed"
	second.Error = "execute main: boom"

	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	runs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "execute main: boom", runs[0].Error)
	assert.True(t, second.Started.Equal(runs[0].Started))
	assert.Equal(t, 360*time.Millisecond, runs[0].Elapsed())

	assert.Equal(t, "a", runs[1].ID)
	assert.Empty(t, runs[1].Error)
	assert.Equal(t, 350*time.Millisecond, runs[1].Scheduled)

	runs, err = s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b", runs[0].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecordDuplicateID(t *testing.T) {
	s := openMemory(t)
	run := sampleRun("dup", time.Now())
	require.NoError(t, s.Record(context.Background(), run))
	assert.Error(t, s.Record(context.Background(), run))
}

func TestReopenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, sampleRun("persisted", time.Now())))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "persisted", runs[0].ID)
}

func TestFromReport(t *testing.T) {
	id := uuid.New()
	start := time.Now()
	rep := interpreter.Report{
		ID:        id,
		Source:    "x.bot.lisp",
		Method:    "main",
		Events:    2,
		Scheduled: 30 * time.Millisecond,
		Started:   start,
		Finished:  start.Add(time.Second),
		Err:       errors.New("boom"),
	}

	run := FromReport(rep, "uinput")
	assert.Equal(t, id.String(), run.ID)
	assert.Equal(t, "x.bot.lisp", run.Script)
	assert.Equal(t, "uinput", run.Backend)
	assert.Equal(t, "failed", run.Status)
	assert.Equal(t, "boom", run.Error)
	assert.Equal(t, time.Second, run.Elapsed())
}
