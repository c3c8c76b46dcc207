// Package history records executed runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/keybot/internal/interpreter"
)

// Run is one recorded execution.
type Run struct {
	ID        string
	Script    string
	Method    string
	Backend   string
	Events    int
	Scheduled time.Duration
	Started   time.Time
	Finished  time.Time
	Status    string
	Error     string
}

// Elapsed returns the wall-clock duration of the run.
func (r Run) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// FromReport converts an interpreter report.
func FromReport(rep interpreter.Report, backend string) Run {
	run := Run{
		ID:        rep.ID.String(),
		Script:    rep.Source,
		Method:    rep.Method,
		Backend:   backend,
		Events:    rep.Events,
		Scheduled: rep.Scheduled,
		Started:   rep.Started,
		Finished:  rep.Finished,
		Status:    rep.Status(),
	}
	if rep.Err != nil {
		run.Error = rep.Err.Error()
	}
	return run
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run.
func (s *Store) Record(ctx context.Context, r Run) error {
	var errText *string
	if r.Error != "" {
		errText = &r.Error
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, script, method, backend, events, scheduled_ns, started_ns, finished_ns, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.Script,
		r.Method,
		r.Backend,
		r.Events,
		int64(r.Scheduled),
		r.Started.UnixNano(),
		r.Finished.UnixNano(),
		r.Status,
		errText,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, script, method, backend, events, scheduled_ns, started_ns, finished_ns, status, error
		FROM runs
		ORDER BY started_ns DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                            Run
			scheduled, started, finished int64
			errText                      sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Script, &r.Method, &r.Backend, &r.Events, &scheduled, &started, &finished, &r.Status, &errText); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Scheduled = time.Duration(scheduled)
		r.Started = time.Unix(0, started)
		r.Finished = time.Unix(0, finished)
		r.Error = errText.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of recorded runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}
