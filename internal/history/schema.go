package history

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

func createSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case version != SchemaVersion:
		return fmt.Errorf("unsupported history schema version %d (want %d)", version, SchemaVersion)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			script       TEXT NOT NULL,
			method       TEXT NOT NULL,
			backend      TEXT NOT NULL,
			events       INTEGER NOT NULL,
			scheduled_ns INTEGER NOT NULL,
			started_ns   INTEGER NOT NULL,
			finished_ns  INTEGER NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT
		)
	`); err != nil {
		return fmt.Errorf("creating runs table: %w", err)
	}

	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_ns)"); err != nil {
		return fmt.Errorf("creating runs index: %w", err)
	}
	return nil
}
