package store

import (
	"context"
	"fmt"
	"strings"

	"vaspio/internal/log"
)

// Migration is one schema change, applied once in ID order
type Migration struct {
	ID          int
	Description string
	SQL         string
}

var migrations = []Migration{
	{
		ID:          1,
		Description: "Runs and iteration values",
		SQL: `
CREATE TABLE runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	source TEXT NOT NULL,
	steps INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE TABLE iterations (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	step INTEGER NOT NULL,
	field TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (run_id, seq, field)
);`,
	},
	{
		ID:          2,
		Description: "Force tables",
		SQL: `
CREATE TABLE force_blocks (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	step INTEGER NOT NULL,
	atoms INTEGER NOT NULL,
	max_atom INTEGER,
	max_force REAL,
	PRIMARY KEY (run_id, step)
);
CREATE TABLE force_atoms (
	run_id INTEGER NOT NULL,
	step INTEGER NOT NULL,
	atom INTEGER NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	z REAL NOT NULL,
	fx REAL NOT NULL,
	fy REAL NOT NULL,
	fz REAL NOT NULL,
	PRIMARY KEY (run_id, step, atom),
	FOREIGN KEY (run_id, step) REFERENCES force_blocks(run_id, step) ON DELETE CASCADE
);`,
	},
	{
		ID:          3,
		Description: "Index iteration lookups by field",
		SQL:         `CREATE INDEX idx_iterations_field ON iterations(run_id, field, seq);`,
	},
}

// runMigrations applies every migration newer than the recorded version
func (s *Store) runMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.ID <= current {
			continue
		}
		log.Debug("applying migration", "id", m.ID, "description", m.Description)
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.ID, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version;`).Scan(&version)
	return version, err
}

func (s *Store) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(m.SQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration statement: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?);`, m.ID); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}
