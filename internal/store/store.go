// Package store persists parsed iteration logs and force tables to SQLite
// so several runs can be compared with plain SQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"vaspio/internal/log"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Run kinds
const (
	KindOszicar = "oszicar"
	KindOutcar  = "outcar"
)

// ErrRunNotFound is returned when a run id does not exist
var ErrRunNotFound = errors.New("run not found")

// Run is one exported file
type Run struct {
	ID        int64
	Kind      string
	Source    string
	Steps     int
	CreatedAt time.Time
}

// Store is an open export database
type Store struct {
	db   *sql.DB
	path string
	psql squirrel.StatementBuilderType
}

// Open opens or creates the database at path and applies pending migrations
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps an in-memory database alive and serialises writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Debug("opened store", "path", path)
	return s, nil
}

// Path returns the database path given to Open
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Runs lists every exported run, oldest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	query, args, err := s.psql.
		Select("id", "kind", "source", "steps", "created_at").
		From("runs").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Kind, &r.Source, &r.Steps, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(created, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns a single run by id
func (s *Store) Run(ctx context.Context, id int64) (Run, error) {
	query, args, err := s.psql.
		Select("id", "kind", "source", "steps", "created_at").
		From("runs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Run{}, err
	}

	var (
		r       Run
		created int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.Kind, &r.Source, &r.Steps, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(created, 0)
	return r, nil
}

// Series returns the stored values of field for an iteration run, ordered
// by step
func (s *Store) Series(ctx context.Context, runID int64, field string) ([]float64, error) {
	query, args, err := s.psql.
		Select("value").
		From("iterations").
		Where(squirrel.Eq{"run_id": runID, "field": field}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load series %q: %w", field, err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// MaxForces returns the stored per-step maximum force magnitudes of a
// force run, ordered by step
func (s *Store) MaxForces(ctx context.Context, runID int64) ([]float64, error) {
	query, args, err := s.psql.
		Select("max_force").
		From("force_blocks").
		Where(squirrel.And{squirrel.Eq{"run_id": runID}, squirrel.NotEq{"max_atom": nil}}).
		OrderBy("step").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load max forces: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Count returns the number of rows in table that belong to runID
func (s *Store) Count(ctx context.Context, table string, runID int64) (int, error) {
	switch table {
	case "iterations", "force_blocks", "force_atoms":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}

	query, args, err := s.psql.
		Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
