package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"vaspio/internal/log"
	"vaspio/internal/oszicar"
	"vaspio/internal/outcar"
)

// atomBatch keeps a multi-row insert well below SQLite's bound parameter limit
const atomBatch = 500

// SaveIterations stores every field of a loaded iteration log as a new run
func (s *Store) SaveIterations(ctx context.Context, p *oszicar.Parser) (Run, error) {
	schema := p.Schema()
	columns := make(map[string][]float64, len(schema))
	for _, name := range schema {
		if name == oszicar.StepField {
			continue
		}
		values, err := p.Field(name)
		if err != nil {
			return Run{}, err
		}
		columns[name] = values
	}
	steps := p.Steps()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	run, err := s.insertRun(ctx, tx, KindOszicar, p.Filename(), len(steps))
	if err != nil {
		return Run{}, err
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return Run{}, err
		}
		insert := s.psql.Insert("iterations").Columns("run_id", "seq", "step", "field", "value")
		for _, name := range schema {
			if name == oszicar.StepField {
				continue
			}
			insert = insert.Values(run.ID, i, step, name, columns[name][i])
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return Run{}, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return Run{}, fmt.Errorf("failed to insert step %d: %w", step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}
	log.Info("exported iteration log", "file", p.Filename(), "run", run.ID, "steps", len(steps))
	return run, nil
}

// SaveForces streams every force table of a report into a new run. Tables
// without atoms are kept with a NULL maximum.
func (s *Store) SaveForces(ctx context.Context, e *outcar.Extractor) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	run, err := s.insertRun(ctx, tx, KindOutcar, e.Filename(), 0)
	if err != nil {
		return Run{}, err
	}

	blocks := 0
	for block, err := range e.All(ctx) {
		if err != nil {
			return Run{}, err
		}
		if err := s.insertBlock(ctx, tx, run.ID, block); err != nil {
			return Run{}, err
		}
		blocks++
	}

	query, args, err := s.psql.Update("runs").
		Set("steps", blocks).
		Where(squirrel.Eq{"id": run.ID}).
		ToSql()
	if err != nil {
		return Run{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Run{}, fmt.Errorf("failed to update run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}

	run.Steps = blocks
	log.Info("exported force tables", "file", e.Filename(), "run", run.ID, "blocks", blocks)
	return run, nil
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, kind, source string, steps int) (Run, error) {
	now := time.Now()
	query, args, err := s.psql.Insert("runs").
		Columns("kind", "source", "steps", "created_at").
		Values(kind, source, steps, now.Unix()).
		ToSql()
	if err != nil {
		return Run{}, err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Run{}, err
	}
	return Run{ID: id, Kind: kind, Source: source, Steps: steps, CreatedAt: time.Unix(now.Unix(), 0)}, nil
}

func (s *Store) insertBlock(ctx context.Context, tx *sql.Tx, runID int64, block outcar.StepBlock) error {
	var maxAtom, maxForce any
	if sel, err := outcar.SelectMax(block.Forces); err == nil {
		maxAtom, maxForce = sel.Index, sel.Force.Norm()
	}

	query, args, err := s.psql.Insert("force_blocks").
		Columns("run_id", "step", "atoms", "max_atom", "max_force").
		Values(runID, block.Step, len(block.Forces), maxAtom, maxForce).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert block %d: %w", block.Step, err)
	}

	for start := 0; start < len(block.Forces); start += atomBatch {
		end := min(start+atomBatch, len(block.Forces))
		insert := s.psql.Insert("force_atoms").
			Columns("run_id", "step", "atom", "x", "y", "z", "fx", "fy", "fz")
		for i := start; i < end; i++ {
			c, f := block.Coordinates[i], block.Forces[i]
			insert = insert.Values(runID, block.Step, i, c[0], c[1], c[2], f[0], f[1], f[2])
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert atoms of block %d: %w", block.Step, err)
		}
	}
	return nil
}
