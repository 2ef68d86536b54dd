package store

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaspio/internal/oszicar"
	"vaspio/internal/outcar"
	"vaspio/internal/source"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func loadOszicar(t *testing.T, path string) *oszicar.Parser {
	t.Helper()
	file, err := source.New(path, "")
	require.NoError(t, err)
	p, err := oszicar.Open(context.Background(), file, nil)
	require.NoError(t, err)
	return p
}

func outcarExtractor(t *testing.T, path string) *outcar.Extractor {
	t.Helper()
	file, err := source.New(path, "")
	require.NoError(t, err)
	return outcar.New(file)
}

func TestMigrations(t *testing.T) {
	s := openMemory(t)
	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestReopenKeepsSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.SaveIterations(ctx, loadOszicar(t, filepath.Join("..", "oszicar", "testdata", "OSZICAR")))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, path, s.Path())
}

func TestSaveIterations(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	p := loadOszicar(t, filepath.Join("..", "oszicar", "testdata", "OSZICAR"))

	run, err := s.SaveIterations(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, KindOszicar, run.Kind)
	assert.Equal(t, p.Len(), run.Steps)

	n, err := s.Count(ctx, "iterations", run.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Len()*(len(p.Schema())-1), n)

	want, err := p.Field("E0")
	require.NoError(t, err)
	got, err := s.Series(ctx, run.ID, "E0")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	stored, err := s.Run(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, stored)
}

func TestSaveEmptyIterationLog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "OSZICAR")
	require.NoError(t, os.WriteFile(path, []byte("no ionic steps here\n"), 0644))

	s := openMemory(t)
	run, err := s.SaveIterations(ctx, loadOszicar(t, path))
	require.NoError(t, err)
	assert.Zero(t, run.Steps)

	n, err := s.Count(ctx, "iterations", run.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveForces(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	run, err := s.SaveForces(ctx, outcarExtractor(t, filepath.Join("..", "outcar", "testdata", "OUTCAR")))
	require.NoError(t, err)
	assert.Equal(t, KindOutcar, run.Kind)
	assert.Equal(t, 2, run.Steps)

	blocks, err := s.Count(ctx, "force_blocks", run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, blocks)

	atoms, err := s.Count(ctx, "force_atoms", run.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, atoms)

	forces, err := s.MaxForces(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, forces, 2)
	assert.InDelta(t, math.Sqrt(0.38), forces[0], 1e-12)
	assert.InDelta(t, 0.15, forces[1], 1e-12)

	stored, err := s.Run(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Steps)
}

func TestSaveForcesMalformedRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "OUTCAR")
	content := " POSITION  TOTAL-FORCE (eV/Angst)\n" +
		" ----------\n" +
		" 0 0 0 1 1\n" +
		" ----------\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s := openMemory(t)
	_, err := s.SaveForces(ctx, outcarExtractor(t, path))
	assert.ErrorIs(t, err, outcar.ErrMalformedLine)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunNotFound(t *testing.T) {
	_, err := openMemory(t).Run(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestCountUnknownTable(t *testing.T) {
	_, err := openMemory(t).Count(context.Background(), "runs; DROP TABLE runs", 1)
	assert.Error(t, err)
}

func TestRunsInOrder(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	first, err := s.SaveIterations(ctx, loadOszicar(t, filepath.Join("..", "oszicar", "testdata", "OSZICAR")))
	require.NoError(t, err)
	second, err := s.SaveForces(ctx, outcarExtractor(t, filepath.Join("..", "outcar", "testdata", "OUTCAR")))
	require.NoError(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, second.ID, runs[1].ID)
	assert.Equal(t, KindOutcar, runs[1].Kind)
}
