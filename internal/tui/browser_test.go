package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaspio/internal/oszicar"
	"vaspio/internal/plot"
	"vaspio/internal/source"
)

func loadFixture(t *testing.T, outputDir string) *oszicar.Parser {
	t.Helper()
	file, err := source.New(filepath.Join("..", "oszicar", "testdata", "OSZICAR"), "")
	require.NoError(t, err)

	opts := plot.DefaultOptions()
	opts.Width, opts.Height = 200, 150
	opts.OutputDir = outputDir
	p, err := oszicar.Open(context.Background(), file, plot.NewPlotter(opts))
	require.NoError(t, err)
	return p
}

func cellText(table *tview.Table, row, col int) string {
	return table.GetCell(row, col).Text
}

func TestBuildRanking(t *testing.T) {
	p := loadFixture(t, t.TempDir())

	tests := []struct {
		name    string
		n       int
		reverse bool
		steps   []string
		first   string
	}{
		{"smallest", 2, false, []string{"3", "2"}, "-35.381255"},
		{"largest", 2, true, []string{"4", "1"}, "-35.3812"},
		{"all", 0, false, []string{"3", "2", "1", "4"}, "-35.381255"},
		{"more than available", 10, true, []string{"4", "1", "2", "3"}, "-35.3812"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranking, err := BuildRanking(p, "F", tt.n, tt.reverse)
			require.NoError(t, err)
			assert.Equal(t, []string{"Rank", "Step", "F"}, ranking.Header)
			require.Len(t, ranking.Rows, len(tt.steps))

			for i, row := range ranking.Rows {
				assert.Equal(t, tt.steps[i], row[1])
				assert.Equal(t, []string{"1", "2", "3", "4"}[i], row[0])
			}
			assert.Equal(t, tt.first, ranking.Rows[0][2])
		})
	}
}

func TestBuildRankingUnknownField(t *testing.T) {
	_, err := BuildRanking(loadFixture(t, t.TempDir()), "nope", 3, false)
	assert.ErrorIs(t, err, oszicar.ErrFieldNotFound)
}

func TestFieldsAndSummary(t *testing.T) {
	p := loadFixture(t, t.TempDir())
	assert.Equal(t, []string{"F", "E0", "dE", "mag"}, Fields(p))
	assert.Contains(t, Summary(p), "4 steps, fields F E0 dE mag")
}

func TestBrowserInitialState(t *testing.T) {
	b := NewBrowser(loadFixture(t, t.TempDir()), 2)

	assert.Equal(t, "F", b.field)
	assert.Equal(t, 4, b.fields.GetItemCount())
	assert.Equal(t, 3, b.table.GetRowCount())
	assert.Equal(t, "Step", cellText(b.table, 0, 1))
	assert.Equal(t, "3", cellText(b.table, 1, 1))
	assert.Contains(t, b.status.GetText(true), "4 steps")
}

func TestBrowserKeys(t *testing.T) {
	dir := t.TempDir()
	b := NewBrowser(loadFixture(t, dir), 2)

	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	assert.True(t, b.reverse)
	assert.Equal(t, "4", cellText(b.table, 1, 1))
	assert.Contains(t, b.table.GetTitle(), "largest first")

	b.fields.SetCurrentItem(1)
	assert.Equal(t, "E0", b.field)
	assert.Equal(t, "E0", cellText(b.table, 0, 2))

	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	assert.FileExists(t, filepath.Join(dir, "E0_vs_step.png"))
	assert.Contains(t, b.status.GetText(true), "E0_vs_step.png")

	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.Equal(t, b.table, b.app.GetFocus())

	key := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, key, b.handleKey(key))
	assert.Nil(t, b.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestBrowserPlotError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// output dir below a regular file cannot be created
	b := NewBrowser(loadFixture(t, filepath.Join(blocker, "plots")), 0)
	b.savePlot()
	assert.NotContains(t, b.status.GetText(true), "saved")
}
