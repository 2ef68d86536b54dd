package oszicar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaspio/internal/plot"
	"vaspio/internal/source"
)

func loadString(t *testing.T, content string) (*Parser, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "OSZICAR")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return loadFile(t, path)
}

func loadFile(t *testing.T, path string) (*Parser, error) {
	t.Helper()
	file, err := source.New(path, "")
	require.NoError(t, err)
	p := New(file)
	return p, p.Load(context.Background())
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		step     int
		expected []Field
	}{
		{
			name:     "two fields",
			line:     "3 E0= -1.23 E1=4.0e-02",
			step:     3,
			expected: []Field{{"E0", -1.23}, {"E1", 0.04}},
		},
		{
			name: "ionic step line",
			line: "   1 F= -.35381220E+02 E0= -.35379402E+02  d E =-.353812E+02  mag=     2.0000\n",
			step: 1,
			expected: []Field{
				{"F", -35.38122},
				{"E0", -35.379402},
				{"dE", -35.3812},
				{"mag", 2},
			},
		},
		{
			name:     "multi digit step",
			line:     "12 F=1.0",
			step:     12,
			expected: []Field{{"F", 1}},
		},
		{
			name:     "integer value and CRLF",
			line:     "  7 E0=5\r\n",
			step:     7,
			expected: []Field{{"E0", 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := ParseLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.step, record.Step)
			require.Len(t, record.Fields, len(tt.expected))
			for i, f := range tt.expected {
				assert.Equal(t, f.Name, record.Fields[i].Name)
				assert.InDelta(t, f.Value, record.Fields[i].Value, 1e-12)
			}
		})
	}
}

func TestParseLineNoMatch(t *testing.T) {
	lines := []string{
		"",
		"\n",
		"       N       E                     dE             d eps       ncg     rms          rms(c)",
		"DAV:   1     0.427488913810E+03    0.42749E+03   -0.16040E+04  1104   0.179E+03",
		"   1",
		"   1 F=",
		" 1 x=. ",
		"step F=1.0",
	}

	for _, line := range lines {
		_, ok := ParseLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestRecordNamesAndValue(t *testing.T) {
	record, ok := ParseLine("3 E0= -1.23 E1=4.0e-02")
	require.True(t, ok)

	assert.Equal(t, []string{"step", "E0", "E1"}, record.Names())

	v, ok := record.Value("step")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = record.Value("E1")
	assert.True(t, ok)
	assert.InDelta(t, 0.04, v, 1e-12)

	_, ok = record.Value("mag")
	assert.False(t, ok)
}

func TestLoadFixture(t *testing.T) {
	p, err := loadFile(t, filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	assert.Equal(t, []string{"step", "F", "E0", "dE", "mag"}, p.Schema())
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, []int{1, 2, 3, 4}, p.Steps())

	e0, err := p.Field("E0")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-35.379402, -35.379427, -35.379436, -35.3795}, e0, 1e-9)

	steps, err := p.Field("step")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, steps)

	for _, name := range p.Schema() {
		values, err := p.Field(name)
		require.NoError(t, err)
		assert.Len(t, values, p.Len(), name)
	}
}

func TestLoadContentIsMatchedLines(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	p, err := loadFile(t, filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	var expected strings.Builder
	for _, line := range strings.SplitAfter(string(raw), "\n") {
		if _, ok := ParseLine(line); ok {
			expected.WriteString(line)
		}
	}
	assert.Equal(t, expected.String(), p.Content())
	assert.True(t, strings.HasPrefix(p.Content(), "   1 F= -.35381220E+02"))
	assert.Equal(t, 4, strings.Count(p.Content(), "\n"))
}

func TestLoadNoMatches(t *testing.T) {
	p, err := loadString(t, "no data here\n\n   N   E\n")
	require.NoError(t, err)

	assert.Empty(t, p.Schema())
	assert.Zero(t, p.Len())
	assert.Empty(t, p.Steps())
	assert.Empty(t, p.Content())

	steps, err := p.Field("step")
	require.NoError(t, err)
	assert.Empty(t, steps)

	_, err = p.Field("E0")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestLoadEmptyFile(t *testing.T) {
	p, err := loadString(t, "")
	require.NoError(t, err)
	assert.Empty(t, p.Schema())
	assert.Zero(t, p.Len())
}

func TestLoadLastLineWithoutNewline(t *testing.T) {
	p, err := loadString(t, "1 E0=-1.0\n2 E0=-2.0")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, p.Steps())
	assert.Equal(t, "1 E0=-1.0\n2 E0=-2.0", p.Content())
}

func TestLoadSchemaMismatch(t *testing.T) {
	p, err := loadString(t, "1 E0=-1.0 F=-2.0\n\n2 E0=-1.5\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Line)
	assert.Equal(t, []string{"step", "E0", "F"}, mismatch.Want)
	assert.Equal(t, []string{"step", "E0"}, mismatch.Got)
	assert.Contains(t, err.Error(), "OSZICAR:3")

	// Nothing from the failed load is visible
	assert.Empty(t, p.Schema())
	assert.Zero(t, p.Len())
}

func TestLoadSchemaOrderMatters(t *testing.T) {
	_, err := loadString(t, "1 E0=-1.0 F=-2.0\n2 F=-2.0 E0=-1.0\n")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoadDuplicateField(t *testing.T) {
	_, err := loadString(t, "1 step=2.0\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `duplicate field "step"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := loadFile(t, filepath.Join(t.TempDir(), "OSZICAR"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCancelled(t *testing.T) {
	file, err := source.New(filepath.Join("testdata", "OSZICAR"), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Open(ctx, file, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFieldReturnsCopy(t *testing.T) {
	p, err := loadFile(t, filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	values, err := p.Field("F")
	require.NoError(t, err)
	values[0] = 0

	again, err := p.Field("F")
	require.NoError(t, err)
	assert.InDelta(t, -35.38122, again[0], 1e-9)
}

func TestPlotSeriesSave(t *testing.T) {
	file, err := source.New(filepath.Join("testdata", "OSZICAR"), "")
	require.NoError(t, err)

	opts := plot.DefaultOptions()
	opts.OutputDir = t.TempDir()
	p, err := Open(context.Background(), file, plot.NewPlotter(opts))
	require.NoError(t, err)

	fig, err := p.PlotSeries("E0", plot.ModeSave)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutputDir, "E0_vs_step.png"), fig.Path)
	assert.Equal(t, "step", fig.XLabel)
	assert.Equal(t, "E0", fig.YLabel)
	assert.FileExists(t, fig.Path)

	_, err = p.PlotSeries("ghost", plot.ModeSave)
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = p.PlotSeries("E0", plot.Mode(7))
	assert.ErrorIs(t, err, plot.ErrInvalidMode)
}
