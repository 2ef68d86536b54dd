package oszicar

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopN(t *testing.T) {
	p, err := loadFile(t, filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		field    string
		n        int
		reverse  bool
		expected []Ranked
	}{
		{
			name:  "lowest energies",
			field: "E0",
			n:     2,
			expected: []Ranked{
				{Value: -35.3795, Step: 4},
				{Value: -35.379436, Step: 3},
			},
		},
		{
			name:    "highest energies stay ascending",
			field:   "E0",
			n:       2,
			reverse: true,
			expected: []Ranked{
				{Value: -35.379427, Step: 2},
				{Value: -35.379402, Step: 1},
			},
		},
		{
			name:  "ties keep step order",
			field: "mag",
			n:     3,
			expected: []Ranked{
				{Value: 1.999, Step: 4},
				{Value: 2, Step: 1},
				{Value: 2, Step: 2},
			},
		},
		{
			name:    "ties keep step order from the top",
			field:   "mag",
			n:       3,
			reverse: true,
			expected: []Ranked{
				{Value: 2, Step: 1},
				{Value: 2, Step: 2},
				{Value: 2, Step: 3},
			},
		},
		{
			name:  "n larger than series",
			field: "step",
			n:     10,
			expected: []Ranked{
				{Value: 1, Step: 1},
				{Value: 2, Step: 2},
				{Value: 3, Step: 3},
				{Value: 4, Step: 4},
			},
		},
		{
			name:     "zero",
			field:    "F",
			n:        0,
			reverse:  true,
			expected: []Ranked{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := p.TopN(tt.field, tt.n, tt.reverse)
			require.NoError(t, err)
			require.Len(t, ranked, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i].Value, ranked[i].Value, 1e-9)
				assert.Equal(t, tt.expected[i].Step, ranked[i].Step)
			}
		})
	}
}

func TestTopNSortedAscending(t *testing.T) {
	p, err := loadFile(t, filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	for _, reverse := range []bool{false, true} {
		ranked, err := p.TopN("F", 3, reverse)
		require.NoError(t, err)
		require.Len(t, ranked, 3)
		for i := 1; i < len(ranked); i++ {
			assert.LessOrEqual(t, ranked[i-1].Value, ranked[i].Value)
		}
	}

	largest, err := p.TopN("F", 1, true)
	require.NoError(t, err)
	assert.InDelta(t, -35.3812, largest[0].Value, 1e-9)
	assert.Equal(t, 4, largest[0].Step)
}

func TestTopNErrors(t *testing.T) {
	p, err := loadFile(t, filepath.Join("testdata", "OSZICAR"))
	require.NoError(t, err)

	_, err = p.TopN("E1", 3, false)
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.Contains(t, err.Error(), `"E1"`)

	_, err = p.TopN("E0", -1, false)
	assert.ErrorIs(t, err, ErrInvalidCount)
}
