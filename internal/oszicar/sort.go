package oszicar

import (
	"cmp"
	"fmt"
	"slices"
)

// Ranked pairs a field value with the step it was recorded at
type Ranked struct {
	Value float64
	Step  int
}

// TopN sorts (value, step) pairs of field by value, ascending and stable,
// and returns the first n. With reverse it returns the last n instead,
// i.e. the n largest values, still in ascending order. n larger than the
// series returns every pair.
func (p *Parser) TopN(field string, n int, reverse bool) ([]Ranked, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	values, err := p.Field(field)
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, len(values))
	for i, v := range values {
		ranked[i] = Ranked{Value: v, Step: p.steps[i]}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(a.Value, b.Value)
	})

	n = min(n, len(ranked))
	if reverse {
		return ranked[len(ranked)-n:], nil
	}
	return ranked[:n], nil
}
