package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"vaspio/internal/oszicar"
)

// RankingTable is the text content of the ranking table for one field
type RankingTable struct {
	Field   string
	Reverse bool
	Header  []string
	Rows    [][]string
}

// BuildRanking ranks field with TopN. Rank 1 is the smallest value, or the
// largest when reverse is set. n of 0 ranks every step.
func BuildRanking(p *oszicar.Parser, field string, n int, reverse bool) (RankingTable, error) {
	if n == 0 {
		n = p.Len()
	}
	ranked, err := p.TopN(field, n, reverse)
	if err != nil {
		return RankingTable{}, err
	}

	table := RankingTable{
		Field:   field,
		Reverse: reverse,
		Header:  []string{"Rank", "Step", field},
		Rows:    make([][]string, 0, len(ranked)),
	}
	for i := range ranked {
		r := ranked[i]
		if reverse {
			r = ranked[len(ranked)-1-i]
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Step),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		})
	}
	return table, nil
}

// Fields returns the schema without the step column
func Fields(p *oszicar.Parser) []string {
	var fields []string
	for _, name := range p.Schema() {
		if name != oszicar.StepField {
			fields = append(fields, name)
		}
	}
	return fields
}

// Summary is the one-line description shown in the status bar
func Summary(p *oszicar.Parser) string {
	return fmt.Sprintf("%s: %s steps, fields %s",
		p.Filename(), humanize.Comma(int64(p.Len())), strings.Join(Fields(p), " "))
}
