// Package oszicar reads iteration logs in the OSZICAR format, where every
// ionic step is one line of name=value pairs, and exposes each discovered
// field as a numeric series indexed by step.
package oszicar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"vaspio/internal/log"
	"vaspio/internal/plot"
	"vaspio/internal/source"
)

// Parser holds the series loaded from one iteration log. The schema is
// taken from the first matched line.
type Parser struct {
	file    source.Opener
	plotter *plot.Plotter

	schema  []string
	series  map[string][]float64
	steps   []int
	content string
}

// New creates a parser for file. Nothing is read until Load.
func New(file source.Opener) *Parser {
	return NewWithPlotter(file, nil)
}

// NewWithPlotter creates a parser whose PlotSeries uses plotter
func NewWithPlotter(file source.Opener, plotter *plot.Plotter) *Parser {
	return &Parser{
		file:    file,
		plotter: plotter,
		series:  make(map[string][]float64),
	}
}

// Open creates a parser for file and loads it
func Open(ctx context.Context, file source.Opener, plotter *plot.Plotter) (*Parser, error) {
	p := NewWithPlotter(file, plotter)
	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Filename returns the name of the backing file
func (p *Parser) Filename() string {
	return p.file.Filename()
}

// Load reads the whole file, keeping every line ParseLine accepts. The
// first accepted line fixes the schema; a later line with different field
// names fails with a SchemaMismatchError. On error the previously loaded
// data is kept.
func (p *Parser) Load(ctx context.Context) error {
	rc, err := p.file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	var (
		schema  []string
		steps   []int
		content strings.Builder
		lineNo  int
	)
	growing := make(map[string][]float64)

	reader := bufio.NewReader(rc)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			if err := ctx.Err(); err != nil {
				return err
			}

			if record, ok := ParseLine(line); ok {
				names := record.Names()
				if schema == nil {
					if dup := firstDuplicate(names); dup != "" {
						return fmt.Errorf("%w: %s:%d: duplicate field %q", ErrSchemaMismatch, p.Filename(), lineNo, dup)
					}
					schema = names
					log.Debug("schema fixed", "file", p.Filename(), "line", lineNo, "fields", schema)
				} else if !slices.Equal(schema, names) {
					return &SchemaMismatchError{File: p.Filename(), Line: lineNo, Want: schema, Got: names}
				}

				steps = append(steps, record.Step)
				for _, f := range record.Fields {
					growing[f.Name] = append(growing[f.Name], f.Value)
				}
				content.WriteString(line)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", p.Filename(), readErr)
		}
	}

	// Freeze: nothing appends to these after Load returns
	for name, values := range growing {
		growing[name] = slices.Clip(values)
	}
	p.schema = schema
	p.series = growing
	p.steps = slices.Clip(steps)
	p.content = content.String()

	log.Debug("loaded iteration log", "file", p.Filename(), "lines", lineNo, "steps", len(p.steps))
	return nil
}

// Schema returns the field names fixed by the first matched line, StepField
// first. It is empty when no line matched.
func (p *Parser) Schema() []string {
	return slices.Clone(p.schema)
}

// Len returns the number of matched lines
func (p *Parser) Len() int {
	return len(p.steps)
}

// Steps returns the step index of every matched line
func (p *Parser) Steps() []int {
	return slices.Clone(p.steps)
}

// Field returns a copy of the named series. StepField is always available.
func (p *Parser) Field(name string) ([]float64, error) {
	if name == StepField {
		values := make([]float64, len(p.steps))
		for i, step := range p.steps {
			values[i] = float64(step)
		}
		return values, nil
	}

	values, ok := p.series[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrFieldNotFound, name, p.Filename())
	}
	return slices.Clone(values), nil
}

// Content returns the matched lines concatenated in file order, line
// endings included
func (p *Parser) Content() string {
	return p.content
}

// PlotSeries plots field against step and saves or shows the figure
func (p *Parser) PlotSeries(field string, mode plot.Mode) (*plot.Figure, error) {
	values, err := p.Field(field)
	if err != nil {
		return nil, err
	}
	steps, _ := p.Field(StepField)

	if p.plotter == nil {
		p.plotter = plot.NewPlotter(plot.DefaultOptions())
	}
	return p.plotter.Plot(plot.Series{
		X:      steps,
		Y:      values,
		XLabel: StepField,
		YLabel: field,
	}, mode)
}

func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}
