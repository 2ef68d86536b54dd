// Package outcar extracts the per-step position and total-force tables
// from OUTCAR reports.
//
// A table looks like
//
//	 POSITION                                       TOTAL-FORCE (eV/Angst)
//	 -----------------------------------------------------------------------------------
//	      0.00000      0.00000      0.00000         0.000000      0.000000     -0.012345
//	 -----------------------------------------------------------------------------------
//
// Everything outside these tables is ignored. Tables are read lazily, one
// per Next call, so a long relaxation never has to be held in memory.
package outcar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strconv"
	"strings"

	"vaspio/internal/log"
	"vaspio/internal/source"
)

// HeaderPattern matches the line that opens a force table
var HeaderPattern = regexp.MustCompile(`^\s*POSITION\s+TOTAL-FORCE\s*\(eV/Angst\)\s*$`)

// separator marks the lines directly around the table body
const separator = "------"

const maxLineSize = 1024 * 1024

// Vector is a 3D position or force
type Vector [3]float64

// StepBlock is one force table. Coordinates and Forces are index-aligned,
// one entry per atom in file order.
type StepBlock struct {
	Step        int
	Coordinates []Vector
	Forces      []Vector
}

// Extractor reads force tables from one report. Each traversal reopens
// the file and starts from the top.
type Extractor struct {
	file source.Opener
}

// New creates an extractor for file
func New(file source.Opener) *Extractor {
	return &Extractor{file: file}
}

// Filename returns the name of the backing file
func (e *Extractor) Filename() string {
	return e.file.Filename()
}

// Iterate opens the file and returns an iterator positioned before the
// first table. The caller must Close it unless Next has returned false.
func (e *Extractor) Iterate(ctx context.Context) (*BlockIterator, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &BlockIterator{
		ctx:      ctx,
		filename: e.file.Filename(),
		rc:       rc,
		scanner:  scanner,
		state:    stateIdle,
	}, nil
}

// All returns the tables as a range-over-func sequence. The file is closed
// when the loop ends, including on break. A read or format error is
// yielded once as the last element.
func (e *Extractor) All(ctx context.Context) iter.Seq2[StepBlock, error] {
	return func(yield func(StepBlock, error) bool) {
		it, err := e.Iterate(ctx)
		if err != nil {
			yield(StepBlock{}, err)
			return
		}
		defer it.Close()

		for it.Next() {
			if !yield(it.Block(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(StepBlock{}, err)
		}
	}
}

type scanState int

const (
	stateIdle scanState = iota
	stateHeaderSeen
	stateCollecting
)

func (s scanState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateHeaderSeen:
		return "header-seen"
	case stateCollecting:
		return "collecting"
	}
	return fmt.Sprintf("scanState(%d)", int(s))
}

// BlockIterator walks the force tables of one open report
type BlockIterator struct {
	ctx      context.Context
	filename string
	rc       io.ReadCloser
	scanner  *bufio.Scanner

	state  scanState
	step   int
	lineNo int
	coords []Vector
	forces []Vector

	block  StepBlock
	err    error
	closed bool
}

// Next advances to the next complete table. It returns false at end of
// file or on error and releases the file in both cases. A table cut off
// by the end of the file is dropped.
func (it *BlockIterator) Next() bool {
	if it.closed {
		return false
	}

	for it.scanner.Scan() {
		it.lineNo++
		if err := it.ctx.Err(); err != nil {
			return it.fail(err)
		}
		line := it.scanner.Text()

		switch it.state {
		case stateIdle:
			if HeaderPattern.MatchString(line) {
				it.step++
				it.state = stateHeaderSeen
			}
		case stateHeaderSeen:
			if strings.Contains(line, separator) {
				it.coords = []Vector{}
				it.forces = []Vector{}
				it.state = stateCollecting
			}
		case stateCollecting:
			if strings.Contains(line, separator) {
				it.block = StepBlock{Step: it.step, Coordinates: it.coords, Forces: it.forces}
				it.coords, it.forces = nil, nil
				it.state = stateIdle
				log.Debug("force block", "file", it.filename, "step", it.block.Step, "atoms", len(it.block.Forces))
				return true
			}

			position, force, err := parseDataLine(line)
			if err != nil {
				return it.fail(&FormatError{File: it.filename, Line: it.lineNo, Text: line, Err: err})
			}
			it.coords = append(it.coords, position)
			it.forces = append(it.forces, force)
		}
	}

	if err := it.scanner.Err(); err != nil {
		return it.fail(fmt.Errorf("failed to read %s: %w", it.filename, err))
	}
	if it.state != stateIdle {
		log.Debug("dropping incomplete force block", "file", it.filename, "step", it.step, "state", it.state)
	}
	it.Close()
	return false
}

// Block returns the table found by the last successful Next
func (it *BlockIterator) Block() StepBlock {
	return it.block
}

// Err returns the error that stopped the iteration, if any
func (it *BlockIterator) Err() error {
	return it.err
}

// Close releases the file. It is safe to call more than once.
func (it *BlockIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.coords, it.forces = nil, nil
	return it.rc.Close()
}

func (it *BlockIterator) fail(err error) bool {
	it.err = err
	it.block = StepBlock{}
	it.Close()
	return false
}

// parseDataLine splits "x y z fx fy fz" into a position and a force
func parseDataLine(line string) (Vector, Vector, error) {
	tokens := strings.Fields(line)
	if len(tokens) != 6 {
		return Vector{}, Vector{}, fmt.Errorf("%w: want 6 numbers, got %d", ErrMalformedLine, len(tokens))
	}

	var values [6]float64
	for i, token := range tokens {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Vector{}, Vector{}, fmt.Errorf("%w: %q is not a number", ErrMalformedLine, token)
		}
		values[i] = v
	}
	return Vector{values[0], values[1], values[2]}, Vector{values[3], values[4], values[5]}, nil
}
