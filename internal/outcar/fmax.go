package outcar

import (
	"context"
	"math"

	"vaspio/internal/log"
)

// ForceSelection identifies the atom carrying the largest force
type ForceSelection struct {
	Index int
	Force Vector
}

// SquaredNorm returns x² + y² + z²
func (v Vector) SquaredNorm() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Norm returns the Euclidean length of v
func (v Vector) Norm() float64 {
	return math.Sqrt(v.SquaredNorm())
}

// SelectMax returns the force with the largest magnitude. On a tie the
// lowest index wins.
func SelectMax(forces []Vector) (ForceSelection, error) {
	if len(forces) == 0 {
		return ForceSelection{}, ErrEmptyForces
	}

	best := 0
	bestNorm := forces[0].SquaredNorm()
	for i := 1; i < len(forces); i++ {
		if n := forces[i].SquaredNorm(); n > bestNorm {
			best, bestNorm = i, n
		}
	}
	return ForceSelection{Index: best, Force: forces[best]}, nil
}

// StepForce is the largest force of one ionic step
type StepForce struct {
	Step      int
	Atom      int
	Force     Vector
	Magnitude float64
}

// MaxForceHistory returns the largest force of every table in the report.
// Tables without atoms are skipped.
func (e *Extractor) MaxForceHistory(ctx context.Context) ([]StepForce, error) {
	var history []StepForce
	for block, err := range e.All(ctx) {
		if err != nil {
			return nil, err
		}

		sel, err := SelectMax(block.Forces)
		if err != nil {
			log.Debug("skipping empty force block", "file", e.Filename(), "step", block.Step)
			continue
		}
		history = append(history, StepForce{
			Step:      block.Step,
			Atom:      sel.Index,
			Force:     sel.Force,
			Magnitude: sel.Force.Norm(),
		})
	}
	return history, nil
}
