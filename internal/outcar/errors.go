package outcar

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine is wrapped by every FormatError
	ErrMalformedLine = errors.New("malformed force line")
	// ErrEmptyForces is returned by SelectMax for an empty force list
	ErrEmptyForces = errors.New("no forces to select from")
)

// FormatError reports a data line inside a force block that is not six numbers
type FormatError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.File, e.Line, e.Err, e.Text)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
