package oszicar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFieldNotFound is returned when a field was never seen in the file
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidCount is returned by TopN for a negative count
	ErrInvalidCount = errors.New("invalid count")
	// ErrSchemaMismatch is the sentinel behind SchemaMismatchError
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SchemaMismatchError reports a matched line whose fields differ from the
// schema fixed by the first matched line
type SchemaMismatchError struct {
	File string
	Line int
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s:%d: fields [%s] do not match schema [%s]",
		e.File, e.Line, strings.Join(e.Got, " "), strings.Join(e.Want, " "))
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}
