package plot

import (
	"errors"
	"fmt"
)

// Mode selects where a rendered figure goes
type Mode int

const (
	// ModeShow displays the figure inline in the terminal
	ModeShow Mode = iota
	// ModeSave writes the figure to a PNG file
	ModeSave
)

// ErrInvalidMode is the sentinel behind InvalidModeError
var ErrInvalidMode = errors.New("invalid plot mode")

// InvalidModeError reports an unrecognised mode string
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("unrecognized show mode parameter: %q (want show or save)", e.Mode)
}

func (e *InvalidModeError) Unwrap() error {
	return ErrInvalidMode
}

// ParseMode converts "show" or "save" into a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "show":
		return ModeShow, nil
	case "save":
		return ModeSave, nil
	}
	return 0, &InvalidModeError{Mode: s}
}

func (m Mode) String() string {
	switch m {
	case ModeShow:
		return "show"
	case ModeSave:
		return "save"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
