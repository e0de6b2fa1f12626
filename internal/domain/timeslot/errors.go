package timeslot

import (
	"errors"
	"fmt"
)

// ErrBadTime is the sentinel all parse failures unwrap to.
var ErrBadTime = errors.New("unparseable clock time")

// ParseError describes a clock string that matched neither the 24-hour nor
// the 12-hour form, or carried out-of-range components.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

// Unwrap lets errors.Is(err, ErrBadTime) work across wrapping layers.
func (e *ParseError) Unwrap() error { return ErrBadTime }
