package model

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a manuscript contains no analyzable text
// after trimming whitespace.
var ErrEmptyInput = errors.New("empty manuscript: no analyzable text")

// MalformedLocationError is an internal invariant violation: a flag or span
// references a Location outside the segmented manuscript. It indicates an
// engine bug and must abort the job rather than silently drop the flag.
type MalformedLocationError struct {
	Location Location
}

func (e *MalformedLocationError) Error() string {
	return fmt.Sprintf("malformed location %s: outside segmented manuscript", e.Location)
}
