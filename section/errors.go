package section

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected reports an operation that needs a bound volume on a
	// section that has none.
	ErrNotConnected = errors.New("no volume connected")

	// ErrTooManyVolumes reports more than one volume passed to a section
	// constructor.
	ErrTooManyVolumes = errors.New("expected at most one volume argument")

	// ErrBadVolume reports a nil volume or one whose kind is unrecognized.
	ErrBadVolume = errors.New("unknown volume kind")

	// ErrBadStyle reports an unrecognized display or drawing style name.
	ErrBadStyle = errors.New(`bad "style" argument`)

	// ErrNotImplemented marks section shapes and display paths reserved in
	// the API but not built yet.
	ErrNotImplemented = errors.New("not implemented")
)

// NoStratigraphyError is the capability error: the caller asked for
// preservation- or stratigraphy-derived information from a value that does
// not carry it, or for spacetime data from a stratigraphy-only value.
type NoStratigraphyError struct {
	Obj     string // description of the receiver
	Missing string // the information the receiver lacks
}

func (e *NoStratigraphyError) Error() string {
	return fmt.Sprintf("%s has no %s", e.Obj, e.Missing)
}
