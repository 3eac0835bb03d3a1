package migrate

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientSpace is returned when a cross-device copy would not
	// fit on the destination filesystem.
	ErrInsufficientSpace = errors.New("insufficient space")

	// ErrNestedPath is returned when the canonical destination lies inside
	// the legacy source.
	ErrNestedPath = errors.New("destination is inside source")

	// ErrNoRoot is returned when a category has no canonical root configured.
	ErrNoRoot = errors.New("canonical root not configured")

	// ErrShortCopy is returned when a copied file does not match its source size.
	ErrShortCopy = errors.New("copied size does not match source")
)

// Error describes a failed filesystem step. Absent sources and existing
// destinations never produce an Error.
type Error struct {
	Op          string
	Source      string
	Destination string
	Err         error
}

func (e *Error) Error() string {
	if e.Destination == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Source, e.Destination, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
