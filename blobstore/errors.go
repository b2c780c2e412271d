package blobstore

import (
	"errors"
	"fmt"
)

// ErrMissingResource matches every MissingResourceError.
var ErrMissingResource = errors.New("missing resource")

// MissingResourceError reports a persisted resource that an operation
// needed but could not find or read.
type MissingResourceError struct {
	Name string // blob name or index range
	Op   string // operation that needed it
	Err  error  // underlying cause, if any
}

func (e *MissingResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: missing resource %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: missing resource %s", e.Op, e.Name)
}

func (e *MissingResourceError) Unwrap() error { return e.Err }

func (e *MissingResourceError) Is(target error) bool { return target == ErrMissingResource }
