package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id is absent from its collection.
var ErrNotFound = errors.New("not found")

// IOError wraps a failure of the backing document: reading, decoding,
// encoding or writing it.
type IOError struct {
	Collection string
	Op         string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsIOFailure(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
