package store

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound indicates the requested key does not exist.
var ErrKeyNotFound = errors.New("store: key not found")

// SerializationError wraps JSON marshalling errors with the key involved.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("store: serialization error for key %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
