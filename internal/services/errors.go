package services

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a missing record and a record owned by someone
// else. The two cases must stay indistinguishable to the caller.
var ErrNotFound = errors.New("task not found")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a persistence failure. No raw store error detail
// crosses the handler boundary.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
