package repository

import (
	"errors"
	"fmt"
)

// ErrStorage matches every storage failure via errors.Is. Connection, schema
// and statement faults all funnel into this one kind; "not found" is a nil
// result, never an error.
var ErrStorage = errors.New("storage failure")

// StorageError wraps an underlying storage fault with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
