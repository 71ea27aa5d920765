package repository

import (
	"errors"
	"fmt"
)

// ErrPersistFailed is matched by every *PersistError.
var ErrPersistFailed = errors.New("persist failed")

// LookupError reports that a RecordStore could not resolve an entity.
// Err is usually entity.ErrNotFound, or the driver error for other failures.
type LookupError struct {
	Kind string
	ID   int64
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s %d: %v", e.Kind, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// PersistError reports that a RecordStore could not durably store an entity.
type PersistError struct {
	Kind string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Kind, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Is makes every PersistError match ErrPersistFailed.
func (e *PersistError) Is(target error) bool {
	return target == ErrPersistFailed
}
