package patient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repositories when no row matches the id.
var ErrNotFound = errors.New("patient not found")

// ValidationError reports required attributes missing on create.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s required", strings.Join(e.Fields, " and "))
}

// NotFoundError is returned when an update, delete or get addresses an id
// that does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("patient %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a failure from the persistence layer. The message is the
// engine's own.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
