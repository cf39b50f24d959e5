package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("todo not found")

	// ErrAlreadyExists matches any *AlreadyExistsError.
	ErrAlreadyExists = errors.New("todo already exists")

	// ErrRepository matches any *RepositoryError.
	ErrRepository = errors.New("repository operation failed")

	// ErrInvalidState matches any *StateError.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrAmbiguousIDPrefix is returned when an ID prefix matches multiple todos.
	ErrAmbiguousIDPrefix = errors.New("ambiguous todo ID prefix")
)

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("todo validation failed for field '%s': %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a reference to a todo that does not exist.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo with id %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError reports an insert whose ID is already taken.
type AlreadyExistsError struct {
	ID ID
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("todo with id %s already exists", e.ID)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// RepositoryError wraps an I/O or parse failure inside a backend.
type RepositoryError struct {
	// Op names the failed step, e.g. "read todos".
	Op    string
	Cause error
}

// NewRepositoryError wraps cause, or returns nil when cause is nil.
// A cause that is already a *RepositoryError is returned unchanged.
func NewRepositoryError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var repoErr *RepositoryError
	if errors.As(cause, &repoErr) {
		return cause
	}
	return &RepositoryError{Op: op, Cause: cause}
}

func (e *RepositoryError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("todo repository operation failed: %v", e.Cause)
	}
	return fmt.Sprintf("todo repository operation failed: %s: %v", e.Op, e.Cause)
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

func (e *RepositoryError) Is(target error) bool {
	return target == ErrRepository
}

// StateError reports a status change that is not allowed.
type StateError struct {
	Current   Status
	Attempted string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid todo state transition from '%s' to '%s'", e.Current, e.Attempted)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}
