package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic form of the entity-specific errors.
	ErrNotFound = errors.New("entity not found")

	// ErrItemNotFound indicates that the requested memory item does not
	// exist. Evaluating an unknown id is a recoverable caller error, not a
	// fatal condition, and never mutates the collection.
	ErrItemNotFound = fmt.Errorf("%w: memory item", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError wraps errors from store operations with context.
type StoreError struct {
	// Operation is the operation that failed (e.g., "create_memo", "evaluate")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("memory store %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("memory store %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError. Known sentinel errors are returned
// directly without wrapping so callers can match them with errors.Is.
func NewStoreError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrItemNotFound) {
		return ErrItemNotFound
	}

	return &StoreError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
