package store

import (
	"errors"
	"fmt"
)

// Generic store failures. Implementations wrap these, usually through a
// more specific sentinel below, so callers can match either level.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrForeignKey        = errors.New("referenced record does not exist")
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific sentinels.
var (
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrBatchNotFound = fmt.Errorf("batch %w", ErrNotFound)
	ErrCellNotFound  = fmt.Errorf("cell %w", ErrNotFound)

	ErrEmailExists = fmt.Errorf("email %w", ErrDuplicate)
	// ErrCellLabelExists is returned when a batch already has a cell with the
	// same non-empty label.
	ErrCellLabelExists = fmt.Errorf("cell label %w", ErrDuplicate)
)

// StoreError records which entity and operation failed around an
// underlying error.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError, e.g. NewStoreError("cell", "update",
// "cell missing", ErrCellNotFound).
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
