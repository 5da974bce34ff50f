package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. The API layer maps them to HTTP
// status codes; callers match them with errors.Is.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer maps this to 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNoCells is returned when AddCells is called without any cells.
	ErrNoCells = errors.New("at least one cell is required")

	// ErrTooManyCells is returned when a single AddCells call exceeds MaxCellsPerRequest.
	ErrTooManyCells = errors.New("too many cells in one request")
)

// MaxCellsPerRequest bounds how many cells one AddCells call may create.
const MaxCellsPerRequest = 500

// ServiceError adds the failing operation to an underlying error.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewBatchServiceError creates a ServiceError for a batch service operation.
func NewBatchServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "batch service", Operation: operation, Message: message, Err: err}
}

// NewAnalyticsServiceError creates a ServiceError for an analytics operation.
func NewAnalyticsServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "analytics service", Operation: operation, Message: message, Err: err}
}
