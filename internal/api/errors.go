package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hivelog/hivelog-api/internal/api/shared"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/hivelog/hivelog-api/internal/service"
	"github.com/hivelog/hivelog-api/internal/service/auth"
	"github.com/hivelog/hivelog-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, shared.ErrInvalidBody),
		errors.As(err, &verrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrEmptyBatchName),
		errors.Is(err, domain.ErrNegativeStartCount),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, funnel.ErrInvalidInput),
		errors.Is(err, service.ErrNoCells),
		errors.Is(err, service.ErrTooManyCells):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		verrs validator.ValidationErrors
		vErr  *domain.ValidationError
	)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrBatchNotFound):
		return "Batch not found"
	case errors.Is(err, store.ErrCellNotFound):
		return "Cell not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrCellLabelExists):
		return "A cell with this label already exists in the batch"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "Cells can only move forward or into the failed stage"

	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"
	case errors.As(err, &verrs):
		return shared.ValidationMessage(err)
	case errors.As(err, &vErr) && vErr.Field != "":
		return fmt.Sprintf("Invalid %s: %s", vErr.Field, vErr.Message)
	case errors.Is(err, domain.ErrInvalidStage):
		return "Unknown stage"
	case errors.Is(err, domain.ErrEmptyBatchName):
		return "Batch name is required"
	case errors.Is(err, domain.ErrNegativeStartCount):
		return "Declared start count cannot be negative"
	case errors.Is(err, funnel.ErrInvalidInput):
		return "Invalid analytics parameters"
	case errors.Is(err, service.ErrNoCells):
		return "At least one cell is required"
	case errors.Is(err, service.ErrTooManyCells):
		return "Too many cells in one request"
	case errors.Is(err, store.ErrInvalidEntity), errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
