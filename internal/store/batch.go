package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
)

// BatchStore defines the interface for batch data persistence.
type BatchStore interface {
	// Create saves a new batch. Returns validation errors from the domain
	// Batch if data is invalid.
	Create(ctx context.Context, batch *domain.Batch) error

	// GetByID retrieves a batch by its unique ID.
	// Returns ErrBatchNotFound if the batch does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)

	// ListByUser returns every batch owned by userID, most recently grafted first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Batch, error)

	// Update persists the administrative fields of a batch (name and notes).
	// Returns ErrBatchNotFound if the batch does not exist.
	Update(ctx context.Context, batch *domain.Batch) error

	// Delete removes a batch and, through the foreign key, all of its cells.
	// Returns ErrBatchNotFound if the batch does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new BatchStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BatchStore
}
