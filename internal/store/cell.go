package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
)

// CellStore defines the interface for queen cell persistence.
type CellStore interface {
	// CreateMultiple saves several cells at once. Callers wanting
	// all-or-nothing behaviour run it inside a transaction via WithTx.
	// Returns ErrForeignKey if a cell references a missing batch.
	CreateMultiple(ctx context.Context, cells []*domain.Cell) error

	// GetByID retrieves a cell by its unique ID.
	// Returns ErrCellNotFound if the cell does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cell, error)

	// ListByBatch returns the cells of one batch ordered by label.
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*domain.Cell, error)

	// ListByUser returns the cells of every batch owned by userID.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Cell, error)

	// UpdateStatus persists the cell's status, failed-from stage and stage
	// timestamps. Transition rules are enforced by the caller.
	// Returns ErrCellNotFound if the cell does not exist.
	UpdateStatus(ctx context.Context, cell *domain.Cell) error

	// WithTx returns a new CellStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CellStore
}
