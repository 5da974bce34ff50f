package funnel

import (
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
)

func testBatch(declared int) *domain.Batch {
	now := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	return &domain.Batch{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		Name:               "Bar 1",
		DeclaredStartCount: declared,
		GraftedAt:          now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// cellsAt builds n cells in batchID with the given status.
func cellsAt(batchID uuid.UUID, status domain.Stage, n int) []*domain.Cell {
	cells := make([]*domain.Cell, n)
	for i := range cells {
		cells[i] = &domain.Cell{ID: uuid.New(), BatchID: batchID, Status: status}
	}
	return cells
}

// failedCells builds n failed cells in batchID that failed from the given stage.
func failedCells(batchID uuid.UUID, from domain.Stage, n int) []*domain.Cell {
	cells := cellsAt(batchID, domain.StageFailed, n)
	for _, c := range cells {
		c.FailedFrom = from
	}
	return cells
}

func concat(groups ...[]*domain.Cell) []*domain.Cell {
	var out []*domain.Cell
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
