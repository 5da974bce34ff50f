package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/events"
	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/hivelog/hivelog-api/internal/redact"
	"github.com/hivelog/hivelog-api/internal/store"
)

// CreateBatchInput describes a new grafting batch.
type CreateBatchInput struct {
	Name               string
	Notes              string
	DeclaredStartCount int
	GraftedAt          time.Time
}

// BatchService manages grafting batches and their queen cells on behalf of
// a single user. Every method checks that the batch belongs to userID.
type BatchService interface {
	CreateBatch(ctx context.Context, userID uuid.UUID, input CreateBatchInput) (*domain.Batch, error)
	GetBatch(ctx context.Context, userID, batchID uuid.UUID) (*domain.Batch, error)
	ListBatches(ctx context.Context, userID uuid.UUID) ([]*domain.Batch, error)

	// UpdateBatch changes the administrative fields only. The declared start
	// count and graft time are fixed once a batch exists.
	UpdateBatch(ctx context.Context, userID, batchID uuid.UUID, name, notes string) (*domain.Batch, error)

	// DeleteBatch removes the batch and all of its cells.
	DeleteBatch(ctx context.Context, userID, batchID uuid.UUID) error

	// AddCells creates one freshly grafted cell per label in a single
	// transaction. Empty labels are allowed.
	AddCells(ctx context.Context, userID, batchID uuid.UUID, labels []string) ([]*domain.Cell, error)
	ListCells(ctx context.Context, userID, batchID uuid.UUID) ([]*domain.Cell, error)

	// TransitionCell moves a cell forward or into the failed stage. A zero
	// at defaults to now. Invalid moves return domain.ErrInvalidTransition.
	TransitionCell(ctx context.Context, userID, cellID uuid.UUID, to domain.Stage, at time.Time) (*domain.Cell, error)
}

type batchServiceImpl struct {
	db         *sql.DB
	batchStore store.BatchStore
	cellStore  store.CellStore
	emitter    events.EventEmitter
	logger     *slog.Logger
	now        func() time.Time
}

// NewBatchService creates a BatchService. A nil emitter disables events.
func NewBatchService(
	db *sql.DB,
	batchStore store.BatchStore,
	cellStore store.CellStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (BatchService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if batchStore == nil {
		return nil, domain.NewValidationError("batchStore", "cannot be nil", domain.ErrValidation)
	}
	if cellStore == nil {
		return nil, domain.NewValidationError("cellStore", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &batchServiceImpl{
		db:         db,
		batchStore: batchStore,
		cellStore:  cellStore,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "batch_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// ownedBatch loads a batch and checks it belongs to userID.
func (s *batchServiceImpl) ownedBatch(
	ctx context.Context,
	bs store.BatchStore,
	op string,
	userID, batchID uuid.UUID,
) (*domain.Batch, error) {
	batch, err := bs.GetByID(ctx, batchID)
	if err != nil {
		return nil, NewBatchServiceError(op, "failed to retrieve batch", err)
	}
	if batch.UserID != userID {
		return nil, NewBatchServiceError(op, "batch belongs to another user", ErrNotOwned)
	}
	return batch, nil
}

func (s *batchServiceImpl) CreateBatch(
	ctx context.Context,
	userID uuid.UUID,
	input CreateBatchInput,
) (*domain.Batch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	batch, err := domain.NewBatch(userID, strings.TrimSpace(input.Name), input.DeclaredStartCount, input.GraftedAt)
	if err != nil {
		return nil, NewBatchServiceError("create_batch", "invalid batch", err)
	}
	batch.Notes = input.Notes

	if err := s.batchStore.Create(ctx, batch); err != nil {
		log.Error("failed to save batch", redact.ErrorAttr(err), slog.String("user_id", userID.String()))
		return nil, NewBatchServiceError("create_batch", "failed to save batch", err)
	}

	log.Info("batch created",
		slog.String("batch_id", batch.ID.String()),
		slog.Int("declared_start_count", batch.DeclaredStartCount))
	return batch, nil
}

func (s *batchServiceImpl) GetBatch(ctx context.Context, userID, batchID uuid.UUID) (*domain.Batch, error) {
	return s.ownedBatch(ctx, s.batchStore, "get_batch", userID, batchID)
}

func (s *batchServiceImpl) ListBatches(ctx context.Context, userID uuid.UUID) ([]*domain.Batch, error) {
	batches, err := s.batchStore.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list batches",
			redact.ErrorAttr(err), slog.String("user_id", userID.String()))
		return nil, NewBatchServiceError("list_batches", "failed to list batches", err)
	}
	return batches, nil
}

func (s *batchServiceImpl) UpdateBatch(
	ctx context.Context,
	userID, batchID uuid.UUID,
	name, notes string,
) (*domain.Batch, error) {
	var updated *domain.Batch
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txBatches := s.batchStore.WithTx(tx)

		batch, err := s.ownedBatch(ctx, txBatches, "update_batch", userID, batchID)
		if err != nil {
			return err
		}
		if err := batch.UpdateDetails(strings.TrimSpace(name), notes); err != nil {
			return NewBatchServiceError("update_batch", "invalid batch details", err)
		}
		if err := txBatches.Update(ctx, batch); err != nil {
			return NewBatchServiceError("update_batch", "failed to save batch", err)
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("batch updated",
		slog.String("batch_id", batchID.String()))
	return updated, nil
}

func (s *batchServiceImpl) DeleteBatch(ctx context.Context, userID, batchID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txBatches := s.batchStore.WithTx(tx)

		if _, err := s.ownedBatch(ctx, txBatches, "delete_batch", userID, batchID); err != nil {
			return err
		}
		if err := txBatches.Delete(ctx, batchID); err != nil {
			return NewBatchServiceError("delete_batch", "failed to delete batch", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("batch deleted",
		slog.String("batch_id", batchID.String()))
	return nil
}

func (s *batchServiceImpl) AddCells(
	ctx context.Context,
	userID, batchID uuid.UUID,
	labels []string,
) ([]*domain.Cell, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case len(labels) == 0:
		return nil, NewBatchServiceError("add_cells", "no cells given", ErrNoCells)
	case len(labels) > MaxCellsPerRequest:
		return nil, NewBatchServiceError("add_cells",
			fmt.Sprintf("%d cells requested, limit is %d", len(labels), MaxCellsPerRequest), ErrTooManyCells)
	}

	cells := make([]*domain.Cell, 0, len(labels))
	for _, label := range labels {
		cell, err := domain.NewCell(batchID, strings.TrimSpace(label))
		if err != nil {
			return nil, NewBatchServiceError("add_cells", "invalid cell", err)
		}
		cells = append(cells, cell)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.ownedBatch(ctx, s.batchStore.WithTx(tx), "add_cells", userID, batchID); err != nil {
			return err
		}
		if err := s.cellStore.WithTx(tx).CreateMultiple(ctx, cells); err != nil {
			return NewBatchServiceError("add_cells", "failed to save cells", err)
		}
		return nil
	})
	if err != nil {
		log.Debug("add cells failed", redact.ErrorAttr(err), slog.String("batch_id", batchID.String()))
		return nil, err
	}

	log.Info("cells added", slog.String("batch_id", batchID.String()), slog.Int("cell_count", len(cells)))
	return cells, nil
}

func (s *batchServiceImpl) ListCells(ctx context.Context, userID, batchID uuid.UUID) ([]*domain.Cell, error) {
	if _, err := s.ownedBatch(ctx, s.batchStore, "list_cells", userID, batchID); err != nil {
		return nil, err
	}
	cells, err := s.cellStore.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, NewBatchServiceError("list_cells", "failed to list cells", err)
	}
	return cells, nil
}

func (s *batchServiceImpl) TransitionCell(
	ctx context.Context,
	userID, cellID uuid.UUID,
	to domain.Stage,
	at time.Time,
) (*domain.Cell, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if at.IsZero() {
		at = s.now()
	}

	var (
		cell *domain.Cell
		from domain.Stage
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCells := s.cellStore.WithTx(tx)

		var err error
		cell, err = txCells.GetByID(ctx, cellID)
		if err != nil {
			return NewBatchServiceError("transition_cell", "failed to retrieve cell", err)
		}
		if _, err := s.ownedBatch(ctx, s.batchStore.WithTx(tx), "transition_cell", userID, cell.BatchID); err != nil {
			return err
		}

		from = cell.Status
		if err := cell.TransitionTo(to, at); err != nil {
			return NewBatchServiceError("transition_cell", "transition rejected", err)
		}
		if err := txCells.UpdateStatus(ctx, cell); err != nil {
			return NewBatchServiceError("transition_cell", "failed to save cell", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("cell stage changed",
		slog.String("cell_id", cellID.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)))

	// The transition is already committed; a failing subscriber must not
	// turn it into an error for the caller.
	event, err := events.NewCellStageChangedEvent(events.CellStageChanged{
		CellID:    cell.ID,
		BatchID:   cell.BatchID,
		UserID:    userID,
		From:      string(from),
		To:        string(to),
		ChangedAt: at.UTC(),
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to publish cell stage change", redact.ErrorAttr(err),
			slog.String("cell_id", cellID.String()))
	}

	return cell, nil
}

var _ BatchService = (*batchServiceImpl)(nil)
