package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/hivelog/hivelog-api/internal/platform/metrics"
	"github.com/hivelog/hivelog-api/internal/redact"
	"github.com/hivelog/hivelog-api/internal/store"
)

// Operation names reported to the metrics observer.
const (
	OperationBatchMetrics   = "batch_metrics"
	OperationFleetAnalytics = "fleet_analytics"
)

// ParamsOverride replaces individual statistical parameters for one
// request. Nil fields keep the service defaults.
type ParamsOverride struct {
	SmoothingAlpha *float64
	ConfidenceZ    *float64
}

// AnalyticsService computes funnel analytics from a user's current records.
type AnalyticsService interface {
	// BatchMetrics reports acceptance, emergence and mating rates for one
	// batch owned by userID. A nil override uses the configured defaults.
	BatchMetrics(ctx context.Context, userID, batchID uuid.UUID, override *ParamsOverride) (*funnel.BatchMetrics, error)

	// FleetAnalytics aggregates every batch and cell owned by userID.
	FleetAnalytics(ctx context.Context, userID uuid.UUID) (*funnel.FleetAnalytics, error)
}

type analyticsServiceImpl struct {
	db         *sql.DB
	batchStore store.BatchStore
	cellStore  store.CellStore
	funnel     funnel.Service
	observer   metrics.Observer
	logger     *slog.Logger
}

// NewAnalyticsService creates an AnalyticsService. A nil observer disables
// metrics.
func NewAnalyticsService(
	db *sql.DB,
	batchStore store.BatchStore,
	cellStore store.CellStore,
	funnelService funnel.Service,
	observer metrics.Observer,
	logger *slog.Logger,
) (AnalyticsService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if batchStore == nil {
		return nil, domain.NewValidationError("batchStore", "cannot be nil", domain.ErrValidation)
	}
	if cellStore == nil {
		return nil, domain.NewValidationError("cellStore", "cannot be nil", domain.ErrValidation)
	}
	if funnelService == nil {
		return nil, domain.NewValidationError("funnelService", "cannot be nil", domain.ErrValidation)
	}
	if observer == nil {
		observer = metrics.NoopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &analyticsServiceImpl{
		db:         db,
		batchStore: batchStore,
		cellStore:  cellStore,
		funnel:     funnelService,
		observer:   observer,
		logger:     logger.With(slog.String("component", "analytics_service")),
	}, nil
}

// resolveParams applies override on top of the funnel service defaults.
func (s *analyticsServiceImpl) resolveParams(override *ParamsOverride) (funnel.Params, error) {
	params := s.funnel.Params()
	if override == nil {
		return params, nil
	}
	if override.SmoothingAlpha != nil {
		params.SmoothingAlpha = *override.SmoothingAlpha
	}
	if override.ConfidenceZ != nil {
		params.ConfidenceZ = *override.ConfidenceZ
	}
	if err := params.Validate(); err != nil {
		return funnel.Params{}, err
	}
	return params, nil
}

func (s *analyticsServiceImpl) BatchMetrics(
	ctx context.Context,
	userID, batchID uuid.UUID,
	override *ParamsOverride,
) (result *funnel.BatchMetrics, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := time.Now()
	defer func() {
		s.observer.Observe(ctx, OperationBatchMetrics, err == nil, time.Since(start))
	}()

	params, err := s.resolveParams(override)
	if err != nil {
		return nil, NewAnalyticsServiceError(OperationBatchMetrics, "invalid parameters", err)
	}

	batch, err := s.batchStore.GetByID(ctx, batchID)
	if err != nil {
		return nil, NewAnalyticsServiceError(OperationBatchMetrics, "failed to retrieve batch", err)
	}
	if batch.UserID != userID {
		return nil, NewAnalyticsServiceError(OperationBatchMetrics, "batch belongs to another user", ErrNotOwned)
	}

	cells, err := s.cellStore.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, NewAnalyticsServiceError(OperationBatchMetrics, "failed to list cells", err)
	}

	result, err = s.funnel.BatchMetricsWithParams(batch, cells, params)
	if err != nil {
		log.Error("batch metrics computation failed", redact.ErrorAttr(err),
			slog.String("batch_id", batchID.String()))
		return nil, NewAnalyticsServiceError(OperationBatchMetrics, "computation failed", err)
	}

	log.Debug("computed batch metrics",
		slog.String("batch_id", batchID.String()),
		slog.Int("tracked_cells", result.TrackedCells),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *analyticsServiceImpl) FleetAnalytics(
	ctx context.Context,
	userID uuid.UUID,
) (result *funnel.FleetAnalytics, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := time.Now()
	defer func() {
		s.observer.Observe(ctx, OperationFleetAnalytics, err == nil, time.Since(start))
	}()

	// batches and cells must come from one snapshot, or a concurrent delete
	// shows up as orphan cells
	var (
		batches []*domain.Batch
		cells   []*domain.Cell
	)
	err = store.RunInTransactionWithOptions(ctx, s.db, store.SnapshotTxOptions, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if batches, err = s.batchStore.WithTx(tx).ListByUser(ctx, userID); err != nil {
			return NewAnalyticsServiceError(OperationFleetAnalytics, "failed to list batches", err)
		}
		if cells, err = s.cellStore.WithTx(tx).ListByUser(ctx, userID); err != nil {
			return NewAnalyticsServiceError(OperationFleetAnalytics, "failed to list cells", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err = s.funnel.FleetAnalytics(batches, cells)
	if err != nil {
		log.Error("fleet analytics computation failed", redact.ErrorAttr(err))
		return nil, NewAnalyticsServiceError(OperationFleetAnalytics, "computation failed", err)
	}

	if !result.Consistency.Consistent() {
		log.Warn("fleet records are inconsistent",
			slog.Int("orphan_cells", result.Consistency.OrphanCells),
			slog.Int("over_tracked_batches", len(result.Consistency.OverTrackedBatches)))
	}
	return result, nil
}

var _ AnalyticsService = (*analyticsServiceImpl)(nil)
