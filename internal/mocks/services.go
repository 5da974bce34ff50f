package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/hivelog/hivelog-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// BatchService is a testify mock of service.BatchService.
type BatchService struct {
	mock.Mock
}

func (m *BatchService) CreateBatch(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateBatchInput,
) (*domain.Batch, error) {
	args := m.Called(ctx, userID, input)
	batch, _ := args.Get(0).(*domain.Batch)
	return batch, args.Error(1)
}

func (m *BatchService) GetBatch(ctx context.Context, userID, batchID uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, userID, batchID)
	batch, _ := args.Get(0).(*domain.Batch)
	return batch, args.Error(1)
}

func (m *BatchService) ListBatches(ctx context.Context, userID uuid.UUID) ([]*domain.Batch, error) {
	args := m.Called(ctx, userID)
	batches, _ := args.Get(0).([]*domain.Batch)
	return batches, args.Error(1)
}

func (m *BatchService) UpdateBatch(
	ctx context.Context,
	userID, batchID uuid.UUID,
	name, notes string,
) (*domain.Batch, error) {
	args := m.Called(ctx, userID, batchID, name, notes)
	batch, _ := args.Get(0).(*domain.Batch)
	return batch, args.Error(1)
}

func (m *BatchService) DeleteBatch(ctx context.Context, userID, batchID uuid.UUID) error {
	return m.Called(ctx, userID, batchID).Error(0)
}

func (m *BatchService) AddCells(
	ctx context.Context,
	userID, batchID uuid.UUID,
	labels []string,
) ([]*domain.Cell, error) {
	args := m.Called(ctx, userID, batchID, labels)
	cells, _ := args.Get(0).([]*domain.Cell)
	return cells, args.Error(1)
}

func (m *BatchService) ListCells(ctx context.Context, userID, batchID uuid.UUID) ([]*domain.Cell, error) {
	args := m.Called(ctx, userID, batchID)
	cells, _ := args.Get(0).([]*domain.Cell)
	return cells, args.Error(1)
}

func (m *BatchService) TransitionCell(
	ctx context.Context,
	userID, cellID uuid.UUID,
	to domain.Stage,
	at time.Time,
) (*domain.Cell, error) {
	args := m.Called(ctx, userID, cellID, to, at)
	cell, _ := args.Get(0).(*domain.Cell)
	return cell, args.Error(1)
}

// AnalyticsService is a testify mock of service.AnalyticsService.
type AnalyticsService struct {
	mock.Mock
}

func (m *AnalyticsService) BatchMetrics(
	ctx context.Context,
	userID, batchID uuid.UUID,
	override *service.ParamsOverride,
) (*funnel.BatchMetrics, error) {
	args := m.Called(ctx, userID, batchID, override)
	metrics, _ := args.Get(0).(*funnel.BatchMetrics)
	return metrics, args.Error(1)
}

func (m *AnalyticsService) FleetAnalytics(ctx context.Context, userID uuid.UUID) (*funnel.FleetAnalytics, error) {
	args := m.Called(ctx, userID)
	fleet, _ := args.Get(0).(*funnel.FleetAnalytics)
	return fleet, args.Error(1)
}

var (
	_ service.BatchService     = (*BatchService)(nil)
	_ service.AnalyticsService = (*AnalyticsService)(nil)
)
