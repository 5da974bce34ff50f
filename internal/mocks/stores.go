package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// UserStore is a testify mock of store.UserStore. WithTx returns the mock
// itself so expectations carry over into transactions.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserStore) WithTx(*sql.Tx) store.UserStore { return m }

// BatchStore is a testify mock of store.BatchStore.
type BatchStore struct {
	mock.Mock
}

func (m *BatchStore) Create(ctx context.Context, batch *domain.Batch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *BatchStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, id)
	batch, _ := args.Get(0).(*domain.Batch)
	return batch, args.Error(1)
}

func (m *BatchStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Batch, error) {
	args := m.Called(ctx, userID)
	batches, _ := args.Get(0).([]*domain.Batch)
	return batches, args.Error(1)
}

func (m *BatchStore) Update(ctx context.Context, batch *domain.Batch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *BatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BatchStore) WithTx(*sql.Tx) store.BatchStore { return m }

// CellStore is a testify mock of store.CellStore.
type CellStore struct {
	mock.Mock
}

func (m *CellStore) CreateMultiple(ctx context.Context, cells []*domain.Cell) error {
	return m.Called(ctx, cells).Error(0)
}

func (m *CellStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cell, error) {
	args := m.Called(ctx, id)
	cell, _ := args.Get(0).(*domain.Cell)
	return cell, args.Error(1)
}

func (m *CellStore) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*domain.Cell, error) {
	args := m.Called(ctx, batchID)
	cells, _ := args.Get(0).([]*domain.Cell)
	return cells, args.Error(1)
}

func (m *CellStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Cell, error) {
	args := m.Called(ctx, userID)
	cells, _ := args.Get(0).([]*domain.Cell)
	return cells, args.Error(1)
}

func (m *CellStore) UpdateStatus(ctx context.Context, cell *domain.Cell) error {
	return m.Called(ctx, cell).Error(0)
}

func (m *CellStore) WithTx(*sql.Tx) store.CellStore { return m }

var (
	_ store.UserStore  = (*UserStore)(nil)
	_ store.BatchStore = (*BatchStore)(nil)
	_ store.CellStore  = (*CellStore)(nil)
)
