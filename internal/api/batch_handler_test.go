package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/mocks"
	"github.com/hivelog/hivelog-api/internal/service"
	"github.com/hivelog/hivelog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T, userID uuid.UUID) *domain.Batch {
	t.Helper()
	b, err := domain.NewBatch(userID, "June cup kit", 30, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return b
}

func testCell(t *testing.T, batchID uuid.UUID, label string) *domain.Cell {
	t.Helper()
	c, err := domain.NewCell(batchID, label)
	require.NoError(t, err)
	return c
}

func TestBatchHandler_CreateBatch(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	grafted := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		batch := testBatch(t, userID)
		svc.On("CreateBatch", mock.Anything, userID, service.CreateBatchInput{
			Name:               "June cup kit",
			DeclaredStartCount: 30,
			GraftedAt:          grafted,
		}).Return(batch, nil)
		h := NewBatchHandler(svc, nil)

		req := newRequest(t, http.MethodPost, "/api/batches", CreateBatchRequest{
			Name:               "June cup kit",
			DeclaredStartCount: 30,
			GraftedAt:          &grafted,
		}, userID)
		rec := serve(http.MethodPost, "/api/batches", h.CreateBatch, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decodeBody[BatchResponse](t, rec)
		assert.Equal(t, batch.ID, resp.ID)
		assert.Equal(t, 30, resp.DeclaredStartCount)
		svc.AssertExpectations(t)
	})

	t.Run("negative start count", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		h := NewBatchHandler(svc, nil)

		req := newRequest(t, http.MethodPost, "/api/batches",
			`{"name":"x","declared_start_count":-1}`, userID)
		rec := serve(http.MethodPost, "/api/batches", h.CreateBatch, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		h := NewBatchHandler(&mocks.BatchService{}, nil)

		req := newRequest(t, http.MethodPost, "/api/batches", CreateBatchRequest{Name: "x"}, uuid.Nil)
		rec := serve(http.MethodPost, "/api/batches", h.CreateBatch, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBatchHandler_GetBatch(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	batchID := uuid.New()

	tests := []struct {
		name       string
		target     string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{name: "found", target: "/api/batches/" + batchID.String(), wantStatus: http.StatusOK},
		{
			name:       "not found",
			target:     "/api/batches/" + batchID.String(),
			serviceErr: store.ErrBatchNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Batch not found",
		},
		{
			name:       "owned by someone else",
			target:     "/api/batches/" + batchID.String(),
			serviceErr: service.ErrNotOwned,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid id",
			target:     "/api/batches/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid id: has invalid format",
		},
		{
			name:       "unexpected failure",
			target:     "/api/batches/" + batchID.String(),
			serviceErr: fmt.Errorf("query: %w", errors.New("pq: relation \"batches\" does not exist")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to get batch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mocks.BatchService{}
			if tt.serviceErr != nil {
				svc.On("GetBatch", mock.Anything, userID, batchID).Return(nil, tt.serviceErr)
			} else {
				b := testBatch(t, userID)
				b.ID = batchID
				svc.On("GetBatch", mock.Anything, userID, batchID).Return(b, nil)
			}
			h := NewBatchHandler(svc, nil)

			rec := serve(http.MethodGet, "/api/batches/{id}", h.GetBatch,
				newRequest(t, http.MethodGet, tt.target, nil, userID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(t, rec))
			}
			assert.NotContains(t, rec.Body.String(), "relation")
		})
	}
}

func TestBatchHandler_ListBatchesEmpty(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.BatchService{}
	svc.On("ListBatches", mock.Anything, userID).Return([]*domain.Batch{}, nil)
	h := NewBatchHandler(svc, nil)

	rec := serve(http.MethodGet, "/api/batches", h.ListBatches,
		newRequest(t, http.MethodGet, "/api/batches", nil, userID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestBatchHandler_UpdateAndDelete(t *testing.T) {
	userID := uuid.New()
	batch := testBatch(t, userID)
	svc := &mocks.BatchService{}
	updated := *batch
	updated.Name = "Renamed"
	svc.On("UpdateBatch", mock.Anything, userID, batch.ID, "Renamed", "queenright starter").
		Return(&updated, nil)
	svc.On("DeleteBatch", mock.Anything, userID, batch.ID).Return(nil)
	h := NewBatchHandler(svc, nil)
	target := "/api/batches/" + batch.ID.String()

	rec := serve(http.MethodPut, "/api/batches/{id}", h.UpdateBatch, newRequest(t, http.MethodPut, target,
		UpdateBatchRequest{Name: "Renamed", Notes: "queenright starter"}, userID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Renamed", decodeBody[BatchResponse](t, rec).Name)

	rec = serve(http.MethodDelete, "/api/batches/{id}", h.DeleteBatch,
		newRequest(t, http.MethodDelete, target, nil, userID))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestBatchHandler_AddCells(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	batchID := uuid.New()
	target := "/api/batches/" + batchID.String() + "/cells"

	t.Run("count creates unlabeled cells", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		cells := []*domain.Cell{testCell(t, batchID, ""), testCell(t, batchID, "")}
		svc.On("AddCells", mock.Anything, userID, batchID, []string{"", ""}).Return(cells, nil)
		h := NewBatchHandler(svc, nil)

		rec := serve(http.MethodPost, "/api/batches/{id}/cells", h.AddCells,
			newRequest(t, http.MethodPost, target, AddCellsRequest{Count: 2}, userID))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decodeBody[[]CellResponse](t, rec)
		require.Len(t, resp, 2)
		assert.Equal(t, domain.StageGrafted, resp[0].Status)
		assert.Equal(t, "Grafted", resp[0].StatusLabel)
	})

	t.Run("labels win over count", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		svc.On("AddCells", mock.Anything, userID, batchID, []string{"A1", "A2"}).
			Return([]*domain.Cell{testCell(t, batchID, "A1"), testCell(t, batchID, "A2")}, nil)
		h := NewBatchHandler(svc, nil)

		rec := serve(http.MethodPost, "/api/batches/{id}/cells", h.AddCells,
			newRequest(t, http.MethodPost, target, AddCellsRequest{Count: 9, Labels: []string{"A1", "A2"}}, userID))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("duplicate label", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		svc.On("AddCells", mock.Anything, userID, batchID, []string{"A1"}).
			Return(nil, store.ErrCellLabelExists)
		h := NewBatchHandler(svc, nil)

		rec := serve(http.MethodPost, "/api/batches/{id}/cells", h.AddCells,
			newRequest(t, http.MethodPost, target, AddCellsRequest{Labels: []string{"A1"}}, userID))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("zero cells", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		svc.On("AddCells", mock.Anything, userID, batchID, []string{}).Return(nil, service.ErrNoCells)
		h := NewBatchHandler(svc, nil)

		rec := serve(http.MethodPost, "/api/batches/{id}/cells", h.AddCells,
			newRequest(t, http.MethodPost, target, AddCellsRequest{}, userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "At least one cell is required", errorMessage(t, rec))
	})
}

func TestBatchHandler_TransitionCell(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cellID := uuid.New()
	target := "/api/cells/" + cellID.String() + "/transitions"
	at := time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC)

	t.Run("moves forward with custom labels", func(t *testing.T) {
		t.Parallel()
		cell := testCell(t, uuid.New(), "B3")
		require.NoError(t, cell.TransitionTo(domain.StageAccepted, at))
		svc := &mocks.BatchService{}
		svc.On("TransitionCell", mock.Anything, userID, cellID, domain.StageAccepted, at).Return(cell, nil)
		labels := StageLabels{domain.StageAccepted: "Angenommen"}
		h := NewBatchHandler(svc, labels)

		rec := serve(http.MethodPost, "/api/cells/{id}/transitions", h.TransitionCell,
			newRequest(t, http.MethodPost, target, TransitionCellRequest{Stage: "accepted", At: &at}, userID))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[CellResponse](t, rec)
		assert.Equal(t, "Angenommen", resp.StatusLabel)
		assert.Equal(t, "grafted", resp.History[0].Label)
	})

	t.Run("unknown stage rejected by validation", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		h := NewBatchHandler(svc, nil)

		rec := serve(http.MethodPost, "/api/cells/{id}/transitions", h.TransitionCell,
			newRequest(t, http.MethodPost, target, TransitionCellRequest{Stage: "hatched"}, userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "TransitionCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backward move conflicts", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.BatchService{}
		svc.On("TransitionCell", mock.Anything, userID, cellID, domain.StageGrafted, mock.Anything).
			Return(nil, fmt.Errorf("%w: capped to grafted", domain.ErrInvalidTransition))
		h := NewBatchHandler(svc, nil)

		rec := serve(http.MethodPost, "/api/cells/{id}/transitions", h.TransitionCell,
			newRequest(t, http.MethodPost, target, TransitionCellRequest{Stage: "grafted"}, userID))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Cells can only move forward or into the failed stage", errorMessage(t, rec))
	})
}
