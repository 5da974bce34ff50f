package api

import (
	"net/http"
	"time"

	"github.com/hivelog/hivelog-api/internal/api/shared"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/service"
)

// BatchHandler exposes batch and cell records.
type BatchHandler struct {
	batches service.BatchService
	labels  StageLabels
}

// NewBatchHandler creates a BatchHandler. A nil labels map uses
// DefaultStageLabels.
func NewBatchHandler(batches service.BatchService, labels StageLabels) *BatchHandler {
	if labels == nil {
		labels = DefaultStageLabels()
	}
	return &BatchHandler{batches: batches, labels: labels}
}

// CreateBatch handles POST /api/batches.
func (h *BatchHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateBatchRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	input := service.CreateBatchInput{
		Name:               req.Name,
		Notes:              req.Notes,
		DeclaredStartCount: req.DeclaredStartCount,
	}
	if req.GraftedAt != nil {
		input.GraftedAt = *req.GraftedAt
	}

	batch, err := h.batches.CreateBatch(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create batch")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, batchToResponse(batch))
}

// ListBatches handles GET /api/batches.
func (h *BatchHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	batches, err := h.batches.ListBatches(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list batches")
		return
	}

	resp := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		resp = append(resp, batchToResponse(b))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetBatch handles GET /api/batches/{id}.
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	userID, batchID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	batch, err := h.batches.GetBatch(r.Context(), userID, batchID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get batch")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, batchToResponse(batch))
}

// UpdateBatch handles PUT /api/batches/{id}.
func (h *BatchHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	userID, batchID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateBatchRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	batch, err := h.batches.UpdateBatch(r.Context(), userID, batchID, req.Name, req.Notes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update batch")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, batchToResponse(batch))
}

// DeleteBatch handles DELETE /api/batches/{id}.
func (h *BatchHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	userID, batchID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.batches.DeleteBatch(r.Context(), userID, batchID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete batch")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCells handles POST /api/batches/{id}/cells.
func (h *BatchHandler) AddCells(w http.ResponseWriter, r *http.Request) {
	userID, batchID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddCellsRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cells, err := h.batches.AddCells(r.Context(), userID, batchID, req.labels())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add cells")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, h.cellsToResponse(cells))
}

// ListCells handles GET /api/batches/{id}/cells.
func (h *BatchHandler) ListCells(w http.ResponseWriter, r *http.Request) {
	userID, batchID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	cells, err := h.batches.ListCells(r.Context(), userID, batchID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cells")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.cellsToResponse(cells))
}

// TransitionCell handles POST /api/cells/{id}/transitions.
func (h *BatchHandler) TransitionCell(w http.ResponseWriter, r *http.Request) {
	userID, cellID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TransitionCellRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	stage, err := domain.ParseStage(req.Stage)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var at time.Time
	if req.At != nil {
		at = *req.At
	}

	cell, err := h.batches.TransitionCell(r.Context(), userID, cellID, stage, at)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update cell")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.labels.cellToResponse(cell))
}

func (h *BatchHandler) cellsToResponse(cells []*domain.Cell) []CellResponse {
	resp := make([]CellResponse, 0, len(cells))
	for _, c := range cells {
		resp = append(resp, h.labels.cellToResponse(c))
	}
	return resp
}
