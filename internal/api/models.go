package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
	// ExpiresAt is the RFC 3339 time the token expires.
	ExpiresAt string `json:"expires_at"`
}

// CreateBatchRequest defines the payload for creating a grafting batch.
type CreateBatchRequest struct {
	Name               string     `json:"name"                 validate:"required,max=200"`
	Notes              string     `json:"notes"                validate:"max=2000"`
	DeclaredStartCount int        `json:"declared_start_count" validate:"gte=0,lte=100000"`
	GraftedAt          *time.Time `json:"grafted_at"`
}

// UpdateBatchRequest defines the payload for administrative batch edits.
type UpdateBatchRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Notes string `json:"notes" validate:"max=2000"`
}

// AddCellsRequest adds cells to a batch. When Labels is non-empty one cell
// is created per label and Count is ignored; otherwise Count unlabeled cells
// are created.
type AddCellsRequest struct {
	Count  int      `json:"count"  validate:"gte=0,lte=500"`
	Labels []string `json:"labels" validate:"max=500,dive,max=50"`
}

// labels returns one entry per cell to create.
func (r AddCellsRequest) labels() []string {
	if len(r.Labels) > 0 {
		return r.Labels
	}
	return make([]string, r.Count)
}

// TransitionCellRequest moves a cell to a new stage. A missing At means now.
type TransitionCellRequest struct {
	Stage string     `json:"stage" validate:"required,stage"`
	At    *time.Time `json:"at"`
}

// BatchResponse is the API representation of a batch.
type BatchResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Notes              string    `json:"notes,omitempty"`
	DeclaredStartCount int       `json:"declared_start_count"`
	GraftedAt          time.Time `json:"grafted_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StageTime is one entry of a cell's stage history.
type StageTime struct {
	Stage     domain.Stage `json:"stage"`
	Label     string       `json:"label"`
	EnteredAt time.Time    `json:"entered_at"`
}

// CellResponse is the API representation of a queen cell.
type CellResponse struct {
	ID              uuid.UUID    `json:"id"`
	BatchID         uuid.UUID    `json:"batch_id"`
	Label           string       `json:"label,omitempty"`
	Status          domain.Stage `json:"status"`
	StatusLabel     string       `json:"status_label"`
	FailedFrom      domain.Stage `json:"failed_from,omitempty"`
	FailedFromLabel string       `json:"failed_from_label,omitempty"`
	History         []StageTime  `json:"history"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// StageCount is one row of the fleet status distribution.
type StageCount struct {
	Stage domain.Stage `json:"stage"`
	Label string       `json:"label"`
	Count int          `json:"count"`
}

// FleetAnalyticsResponse adds a labelled, funnel-ordered status breakdown to
// the fleet analytics.
type FleetAnalyticsResponse struct {
	*funnel.FleetAnalytics
	Stages []StageCount `json:"stages"`
}

func batchToResponse(b *domain.Batch) BatchResponse {
	return BatchResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Notes:              b.Notes,
		DeclaredStartCount: b.DeclaredStartCount,
		GraftedAt:          b.GraftedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (l StageLabels) cellToResponse(c *domain.Cell) CellResponse {
	resp := CellResponse{
		ID:          c.ID,
		BatchID:     c.BatchID,
		Label:       c.Label,
		Status:      c.Status,
		StatusLabel: l.Label(c.Status),
		History:     make([]StageTime, 0, len(c.StageTimes)),
		UpdatedAt:   c.UpdatedAt,
	}
	if c.FailedFrom != "" {
		resp.FailedFrom = c.FailedFrom
		resp.FailedFromLabel = l.Label(c.FailedFrom)
	}
	// Funnel order, with failed last.
	for _, stage := range domain.AllStages() {
		if at, ok := c.StageTimes[stage]; ok {
			resp.History = append(resp.History, StageTime{Stage: stage, Label: l.Label(stage), EnteredAt: at})
		}
	}
	return resp
}

func (l StageLabels) fleetToResponse(fa *funnel.FleetAnalytics) FleetAnalyticsResponse {
	stages := make([]StageCount, 0, len(fa.CellStatusDistribution))
	for _, stage := range domain.AllStages() {
		stages = append(stages, StageCount{
			Stage: stage,
			Label: l.Label(stage),
			Count: fa.CellStatusDistribution[stage],
		})
	}
	return FleetAnalyticsResponse{FleetAnalytics: fa, Stages: stages}
}
