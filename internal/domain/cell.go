package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cell-specific validation errors
var (
	// ErrEmptyCellID is returned when a cell ID is empty or nil.
	ErrEmptyCellID = errors.New("cell ID cannot be empty")

	// ErrEmptyCellBatchID is returned when a cell does not reference a batch.
	ErrEmptyCellBatchID = errors.New("cell batch ID cannot be empty")

	// ErrInvalidFailedFrom is returned when a failed cell records a stage it
	// could not have failed from.
	ErrInvalidFailedFrom = errors.New("failed-from stage must be a non-terminal forward stage")
)

// Cell is a single tracked queen cell. Status is the only field that changes
// over time, and only forward or into StageFailed.
type Cell struct {
	ID      uuid.UUID `json:"id"`
	BatchID uuid.UUID `json:"batch_id"`
	Label   string    `json:"label,omitempty"`
	Status  Stage     `json:"status"`

	// FailedFrom is the stage the cell occupied when it failed. It is empty
	// unless Status is StageFailed.
	FailedFrom Stage `json:"failed_from,omitempty"`

	// StageTimes records when each stage was entered. Display only.
	StageTimes map[Stage]time.Time `json:"stage_times,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCell creates a freshly grafted cell in the given batch.
func NewCell(batchID uuid.UUID, label string) (*Cell, error) {
	now := time.Now().UTC()
	cell := &Cell{
		ID:         uuid.New(),
		BatchID:    batchID,
		Label:      label,
		Status:     StageGrafted,
		StageTimes: map[Stage]time.Time{StageGrafted: now},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := cell.Validate(); err != nil {
		return nil, err
	}

	return cell, nil
}

// Validate checks if the Cell has valid data.
func (c *Cell) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCellID
	}

	if c.BatchID == uuid.Nil {
		return ErrEmptyCellBatchID
	}

	if !c.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, c.Status)
	}

	if c.FailedFrom != "" {
		if c.Status != StageFailed || !c.FailedFrom.IsForward() || c.FailedFrom.IsTerminal() {
			return ErrInvalidFailedFrom
		}
	}

	return nil
}

// TransitionTo moves the cell to the given stage at time at. Moving into
// StageFailed records the stage the cell failed from.
func (c *Cell) TransitionTo(to Stage, at time.Time) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, to)
	}
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}

	if to == StageFailed {
		c.FailedFrom = c.Status
	}
	c.Status = to

	if c.StageTimes == nil {
		c.StageTimes = make(map[Stage]time.Time)
	}
	c.StageTimes[to] = at.UTC()
	c.UpdatedAt = at.UTC()
	return nil
}

// HighestStage returns the furthest forward stage the cell is known to have
// reached. A failed cell reached the stage it failed from; when that is not
// recorded it is assumed to have failed straight after grafting.
func (c *Cell) HighestStage() Stage {
	if c.Status != StageFailed {
		return c.Status
	}
	if c.FailedFrom.IsForward() {
		return c.FailedFrom
	}
	return StageGrafted
}

// ReachedOrPassed reports whether the cell got at least as far as stage.
// Failure stops progress: a cell that failed after acceptance counts as
// accepted, never as emerged.
func (c *Cell) ReachedOrPassed(stage Stage) bool {
	if !stage.IsForward() {
		return false
	}
	return CompareStages(c.HighestStage(), stage) >= 0
}
