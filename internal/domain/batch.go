package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Batch-specific validation errors
var (
	// ErrEmptyBatchID is returned when a batch ID is empty or nil.
	ErrEmptyBatchID = errors.New("batch ID cannot be empty")

	// ErrEmptyBatchUserID is returned when a batch has no owner.
	ErrEmptyBatchUserID = errors.New("batch user ID cannot be empty")

	// ErrEmptyBatchName is returned when a batch name is empty.
	ErrEmptyBatchName = errors.New("batch name cannot be empty")

	// ErrNegativeStartCount is returned when the declared start count is below zero.
	ErrNegativeStartCount = errors.New("declared start count cannot be negative")
)

// Batch is one grafting cohort: the set of queen cells started together from
// a common source. DeclaredStartCount is the number of cells originally
// committed and may exceed the number of cell records actually tracked.
//
// Only Name and Notes change after creation.
type Batch struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	Notes              string    `json:"notes,omitempty"`
	DeclaredStartCount int       `json:"declared_start_count"`
	GraftedAt          time.Time `json:"grafted_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewBatch creates a new Batch owned by userID.
// It generates a new UUID and sets the creation/update timestamps.
// A zero graftedAt defaults to the creation time.
// Returns an error if validation fails.
func NewBatch(userID uuid.UUID, name string, declaredStartCount int, graftedAt time.Time) (*Batch, error) {
	now := time.Now().UTC()
	if graftedAt.IsZero() {
		graftedAt = now
	}

	batch := &Batch{
		ID:                 uuid.New(),
		UserID:             userID,
		Name:               name,
		DeclaredStartCount: declaredStartCount,
		GraftedAt:          graftedAt.UTC(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}

	return batch, nil
}

// Validate checks if the Batch has valid data.
func (b *Batch) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBatchID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyBatchUserID
	}

	if b.Name == "" {
		return ErrEmptyBatchName
	}

	if b.DeclaredStartCount < 0 {
		return ErrNegativeStartCount
	}

	return nil
}

// UpdateDetails applies an administrative edit. The start count and graft time
// are fixed at creation and cannot be changed here.
func (b *Batch) UpdateDetails(name, notes string) error {
	if name == "" {
		return ErrEmptyBatchName
	}
	b.Name = name
	b.Notes = notes
	b.UpdatedAt = time.Now().UTC()
	return nil
}
