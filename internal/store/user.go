package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
)

// UserStore persists beekeeper accounts. Returned users never carry a
// plaintext password.
type UserStore interface {
	// Create validates the user, hashes its plaintext password and inserts it.
	// A taken email returns ErrEmailExists.
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail matches case-insensitively. Missing users return
	// ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update saves email and display name, rehashing when user.Password is
	// set. ErrUserNotFound and ErrEmailExists as above.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes the user. Batches and cells go with it through
	// ON DELETE CASCADE.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) UserStore
}
