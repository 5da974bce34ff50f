package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token validation failures. Callers map all of them to 401.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
)

// ErrWeakSecret is returned by NewJWTService for signing secrets shorter
// than 32 bytes.
var ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")

// JWTService issues and validates the access tokens handed to beekeepers at
// login.
type JWTService interface {
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies tokenString and returns its claims. Failures
	// are one of the token errors above.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the application view of a validated token.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
