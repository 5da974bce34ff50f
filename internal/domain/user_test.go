package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	validEmail := "keeper@example.com"
	validPassword := "correct-horse-battery"

	user, err := NewUser(validEmail, validPassword)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != validEmail {
		t.Errorf("Expected email %s, got %s", validEmail, user.Email)
	}

	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	testCases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"empty email", "", validPassword, ErrEmptyEmail},
		{"missing at", "keeper.example.com", validPassword, ErrInvalidEmail},
		{"missing domain dot", "keeper@example", validPassword, ErrInvalidEmail},
		{"double at", "keeper@@example.com", validPassword, ErrInvalidEmail},
		{"short password", validEmail, "short", ErrPasswordTooShort},
		{"long password", validEmail, strings.Repeat("x", 73), ErrPasswordTooLong},
		{"no password", validEmail, "", ErrEmptyPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.email, tc.password)
			if err != tc.want {
				t.Errorf("Expected error %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUserValidate_StoredUser(t *testing.T) {
	t.Parallel()

	user := User{
		ID:             uuid.New(),
		Email:          "keeper@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected stored user to validate, got %v", err)
	}

	user.ID = uuid.Nil
	if err := user.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}
}
