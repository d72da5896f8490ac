package repository

import (
	"context"

	"github.com/nkiryanov/identity/internal/models"
)

// User repository interface
// Implemented by postgres (relational) and redis (document) backends, both must behave the same
type UserRepo interface {
	// Acquire connection to the store. Called once on process start
	Connect(ctx context.Context) error

	// Release connection. Called once on process shutdown
	Disconnect(ctx context.Context) error

	// Remove all stored users. Must be used in tests or on bootstrap only
	Reset(ctx context.Context) error

	// Persist new user
	// If user with the same email (or id) exists must return apperrors.ErrUserAlreadyExists
	Save(ctx context.Context, user models.User) error

	// Find user by id or email
	// If user not found must return nil user and nil error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Check whether user with exactly that email exists (case-sensitive)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
