// Package user persists identity records. Two implementations share one
// contract: in-memory for tests and default runs, PostgreSQL for production.
package user

import (
	"context"

	"taskbox/internal/auth/models"
	id "taskbox/pkg/domain"
)

// Store is the credential store contract. Writes are durable before the call
// returns; uniqueness of email and username is enforced atomically, so a
// registration race yields sentinel.ErrConflict for the loser, never a
// duplicate.
type Store interface {
	// Create inserts a new user. Returns sentinel.ErrConflict when the email
	// or username is already taken.
	Create(ctx context.Context, user *models.User) error
	// FindByID returns the user or sentinel.ErrNotFound.
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	// FindByLogin matches the key against username, then lowercased email.
	// Returns sentinel.ErrNotFound on a miss.
	FindByLogin(ctx context.Context, login string) (*models.User, error)
}
