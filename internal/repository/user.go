package repository

import (
	"context"

	"fleet/internal/domain"
)

// UserFilter narrows user listings. Zero values mean "no constraint".
type UserFilter struct {
	Role  domain.UserRole
	Email string // case-insensitive substring match
	Page  int
	Limit int
}

// UserRepository defines the persistence operations for users.
// Reads exclude soft-deleted rows.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves users matching the filter together with the total
	// matching count for pagination.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)

	// Update updates an existing user, including the soft-delete flags.
	Update(ctx context.Context, user *domain.User) error
}
