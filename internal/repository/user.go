package repository

import (
	"context"

	"signup-service/internal/domain"
)

// UserRepository defines persistence operations for User records.
type UserRepository interface {
	Init(ctx context.Context) error
	// FindByEmail returns ErrNotFound when no record matches exactly.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create assigns ID and timestamps on user. It returns ErrDuplicateEmail
	// when the email is already taken.
	Create(ctx context.Context, user *domain.User) (int64, error)
}
