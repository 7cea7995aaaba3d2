package service

import (
	"context"
	"errors"
	"fmt"

	"signup-service/internal/domain"
	"signup-service/internal/repository"
	"signup-service/internal/validation"
)

// ErrUserAlreadyExists is returned when the email already belongs to a user.
var ErrUserAlreadyExists = errors.New("user already exists")

// PasswordHasher turns a plaintext password into a one-way hash.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
}

// UserService describes the registration use case.
type UserService interface {
	// Register validates payload, rejects taken emails, hashes the password
	// and stores the user. Validation failures come back as *validation.Error.
	Register(ctx context.Context, payload any) (*domain.User, error)
}

// Options tunes registration behaviour.
type Options struct {
	// RedactHash blanks PasswordHash on the returned record.
	RedactHash bool
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	opts   Options
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, opts Options) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		opts:   opts,
	}
}

func (s *userService) Register(ctx context.Context, payload any) (*domain.User, error) {
	req, err := validation.Registration(payload)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrUserAlreadyExists
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.opts.RedactHash {
		return sanitizeUser(user), nil
	}
	return user, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
