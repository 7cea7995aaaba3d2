// Package memory keeps users in process memory. It backs tests and the
// "memory" database driver.
package memory

import (
	"context"
	"sync"
	"time"

	"signup-service/internal/domain"
	"signup-service/internal/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]domain.User
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]domain.User)}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return nil
}

// Create checks and inserts under one lock.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return 0, repository.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byEmail[user.Email] = *user
	return user.ID, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

// Len reports how many users are stored.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
