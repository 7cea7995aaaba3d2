package hashing

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for new registrations.
const DefaultCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer inputs are truncated
// on both hash and compare so they keep verifying.
const maxPasswordBytes = 72

// Hasher computes bcrypt hashes on a bounded number of concurrent slots.
type Hasher struct {
	cost int
	sem  chan struct{}
}

func New(cost, workers int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Hasher{
		cost: cost,
		sem:  make(chan struct{}, workers),
	}
}

// Hash waits for a free slot, then hashes the password to completion.
// Only the wait observes ctx.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return "", fmt.Errorf("wait for hash slot: %w", ctx.Err())
	}
	defer func() { <-h.sem }()

	hashed, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether password matches a hash produced by Hash.
func (h *Hasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password))
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
