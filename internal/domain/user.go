package domain

import "time"

// User is the persisted account record. PasswordHash travels as "password"
// on the wire because the store receives the hash under that name.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegistrationRequest is the validated input of a single sign-up attempt.
// It lives for one request and is never stored.
type RegistrationRequest struct {
	Name     string
	Email    string
	Password string
}
