package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates the unique email constraint rejected an insert.
	ErrDuplicateEmail = errors.New("repository: email already exists")
)
