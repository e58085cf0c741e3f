package users

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound indicates no user record matched the lookup.
	ErrUserNotFound = errors.New("users: user not found")
	// ErrDuplicateUser indicates a uniqueness violation on clerk id, email or username.
	ErrDuplicateUser = errors.New("users: duplicate user")
)

// Store abstracts user persistence. The in-memory implementation exists for
// tests and local development; production wiring uses the gorm-backed store.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByClerkID(ctx context.Context, clerkID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, id string, patch ProfileUpdate) (*User, error)
}
