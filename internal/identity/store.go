package identity

import (
	"context"

	id "foundry/pkg/domain"
)

// Store persists users. Implementations return sentinel errors
// (sentinel.ErrNotFound, sentinel.ErrAlreadyExists); the service translates
// them into domain errors.
type Store interface {
	// Create inserts the user, failing with sentinel.ErrAlreadyExists when
	// the email is taken. Uniqueness is the store's job (index or mutex),
	// not an advisory pre-check.
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}
