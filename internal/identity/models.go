// Package identity owns accounts: signup, credentials login, and profile
// management. Roles gate what the rest of the directory allows a caller to
// do; the admin role is seeded out of band and never claimable at signup.
package identity

import (
	"net/mail"
	"strings"
	"time"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

// User is a registered account.
//
// Invariants:
//   - Email is unique (case-insensitive) and well-formed
//   - PasswordHash is always a bcrypt hash, never the raw password
//   - Role is one of admin, startup_owner, user
type User struct {
	ID           id.UserID `json:"id"`
	FullName     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         id.Role   `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser validates signup input and builds a user with a hashed password.
func NewUser(fullName, email, password string, role id.Role, now time.Time) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) < 2 || len(fullName) > 100 {
		return nil, dErrors.New(dErrors.CodeValidation, "fullname must be between 2 and 100 characters")
	}
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	if !role.Valid() || !role.AssignableAtSignup() {
		return nil, dErrors.New(dErrors.CodeValidation, "role must be user or startup_owner")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           id.NewUserID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and trims an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
