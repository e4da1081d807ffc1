package identity

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "foundry/pkg/domain-errors"
)

const minPasswordLength = 8

// HashPassword bcrypt-hashes a password after length checks. bcrypt caps
// input at 72 bytes, so the upper bound is enforced here rather than
// surfacing as a library error.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext password against a stored hash. The
// error is deliberately generic so login cannot be used as an oracle.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	return nil
}
