package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/tunebase/internal/shared"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// HashPassword hashes password with bcrypt at cost, falling back to [bcrypt.DefaultCost] when cost is out of range.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", shared.Errorf(shared.ErrValidation, "Password must be at least %d characters.", MinPasswordLength)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", shared.NewError(shared.ErrValidation, "Password is too long.")
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
