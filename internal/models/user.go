package models

import (
	"net/mail"
	"strings"

	"github.com/desertthunder/tunebase/internal/shared"
)

// User is an account. The password is only ever held as a bcrypt hash and never serialized.
type User struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Timestamps
}

func (u *User) Identifier() string { return u.ID }

// Validate checks the email format and that a hash is present.
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return shared.Required("Password")
	}
	return nil
}

// ValidateEmail checks that email is present and parses as an address.
func ValidateEmail(email string) error {
	if email == "" {
		return shared.Required("Email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewError(shared.ErrValidation, "Email is invalid.")
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Credentials is the request body for signup and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
