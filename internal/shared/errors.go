package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrUnknownDriver  = fmt.Errorf("unknown database driver")
	ErrMissingSecret  = fmt.Errorf("missing signing secret")
	ErrStoreUnhealthy = fmt.Errorf("store unreachable")

	// Authentication errors
	ErrUnauthenticated    = fmt.Errorf("not authenticated")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrTokenExpired       = fmt.Errorf("access token expired")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Catalog errors
	ErrValidation = fmt.Errorf("validation failed")
	ErrNotFound   = fmt.Errorf("not found")
	ErrInvalidID  = fmt.Errorf("invalid id format")
	ErrConflict   = fmt.Errorf("already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// Error is a failure whose message is safe to show to API clients.
//
// It wraps one of the sentinel errors above so callers can branch with [errors.Is].
type Error struct {
	kind error
	msg  string
}

// NewError creates an [Error] of the given sentinel kind with a client-facing message.
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Errorf is [NewError] with a formatted message.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

// Message returns the client-facing message of err when it is (or wraps) an [Error].
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.msg, true
	}
	return "", false
}

// NotFound builds the "<Resource> not found." error.
func NotFound(resource string) *Error {
	return Errorf(ErrNotFound, "%s not found.", resource)
}

// InvalidID builds the "Invalid <Resource> ID format" error.
func InvalidID(resource string) *Error {
	return Errorf(ErrInvalidID, "Invalid %s ID format", resource)
}

// Required builds the "<Field> is required." validation error.
func Required(field string) *Error {
	return Errorf(ErrValidation, "%s is required.", field)
}
