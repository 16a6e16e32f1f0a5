// Package services holds the catalog and account operations behind the HTTP handlers and CLI commands.
//
// # Catalog
//
// [Catalog] wraps a [models.Store] and adds what the repositories do not know about:
//   - path id format checks ([shared.ErrInvalidID], "Invalid <Resource> ID format")
//   - reference validation before albums and tracks are written
//   - partial updates through the *Patch types
//   - re-reading written documents so responses always carry populated references
//
// Track references are checked in a fixed order, each step short-circuiting:
// artist id format, artist existence, album id format, album existence, then field validation.
// Nothing is persisted when a step fails.
//
// # Accounts
//
// [Accounts] implements signup and login against a [models.UserRepository], hashing passwords with bcrypt
// and issuing tokens through an [auth.TokenService].
//
// # Error Handling
//
// Every failure a client should see is a [shared.Error] wrapping one of:
//   - [shared.ErrValidation] : missing or malformed field
//   - [shared.ErrInvalidID] : malformed id in a path or reference
//   - [shared.ErrNotFound] : unknown id, or a referenced document that does not exist
//   - [shared.ErrConflict] : email already registered
//   - [shared.ErrInvalidCredentials] : wrong email or password
//
// Anything else is a store failure and is returned wrapped.
package services
