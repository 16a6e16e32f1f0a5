// Package auth issues and verifies HS256 access tokens, parses bearer headers and hashes passwords.
//
// The [TokenService] signs a token whose "id" claim is the account id; the same id is carried in "sub".
// Verification pins the signing method and requires an expiry.
package auth
