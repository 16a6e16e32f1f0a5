package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/tunebase/internal/shared"
)

// DefaultTokenTTL is how long an issued token stays valid when no TTL is configured.
const DefaultTokenTTL = time.Hour

const bearerPrefix = "Bearer "

// Claims is the token payload.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access tokens with a shared secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a service signing with secret. A non-positive ttl falls back to [DefaultTokenTTL].
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, shared.ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source used for issuing and validating.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID and returns it with its expiry.
func (s *TokenService) Issue(userID string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of token and returns its claims.
//
// Failures are [shared.Error] values carrying "Token expired." or "Invalid token.".
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, shared.NewError(shared.ErrTokenExpired, "Token expired.")
	case err != nil:
		return nil, shared.NewError(shared.ErrInvalidToken, "Invalid token.")
	case claims.UserID == "":
		return nil, shared.NewError(shared.ErrInvalidToken, "Invalid token.")
	}
	return claims, nil
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>" header value.
//
// The scheme is case-sensitive and exactly one space separates it from the token.
func ExtractBearer(header string) (string, error) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", shared.NewError(shared.ErrUnauthenticated, "Unauthorized.")
	}
	return token, nil
}
