package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunebase/internal/auth"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Session is returned by signup and login.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Accounts implements signup and login.
type Accounts struct {
	users      models.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
	logger     *log.Logger
}

// NewAccounts creates an Accounts service hashing passwords at bcryptCost. A nil logger discards output.
func NewAccounts(users models.UserRepository, tokens *auth.TokenService, bcryptCost int, logger *log.Logger) *Accounts {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Accounts{users: users, tokens: tokens, bcryptCost: bcryptCost, logger: logger.WithPrefix("accounts")}
}

// Signup registers a new account and signs the caller in.
func (a *Accounts) Signup(ctx context.Context, creds models.Credentials) (*Session, error) {
	user, err := a.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	return a.session(user)
}

// Register creates an account without issuing a token.
func (a *Accounts) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	email := models.NormalizeEmail(creds.Email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if creds.Password == "" {
		return nil, shared.Required("Password")
	}

	hash, err := auth.HashPassword(creds.Password, a.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			a.logger.Warn("signup with registered email", "email", email)
		}
		return nil, err
	}

	a.logger.Info("registered user", "id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks credentials and issues a token.
//
// Unknown emails and wrong passwords fail identically.
func (a *Accounts) Login(ctx context.Context, creds models.Credentials) (*Session, error) {
	invalid := shared.NewError(shared.ErrInvalidCredentials, "Invalid email or password.")

	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, invalid
	}

	user, err := a.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, shared.ErrNotFound) {
		a.logger.Warn("login for unknown email")
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		a.logger.Warn("login with wrong password", "id", user.ID)
		return nil, invalid
	}

	return a.session(user)
}

// Me returns the account behind an authenticated user id.
func (a *Accounts) Me(ctx context.Context, userID string) (*models.User, error) {
	return a.users.Get(ctx, userID)
}

// IssueToken signs a token for an existing account.
func (a *Accounts) IssueToken(ctx context.Context, email string) (*Session, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return a.session(user)
}

func (a *Accounts) session(user *models.User) (*Session, error) {
	token, expiresAt, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, UserID: user.ID, ExpiresAt: expiresAt}, nil
}
