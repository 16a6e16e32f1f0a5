package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// UserRepository implements [models.UserRepository] for account persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with a generated ID and sequence.
//
// The email is normalized first; a taken address yields an error wrapping [shared.ErrConflict].
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	user.ID = shared.GenerateID()
	user.Touch(time.Now())

	query := `
		INSERT INTO users (id, sequence, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query, user.ID, sequence, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return shared.NewError(shared.ErrConflict, "User already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", models.NormalizeEmail(email))
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE %s = ?
	`, column)

	var user models.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
