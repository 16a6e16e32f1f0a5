package models

import (
	"context"
	"time"
)

// Model defines the base interface for all persistent models in the catalog.
type Model interface {
	Identifier() string // Identifier returns the unique identifier for this model
	Validate() error    // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle store interactions for specific model types.
//
// Get and List return documents with their references populated.
// Get, Update and Delete return an error wrapping shared.ErrNotFound when no document matches.
type Repository[T Model] interface {
	// Create assigns an ID and timestamps and inserts the model
	Create(ctx context.Context, model T) error
	// Get retrieves a model by its ID
	Get(ctx context.Context, id string) (T, error)
	// Update replaces the mutable fields of an existing model
	Update(ctx context.Context, model T) error
	// Delete hard-deletes a model by its ID, without cascading
	Delete(ctx context.Context, id string) error
	// List retrieves a page of models and the total count
	List(ctx context.Context, opts ListOptions) ([]T, int, error)
	// Exists reports whether a model with the ID is stored
	Exists(ctx context.Context, id string) (bool, error)
}

// TrackRepository extends [Repository] with the favorite toggle, which stores apply atomically.
type TrackRepository interface {
	Repository[*Track]
	ToggleFavorite(ctx context.Context, id string) (*Track, error)
}

// UserRepository defines persistence for [User] accounts.
//
// Create returns an error wrapping shared.ErrConflict when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Store bundles the repositories of one storage backend.
type Store interface {
	Artists() Repository[*Artist]
	Albums() Repository[*Album]
	Tracks() TrackRepository
	Users() UserRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Timestamps holds creation and modification times shared by all entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch sets both timestamps for a new entity.
func (t *Timestamps) Touch(now time.Time) {
	now = now.UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}
