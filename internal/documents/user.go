package documents

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Timestamps:   models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
}

// UserRepository implements [models.UserRepository] on the users collection.
//
// Email uniqueness is enforced by a unique index created in [Store.EnsureIndexes].
type UserRepository struct {
	col *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return err
	}

	oid := primitive.NewObjectID()
	user.Touch(time.Now())

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	doc := userDoc{ID: oid, Email: user.Email, PasswordHash: user.PasswordHash, CreatedAt: user.CreatedAt, UpdatedAt: user.UpdatedAt}
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return shared.NewError(shared.ErrConflict, "User already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.ID = oid.Hex()
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, shared.NotFound("User")
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var doc userDoc
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if isNoDocuments(err) {
		return nil, shared.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return doc.model(), nil
}
