package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Store implements [models.Store] on a MongoDB database.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	artists *ArtistRepository
	albums  *AlbumRepository
	tracks  *TrackRepository
	users   *UserRepository
}

// Connect dials uri, verifies the connection and ensures indexes on database name.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnhealthy, err)
	}

	store := NewStore(client, client.Database(name))
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

// NewStore wraps an already connected client.
func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:  client,
		db:      db,
		artists: &ArtistRepository{col: db.Collection("artists"), albums: db.Collection("albums")},
		albums:  &AlbumRepository{col: db.Collection("albums")},
		tracks:  &TrackRepository{col: db.Collection("tracks")},
		users:   &UserRepository{col: db.Collection("users")},
	}
}

// EnsureIndexes creates the unique email index and the reference lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"albums": {
			{Keys: bson.D{{Key: "artist", Value: 1}}},
		},
		"tracks": {
			{Keys: bson.D{{Key: "artist", Value: 1}}},
			{Keys: bson.D{{Key: "album", Value: 1}}},
		},
	}

	for collection, specs := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}
	return nil
}

func (s *Store) Artists() models.Repository[*models.Artist] { return s.artists }
func (s *Store) Albums() models.Repository[*models.Album] { return s.albums }
func (s *Store) Tracks() models.TrackRepository { return s.tracks }
func (s *Store) Users() models.UserRepository { return s.users }

// Database exposes the underlying database, used by tests to drop it.
func (s *Store) Database() *mongo.Database { return s.db }

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnhealthy, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// objectID parses a hex id. Malformed ids can never match a document.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// optionalID parses an optional reference; the empty string maps to nil.
func optionalID(id string) *primitive.ObjectID {
	if oid, ok := objectID(id); ok {
		return &oid
	}
	return nil
}

func hexOf(oid *primitive.ObjectID) string {
	if oid == nil {
		return ""
	}
	return oid.Hex()
}

// pageStages returns $skip/$limit stages for opts.
func pageStages(opts models.ListOptions) mongo.Pipeline {
	if !opts.Paginated() {
		return nil
	}
	return mongo.Pipeline{
		{{Key: "$skip", Value: int64(opts.Offset())}},
		{{Key: "$limit", Value: int64(opts.Limit)}},
	}
}

// creationOrder sorts oldest first, breaking ties on _id.
var creationOrder = bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}}

// lookup joins the documents of from whose _id equals localField into as.
func lookup(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

// aggregate runs pipeline against col and decodes every result into T.
func aggregate[T any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

// deleteByID removes one document, mapping a miss to a not-found error.
func deleteByID(ctx context.Context, col *mongo.Collection, resource, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return shared.NotFound(resource)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", col.Name(), err)
	}
	if result.DeletedCount == 0 {
		return shared.NotFound(resource)
	}
	return nil
}

// existsByID reports whether col holds a document with id.
func existsByID(ctx context.Context, col *mongo.Collection, id string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", col.Name(), err)
	}
	return n > 0, nil
}

// replaceByID overwrites the document with doc, mapping a miss to a not-found error.
func replaceByID(ctx context.Context, col *mongo.Collection, resource string, oid primitive.ObjectID, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", col.Name(), err)
	}
	if result.MatchedCount == 0 {
		return shared.NotFound(resource)
	}
	return nil
}

func isNoDocuments(err error) bool { return errors.Is(err, mongo.ErrNoDocuments) }
