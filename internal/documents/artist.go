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

type artistDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Genre     string             `bson:"genre"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
	Albums    []albumDoc         `bson:"albums,omitempty"`
}

func (d artistDoc) model() *models.Artist {
	artist := &models.Artist{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Genre:      d.Genre,
		Albums:     make([]models.AlbumSummary, 0, len(d.Albums)),
		Timestamps: models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
	for _, album := range d.Albums {
		artist.Albums = append(artist.Albums, album.summary())
	}
	return artist
}

func (d artistDoc) summary() *models.ArtistSummary {
	return &models.ArtistSummary{ID: d.ID.Hex(), Name: d.Name, Genre: d.Genre}
}

// ArtistRepository implements [models.Repository] for [models.Artist] on the artists collection.
type ArtistRepository struct {
	col    *mongo.Collection
	albums *mongo.Collection
}

func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}

	oid := primitive.NewObjectID()
	artist.Touch(time.Now())

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	doc := artistDoc{ID: oid, Name: artist.Name, Genre: artist.Genre, CreatedAt: artist.CreatedAt, UpdatedAt: artist.UpdatedAt}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	artist.ID = oid.Hex()
	if artist.Albums == nil {
		artist.Albums = []models.AlbumSummary{}
	}
	return nil
}

func (r *ArtistRepository) Get(ctx context.Context, id string) (*models.Artist, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, shared.NotFound("Artist")
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": oid}}}, r.albumsLookup()}
	docs, err := aggregate[artistDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist: %w", err)
	}
	if len(docs) == 0 {
		return nil, shared.NotFound("Artist")
	}
	return docs[0].model(), nil
}

func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}
	oid, ok := objectID(artist.ID)
	if !ok {
		return shared.NotFound("Artist")
	}

	artist.UpdatedAt = time.Now().UTC()
	doc := artistDoc{ID: oid, Name: artist.Name, Genre: artist.Genre, CreatedAt: artist.CreatedAt, UpdatedAt: artist.UpdatedAt}
	return replaceByID(ctx, r.col, "Artist", oid, doc)
}

func (r *ArtistRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, "Artist", id)
}

func (r *ArtistRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Artist, int, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count artists: %w", err)
	}

	pipeline := append(mongo.Pipeline{creationOrder}, pageStages(opts)...)
	pipeline = append(pipeline, r.albumsLookup())

	docs, err := aggregate[artistDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query artists: %w", err)
	}

	artists := make([]*models.Artist, 0, len(docs))
	for _, doc := range docs {
		artists = append(artists, doc.model())
	}
	return artists, int(total), nil
}

func (r *ArtistRepository) Exists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.col, id)
}

// albumsLookup joins the artist's albums in creation order.
func (r *ArtistRepository) albumsLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: r.albums.Name()},
		{Key: "let", Value: bson.D{{Key: "artistId", Value: "$_id"}}},
		{Key: "pipeline", Value: mongo.Pipeline{
			{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$artist", "$$artistId"}}}}}}},
			creationOrder,
		}},
		{Key: "as", Value: "albums"},
	}}}
}
