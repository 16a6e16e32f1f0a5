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

type albumDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Artist      primitive.ObjectID `bson:"artist"`
	ReleaseYear int                `bson:"releaseYear"`
	Genre       string             `bson:"genre"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	ArtistDocs  []artistDoc        `bson:"artistDocs,omitempty"`
}

func newAlbumDoc(album *models.Album, oid primitive.ObjectID) albumDoc {
	doc := albumDoc{
		ID:          oid,
		Title:       album.Title,
		ReleaseYear: album.ReleaseYear,
		Genre:       album.Genre,
		CreatedAt:   album.CreatedAt,
		UpdatedAt:   album.UpdatedAt,
	}
	if artist, ok := objectID(album.Artist.ID); ok {
		doc.Artist = artist
	}
	return doc
}

func (d albumDoc) model() *models.Album {
	album := &models.Album{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Artist:      models.RefTo[models.ArtistSummary](d.Artist.Hex()),
		ReleaseYear: d.ReleaseYear,
		Genre:       d.Genre,
		Timestamps:  models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
	if len(d.ArtistDocs) > 0 {
		album.Artist.Resolve(d.ArtistDocs[0].summary())
	} else {
		album.Artist.Resolve(nil)
	}
	return album
}

func (d albumDoc) summary() models.AlbumSummary {
	return models.AlbumSummary{ID: d.ID.Hex(), Title: d.Title, ReleaseYear: d.ReleaseYear, Genre: d.Genre}
}

// AlbumRepository implements [models.Repository] for [models.Album] on the albums collection.
type AlbumRepository struct {
	col *mongo.Collection
}

func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}
	if _, ok := objectID(album.Artist.ID); !ok {
		return shared.InvalidID("Artist")
	}

	oid := primitive.NewObjectID()
	album.Touch(time.Now())

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newAlbumDoc(album, oid)); err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	album.ID = oid.Hex()
	return nil
}

func (r *AlbumRepository) Get(ctx context.Context, id string) (*models.Album, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, shared.NotFound("Album")
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": oid}}}, lookup("artists", "artist", "artistDocs")}
	docs, err := aggregate[albumDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query album: %w", err)
	}
	if len(docs) == 0 {
		return nil, shared.NotFound("Album")
	}
	return docs[0].model(), nil
}

func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}
	oid, ok := objectID(album.ID)
	if !ok {
		return shared.NotFound("Album")
	}
	if _, ok := objectID(album.Artist.ID); !ok {
		return shared.InvalidID("Artist")
	}

	album.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.col, "Album", oid, newAlbumDoc(album, oid))
}

func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, "Album", id)
}

func (r *AlbumRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Album, int, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count albums: %w", err)
	}

	pipeline := append(mongo.Pipeline{creationOrder}, pageStages(opts)...)
	pipeline = append(pipeline, lookup("artists", "artist", "artistDocs"))

	docs, err := aggregate[albumDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query albums: %w", err)
	}

	albums := make([]*models.Album, 0, len(docs))
	for _, doc := range docs {
		albums = append(albums, doc.model())
	}
	return albums, int(total), nil
}

func (r *AlbumRepository) Exists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.col, id)
}
