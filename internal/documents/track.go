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

type trackDoc struct {
	ID         primitive.ObjectID  `bson:"_id"`
	Title      string              `bson:"title"`
	Artist     *primitive.ObjectID `bson:"artist,omitempty"`
	Album      *primitive.ObjectID `bson:"album,omitempty"`
	Duration   float64             `bson:"duration"`
	CoverImage string              `bson:"coverImage,omitempty"`
	Favorite   bool                `bson:"favorite"`
	CreatedAt  time.Time           `bson:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt"`
	ArtistDocs []artistDoc         `bson:"artistDocs,omitempty"`
	AlbumDocs  []albumDoc          `bson:"albumDocs,omitempty"`
}

func newTrackDoc(track *models.Track, oid primitive.ObjectID) trackDoc {
	return trackDoc{
		ID:         oid,
		Title:      track.Title,
		Artist:     optionalID(track.Artist.ID),
		Album:      optionalID(track.Album.ID),
		Duration:   track.Duration,
		CoverImage: track.CoverImage,
		Favorite:   track.Favorite,
		CreatedAt:  track.CreatedAt,
		UpdatedAt:  track.UpdatedAt,
	}
}

func (d trackDoc) model() *models.Track {
	track := &models.Track{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Artist:     models.RefTo[models.ArtistSummary](hexOf(d.Artist)),
		Album:      models.RefTo[models.AlbumSummary](hexOf(d.Album)),
		Duration:   d.Duration,
		CoverImage: d.CoverImage,
		Favorite:   d.Favorite,
		Timestamps: models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}

	if d.Artist != nil {
		var artist *models.ArtistSummary
		if len(d.ArtistDocs) > 0 {
			artist = d.ArtistDocs[0].summary()
		}
		track.Artist.Resolve(artist)
	}
	if d.Album != nil {
		var album *models.AlbumSummary
		if len(d.AlbumDocs) > 0 {
			summary := d.AlbumDocs[0].summary()
			album = &summary
		}
		track.Album.Resolve(album)
	}
	return track
}

// TrackRepository implements [models.TrackRepository] on the tracks collection.
type TrackRepository struct {
	col *mongo.Collection
}

// populate joins both references of each track.
func (r *TrackRepository) populate() mongo.Pipeline {
	return mongo.Pipeline{
		lookup("artists", "artist", "artistDocs"),
		lookup("albums", "album", "albumDocs"),
	}
}

func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	if err := track.Validate(); err != nil {
		return err
	}

	oid := primitive.NewObjectID()
	track.Touch(time.Now())

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newTrackDoc(track, oid)); err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	track.ID = oid.Hex()
	return nil
}

func (r *TrackRepository) Get(ctx context.Context, id string) (*models.Track, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, shared.NotFound("Track")
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	pipeline := append(mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": oid}}}}, r.populate()...)
	docs, err := aggregate[trackDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query track: %w", err)
	}
	if len(docs) == 0 {
		return nil, shared.NotFound("Track")
	}
	return docs[0].model(), nil
}

func (r *TrackRepository) Update(ctx context.Context, track *models.Track) error {
	if err := track.Validate(); err != nil {
		return err
	}
	oid, ok := objectID(track.ID)
	if !ok {
		return shared.NotFound("Track")
	}

	track.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.col, "Track", oid, newTrackDoc(track, oid))
}

// ToggleFavorite negates the stored flag with an update pipeline so concurrent toggles never lose a flip.
func (r *TrackRepository) ToggleFavorite(ctx context.Context, id string) (*models.Track, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, shared.NotFound("Track")
	}

	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "favorite", Value: bson.D{{Key: "$not", Value: bson.A{"$favorite"}}}},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := r.col.FindOneAndUpdate(writeCtx, bson.M{"_id": oid}, update).Err()
	if isNoDocuments(err) {
		return nil, shared.NotFound("Track")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *TrackRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, "Track", id)
}

func (r *TrackRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Track, int, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	pipeline := append(mongo.Pipeline{creationOrder}, pageStages(opts)...)
	pipeline = append(pipeline, r.populate()...)

	docs, err := aggregate[trackDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tracks: %w", err)
	}

	tracks := make([]*models.Track, 0, len(docs))
	for _, doc := range docs {
		tracks = append(tracks, doc.model())
	}
	return tracks, int(total), nil
}

func (r *TrackRepository) Exists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.col, id)
}
