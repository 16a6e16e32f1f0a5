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

// trackSelect joins each track with its artist and album so both references come back populated.
const trackSelect = `
	SELECT t.id, t.title, t.artist_id, t.album_id, t.duration, t.cover_image, t.favorite, t.created_at, t.updated_at,
		ar.id, ar.name, ar.genre,
		al.id, al.title, al.release_year, al.genre
	FROM tracks t
	LEFT JOIN artists ar ON ar.id = t.artist_id
	LEFT JOIN albums al ON al.id = t.album_id
`

// TrackRepository implements [models.TrackRepository].
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new track with a generated ID and sequence
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	if err := track.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	track.ID = shared.GenerateID()
	track.Touch(time.Now())

	query := `
		INSERT INTO tracks (id, sequence, title, artist_id, album_id, duration, cover_image, favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		track.ID,
		sequence,
		track.Title,
		nullString(track.Artist.ID),
		nullString(track.Album.ID),
		track.Duration,
		nullString(track.CoverImage),
		track.Favorite,
		track.CreatedAt,
		track.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID with its artist and album populated
func (r *TrackRepository) Get(ctx context.Context, id string) (*models.Track, error) {
	track, err := scanTrack(r.db.QueryRowContext(ctx, trackSelect+" WHERE t.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("Track")
	}
	return track, err
}

// Update replaces the mutable fields of an existing track
func (r *TrackRepository) Update(ctx context.Context, track *models.Track) error {
	if err := track.Validate(); err != nil {
		return err
	}

	track.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tracks
		SET title = ?, artist_id = ?, album_id = ?, duration = ?, cover_image = ?, favorite = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		track.Title,
		nullString(track.Artist.ID),
		nullString(track.Album.ID),
		track.Duration,
		nullString(track.CoverImage),
		track.Favorite,
		track.UpdatedAt,
		track.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return affected(result, "Track")
}

// ToggleFavorite flips the favorite flag in a single statement and returns the updated track.
func (r *TrackRepository) ToggleFavorite(ctx context.Context, id string) (*models.Track, error) {
	query := `
		UPDATE tracks
		SET favorite = NOT favorite, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if err := affected(result, "Track"); err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes a track
func (r *TrackRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, "tracks", "Track", id)
}

// List retrieves a page of tracks in creation order with the total count
func (r *TrackRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Track, int, error) {
	total, err := count(ctx, r.db, "tracks")
	if err != nil {
		return nil, 0, err
	}

	query, args := paginate(trackSelect+" ORDER BY t.sequence ASC", opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []*models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, 0, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, total, nil
}

// Exists reports whether a track with the ID is stored
func (r *TrackRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "tracks", id)
}

func scanTrack(row scanner) (*models.Track, error) {
	var (
		track      models.Track
		artistID   sql.NullString
		albumID    sql.NullString
		coverImage sql.NullString
		artist     joinedArtist
		album      joinedAlbum
	)

	err := row.Scan(
		&track.ID, &track.Title, &artistID, &albumID, &track.Duration, &coverImage, &track.Favorite,
		&track.CreatedAt, &track.UpdatedAt,
		&artist.id, &artist.name, &artist.genre,
		&album.id, &album.title, &album.releaseYear, &album.genre,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track.CoverImage = coverImage.String
	track.Artist = models.RefTo[models.ArtistSummary](artistID.String)
	track.Album = models.RefTo[models.AlbumSummary](albumID.String)
	if artistID.Valid {
		track.Artist.Resolve(artist.summary())
	}
	if albumID.Valid {
		track.Album.Resolve(album.summary())
	}

	return &track, nil
}
