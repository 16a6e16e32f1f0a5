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

const artistColumns = "id, name, genre, created_at, updated_at"

// ArtistRepository implements [models.Repository] for [models.Artist].
//
// Reads attach the artist's albums, ordered by creation.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new artist with a generated ID and sequence
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	artist.ID = shared.GenerateID()
	artist.Touch(time.Now())
	if artist.Albums == nil {
		artist.Albums = []models.AlbumSummary{}
	}

	query := `
		INSERT INTO artists (id, sequence, name, genre, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query, artist.ID, sequence, artist.Name, artist.Genre, artist.CreatedAt, artist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by ID with its albums
func (r *ArtistRepository) Get(ctx context.Context, id string) (*models.Artist, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE id = ?"

	artist, err := scanArtist(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("Artist")
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachAlbums(ctx, []*models.Artist{artist}); err != nil {
		return nil, err
	}
	return artist, nil
}

// Update replaces the name and genre of an existing artist
func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}

	artist.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE artists
		SET name = ?, genre = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, artist.Name, artist.Genre, artist.UpdatedAt, artist.ID)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	return affected(result, "Artist")
}

// Delete removes an artist. Albums and tracks referencing it are kept.
func (r *ArtistRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, "artists", "Artist", id)
}

// List retrieves a page of artists in creation order with the total count
func (r *ArtistRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Artist, int, error) {
	total, err := count(ctx, r.db, "artists")
	if err != nil {
		return nil, 0, err
	}

	query, args := paginate("SELECT "+artistColumns+" FROM artists ORDER BY sequence ASC", opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query artists: %w", err)
	}

	artists := []*models.Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	if err := r.attachAlbums(ctx, artists); err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}

// Exists reports whether an artist with the ID is stored
func (r *ArtistRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "artists", id)
}

// attachAlbums loads the albums of every artist in one query.
//
// Callers must have closed any open rows first.
func (r *ArtistRepository) attachAlbums(ctx context.Context, artists []*models.Artist) error {
	if len(artists) == 0 {
		return nil
	}

	byID := make(map[string]*models.Artist, len(artists))
	args := make([]any, 0, len(artists))
	for _, a := range artists {
		a.Albums = []models.AlbumSummary{}
		byID[a.ID] = a
		args = append(args, a.ID)
	}

	query := fmt.Sprintf(`
		SELECT id, artist_id, title, release_year, genre
		FROM albums
		WHERE artist_id IN (%s)
		ORDER BY sequence ASC
	`, placeholders(len(args)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query artist albums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			album    models.AlbumSummary
			artistID string
		)
		if err := rows.Scan(&album.ID, &artistID, &album.Title, &album.ReleaseYear, &album.Genre); err != nil {
			return fmt.Errorf("failed to scan artist album: %w", err)
		}
		if a, ok := byID[artistID]; ok {
			a.Albums = append(a.Albums, album)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func scanArtist(row scanner) (*models.Artist, error) {
	artist := &models.Artist{Albums: []models.AlbumSummary{}}

	err := row.Scan(&artist.ID, &artist.Name, &artist.Genre, &artist.CreatedAt, &artist.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}
	return artist, nil
}
