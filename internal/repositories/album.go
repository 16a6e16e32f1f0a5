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

// albumSelect joins each album with its artist so the reference comes back populated.
const albumSelect = `
	SELECT al.id, al.title, al.artist_id, al.release_year, al.genre, al.created_at, al.updated_at,
		ar.id, ar.name, ar.genre
	FROM albums al
	LEFT JOIN artists ar ON ar.id = al.artist_id
`

// AlbumRepository implements [models.Repository] for [models.Album].
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create inserts a new album with a generated ID and sequence
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(ctx, r.db, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	album.ID = shared.GenerateID()
	album.Touch(time.Now())

	query := `
		INSERT INTO albums (id, sequence, title, artist_id, release_year, genre, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		album.ID,
		sequence,
		album.Title,
		album.Artist.ID,
		album.ReleaseYear,
		album.Genre,
		album.CreatedAt,
		album.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	return nil
}

// Get retrieves an album by ID with its artist populated
func (r *AlbumRepository) Get(ctx context.Context, id string) (*models.Album, error) {
	album, err := scanAlbum(r.db.QueryRowContext(ctx, albumSelect+" WHERE al.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("Album")
	}
	return album, err
}

// Update replaces the mutable fields of an existing album
func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}

	album.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE albums
		SET title = ?, artist_id = ?, release_year = ?, genre = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		album.Title,
		album.Artist.ID,
		album.ReleaseYear,
		album.Genre,
		album.UpdatedAt,
		album.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}

	return affected(result, "Album")
}

// Delete removes an album. Tracks referencing it are kept.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, "albums", "Album", id)
}

// List retrieves a page of albums in creation order with the total count
func (r *AlbumRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Album, int, error) {
	total, err := count(ctx, r.db, "albums")
	if err != nil {
		return nil, 0, err
	}

	query, args := paginate(albumSelect+" ORDER BY al.sequence ASC", opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := []*models.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, 0, err
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return albums, total, nil
}

// Exists reports whether an album with the ID is stored
func (r *AlbumRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "albums", id)
}

func scanAlbum(row scanner) (*models.Album, error) {
	var (
		album    models.Album
		artistID string
		artist   joinedArtist
	)

	err := row.Scan(
		&album.ID, &album.Title, &artistID, &album.ReleaseYear, &album.Genre, &album.CreatedAt, &album.UpdatedAt,
		&artist.id, &artist.name, &artist.genre,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}

	album.Artist = models.RefTo[models.ArtistSummary](artistID)
	album.Artist.Resolve(artist.summary())
	return &album, nil
}

// joinedArtist holds the nullable artist columns of a LEFT JOIN.
type joinedArtist struct {
	id, name, genre sql.NullString
}

func (j joinedArtist) summary() *models.ArtistSummary {
	if !j.id.Valid {
		return nil
	}
	return &models.ArtistSummary{ID: j.id.String, Name: j.name.String, Genre: j.genre.String}
}

// joinedAlbum holds the nullable album columns of a LEFT JOIN.
type joinedAlbum struct {
	id, title, genre sql.NullString
	releaseYear      sql.NullInt64
}

func (j joinedAlbum) summary() *models.AlbumSummary {
	if !j.id.Valid {
		return nil
	}
	return &models.AlbumSummary{
		ID:          j.id.String,
		Title:       j.title.String,
		ReleaseYear: int(j.releaseYear.Int64),
		Genre:       j.genre.String,
	}
}
