package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give listings a stable creation order independent of the hex IDs.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Store implements [models.Store] on a SQLite database.
type Store struct {
	db      *sql.DB
	artists *ArtistRepository
	albums  *AlbumRepository
	tracks  *TrackRepository
	users   *UserRepository
}

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		artists: NewArtistRepository(db),
		albums:  NewAlbumRepository(db),
		tracks:  NewTrackRepository(db),
		users:   NewUserRepository(db),
	}
}

func (s *Store) Artists() models.Repository[*models.Artist] { return s.artists }
func (s *Store) Albums() models.Repository[*models.Album] { return s.albums }
func (s *Store) Tracks() models.TrackRepository { return s.tracks }
func (s *Store) Users() models.UserRepository { return s.users }

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnhealthy, err)
	}
	return nil
}

func (s *Store) Close(context.Context) error { return s.db.Close() }

// count returns the number of rows in table.
func count(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// exists reports whether table has a row with id.
func exists(ctx context.Context, db *sql.DB, table, id string) (bool, error) {
	var ok bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table)
	if err := db.QueryRowContext(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return ok, nil
}

// remove hard-deletes the row with id from table.
func remove(ctx context.Context, db *sql.DB, table, resource, id string) error {
	result, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return affected(result, resource)
}

// affected maps a zero-row update or delete to a not-found error.
func affected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return shared.NotFound(resource)
	}
	return nil
}

// paginate appends a LIMIT/OFFSET clause when opts carries a limit.
func paginate(query string, opts models.ListOptions) (string, []any) {
	if !opts.Paginated() {
		return query, nil
	}
	return query + " LIMIT ? OFFSET ?", []any{opts.Limit, opts.Offset()}
}

// placeholders returns "?, ?, ..." for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
