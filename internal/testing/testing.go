// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/repositories"
	"github.com/desertthunder/tunebase/internal/shared"
)

// NewTestStore returns a store on a migrated in-memory SQLite database, closed when the test ends.
func NewTestStore(t *testing.T) *repositories.Store {
	t.Helper()

	ctx := context.Background()
	db, err := shared.NewDatabase(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	store := repositories.NewStore(db)
	t.Cleanup(func() { store.Close(ctx) })
	return store
}

// Fixture is a small catalog: one artist with one album holding one track.
type Fixture struct {
	Artist *models.Artist
	Album  *models.Album
	Track  *models.Track
}

// Seed writes a [Fixture] into store.
func Seed(t *testing.T, store models.Store) Fixture {
	t.Helper()
	ctx := context.Background()

	artist := models.ArtistInput{Name: "Radiohead", Genre: "Alternative"}.Artist()
	if err := store.Artists().Create(ctx, artist); err != nil {
		t.Fatalf("failed to seed artist: %v", err)
	}

	album := models.AlbumInput{Title: "OK Computer", Artist: artist.ID, ReleaseYear: 1997, Genre: "Alternative"}.Album()
	if err := store.Albums().Create(ctx, album); err != nil {
		t.Fatalf("failed to seed album: %v", err)
	}

	track := models.TrackInput{
		Title:      "Paranoid Android",
		Artist:     artist.ID,
		Album:      album.ID,
		Duration:   387,
		CoverImage: "https://example.com/okc.jpg",
	}.Track()
	if err := store.Tracks().Create(ctx, track); err != nil {
		t.Fatalf("failed to seed track: %v", err)
	}

	return Fixture{Artist: artist, Album: album, Track: track}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if err == nil && !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}
