package documents

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// setupTestStore connects to the database named by TUNEBASE_TEST_MONGO_URI and drops it afterwards.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("TUNEBASE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TUNEBASE_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, uri, "tunebase_test_"+primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Database().Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func TestCatalogRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	artist := models.ArtistInput{Name: "Radiohead", Genre: "Rock"}.Artist()
	if err := store.Artists().Create(ctx, artist); err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	if !shared.ValidID(artist.ID) {
		t.Fatalf("expected object id, got %q", artist.ID)
	}

	album := models.AlbumInput{Title: "OK Computer", Artist: artist.ID, ReleaseYear: 1997, Genre: "Rock"}.Album()
	if err := store.Albums().Create(ctx, album); err != nil {
		t.Fatalf("failed to create album: %v", err)
	}

	track := models.TrackInput{Title: "Airbag", Artist: artist.ID, Album: album.ID, Duration: 284}.Track()
	if err := store.Tracks().Create(ctx, track); err != nil {
		t.Fatalf("failed to create track: %v", err)
	}

	gotArtist, err := store.Artists().Get(ctx, artist.ID)
	if err != nil {
		t.Fatalf("failed to get artist: %v", err)
	}
	if len(gotArtist.Albums) != 1 || gotArtist.Albums[0].Title != "OK Computer" {
		t.Errorf("expected album back-reference, got %+v", gotArtist.Albums)
	}

	gotTrack, err := store.Tracks().Get(ctx, track.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if gotTrack.Artist.Doc == nil || gotTrack.Album.Doc == nil {
		t.Fatalf("expected populated references, got %+v", gotTrack)
	}

	toggled, err := store.Tracks().ToggleFavorite(ctx, track.ID)
	if err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}
	if !toggled.Favorite {
		t.Error("expected favorite after toggle")
	}

	if err := store.Artists().Delete(ctx, artist.ID); err != nil {
		t.Fatalf("failed to delete artist: %v", err)
	}
	gotTrack, err = store.Tracks().Get(ctx, track.ID)
	if err != nil {
		t.Fatalf("track should survive artist deletion: %v", err)
	}
	if !gotTrack.Artist.Dangling {
		t.Errorf("expected dangling artist, got %+v", gotTrack.Artist)
	}

	tracks, total, err := store.Tracks().List(ctx, models.ListOptions{Page: 1, Limit: 10})
	if err != nil || total != 1 || len(tracks) != 1 {
		t.Errorf("unexpected list: total=%d err=%v", total, err)
	}
}

func TestUserUniqueness(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Users().Create(ctx, &models.User{Email: "a@example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	err := store.Users().Create(ctx, &models.User{Email: "A@Example.com", PasswordHash: "h"})
	if !errors.Is(err, shared.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	if _, err := store.Users().GetByEmail(ctx, "missing@example.com"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMalformedIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.Artists().Get(ctx, "nope"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	ok, err := store.Tracks().Exists(ctx, "nope")
	if err != nil || ok {
		t.Errorf("expected false without error, got %v %v", ok, err)
	}
}
