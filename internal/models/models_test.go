package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/desertthunder/tunebase/internal/shared"
)

func TestRefJSON(t *testing.T) {
	populated := RefTo[ArtistSummary]("65f1c0ffee00000000000001")
	populated.Resolve(&ArtistSummary{ID: "65f1c0ffee00000000000001", Name: "Björk", Genre: "Electronic"})

	dangling := RefTo[ArtistSummary]("65f1c0ffee00000000000002")
	dangling.Resolve(nil)

	tests := []struct {
		name string
		ref  Ref[ArtistSummary]
		want string
	}{
		{"empty", Ref[ArtistSummary]{}, `null`},
		{"unpopulated", RefTo[ArtistSummary]("65f1c0ffee00000000000001"), `"65f1c0ffee00000000000001"`},
		{"populated", populated, `{"_id":"65f1c0ffee00000000000001","name":"Björk","genre":"Electronic"}`},
		{"dangling", dangling, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, data)
			}
		})
	}

	t.Run("dangling keeps its id", func(t *testing.T) {
		if dangling.ID == "" || dangling.Populated() {
			t.Errorf("unexpected dangling state: %+v", dangling)
		}
	})
}

func TestRefUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		id        string
		populated bool
		wantErr   bool
	}{
		{"null", `null`, "", false, false},
		{"id string", `"abc"`, "abc", false, false},
		{"document", `{"_id":"abc","name":"Björk"}`, "abc", true, false},
		{"number", `42`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref[ArtistSummary]
			err := json.Unmarshal([]byte(tt.input), &ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if tt.wantErr {
				return
			}
			if ref.ID != tt.id || ref.Populated() != tt.populated {
				t.Errorf("got %+v", ref)
			}
		})
	}
}

func TestTrackJSON(t *testing.T) {
	track := &Track{
		ID:       "65f1c0ffee00000000000003",
		Title:    "Hyperballad",
		Artist:   RefTo[ArtistSummary]("65f1c0ffee00000000000001"),
		Duration: 321,
	}
	track.Touch(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(track)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out["_id"] != track.ID {
		t.Errorf("expected _id %s, got %v", track.ID, out["_id"])
	}
	if out["artist"] != "65f1c0ffee00000000000001" {
		t.Errorf("expected bare artist id, got %v", out["artist"])
	}
	if out["album"] != nil {
		t.Errorf("expected null album, got %v", out["album"])
	}
	if out["favorite"] != false {
		t.Errorf("expected favorite false, got %v", out["favorite"])
	}
	if _, ok := out["coverImage"]; ok {
		t.Error("expected empty coverImage to be omitted")
	}
	if out["createdAt"] != "2024-01-02T03:04:05Z" {
		t.Errorf("unexpected createdAt %v", out["createdAt"])
	}
}

func TestUserJSONOmitsHash(t *testing.T) {
	data, err := json.Marshal(&User{ID: "abc", Email: "a@b.co", PasswordHash: "secret"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for key := range out {
		if key == "PasswordHash" || key == "password" || key == "passwordHash" {
			t.Errorf("hash leaked under %q", key)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		model   Model
		message string
	}{
		{"artist ok", &Artist{Name: "Björk", Genre: "Electronic"}, ""},
		{"artist missing name", &Artist{Genre: "Electronic"}, "Name is required."},
		{"artist blank genre", &Artist{Name: "Björk", Genre: "  "}, "Genre is required."},
		{"album ok", &Album{Title: "Post", Artist: RefTo[ArtistSummary]("x"), ReleaseYear: 1995, Genre: "Pop"}, ""},
		{"album missing artist", &Album{Title: "Post", ReleaseYear: 1995, Genre: "Pop"}, "Artist is required."},
		{"album missing year", &Album{Title: "Post", Artist: RefTo[ArtistSummary]("x"), Genre: "Pop"}, "Release year is required."},
		{"album negative year", &Album{Title: "Post", Artist: RefTo[ArtistSummary]("x"), ReleaseYear: -1, Genre: "Pop"}, "Release year must be a positive integer."},
		{"track ok", &Track{Title: "Army of Me", Duration: 234}, ""},
		{"track missing title", &Track{Duration: 234}, "Title is required."},
		{"track missing duration", &Track{Title: "Army of Me"}, "Duration is required."},
		{"track negative duration", &Track{Title: "Army of Me", Duration: -3}, "Duration must be a positive number."},
		{"track relative cover", &Track{Title: "Army of Me", Duration: 234, CoverImage: "/img.png"}, "Cover image must be an http(s) URL."},
		{"track ftp cover", &Track{Title: "Army of Me", Duration: 234, CoverImage: "ftp://host/img.png"}, "Cover image must be an http(s) URL."},
		{"track https cover", &Track{Title: "Army of Me", Duration: 234, CoverImage: "https://host/img.png"}, ""},
		{"user ok", &User{Email: "a@b.co", PasswordHash: "h"}, ""},
		{"user bad email", &User{Email: "nope", PasswordHash: "h"}, "Email is invalid."},
		{"user missing hash", &User{Email: "a@b.co"}, "Password is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.message == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	title := " Homogenic "
	year := 1997
	empty := ""
	fav := true

	album := &Album{Title: "Post", Artist: RefTo[ArtistSummary]("a1"), ReleaseYear: 1995, Genre: "Pop"}
	AlbumPatch{Title: &title, ReleaseYear: &year}.Apply(album)
	if album.Title != "Homogenic" || album.ReleaseYear != 1997 || album.Artist.ID != "a1" || album.Genre != "Pop" {
		t.Errorf("unexpected album after patch: %+v", album)
	}

	track := &Track{Title: "Joga", Album: RefTo[AlbumSummary]("b1"), Duration: 305}
	TrackPatch{Album: &empty, Favorite: &fav}.Apply(track)
	if !track.Album.IsZero() || !track.Favorite || track.Title != "Joga" {
		t.Errorf("unexpected track after patch: %+v", track)
	}

	artist := &Artist{Name: "Björk", Genre: "Pop"}
	ArtistPatch{}.Apply(artist)
	if artist.Name != "Björk" || artist.Genre != "Pop" {
		t.Errorf("empty patch changed artist: %+v", artist)
	}
}

func TestListOptions(t *testing.T) {
	tests := []struct {
		opts      ListOptions
		offset    int
		paginated bool
	}{
		{ListOptions{}, 0, false},
		{ListOptions{Page: 1, Limit: 20}, 0, true},
		{ListOptions{Page: 3, Limit: 10}, 20, true},
		{ListOptions{Page: 0, Limit: 10}, 0, true},
		{ListOptions{Page: math.MaxInt, Limit: 20}, math.MaxInt, true},
	}

	for _, tt := range tests {
		if got := tt.opts.Offset(); got != tt.offset {
			t.Errorf("%+v: expected offset %d, got %d", tt.opts, tt.offset, got)
		}
		if got := tt.opts.Paginated(); got != tt.paginated {
			t.Errorf("%+v: expected paginated %v, got %v", tt.opts, tt.paginated, got)
		}
	}

	pages := []struct {
		total, limit, want int
	}{
		{0, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 1},
	}
	for _, p := range pages {
		if got := (Page[int]{Total: p.total, Limit: p.limit}).TotalPages(); got != p.want {
			t.Errorf("total=%d limit=%d: expected %d pages, got %d", p.total, p.limit, p.want, got)
		}
	}
}
