package models

import (
	"strings"

	"github.com/desertthunder/tunebase/internal/shared"
)

// Album is a release owned by one artist.
type Album struct {
	ID          string             `json:"_id"`
	Title       string             `json:"title"`
	Artist      Ref[ArtistSummary] `json:"artist"`
	ReleaseYear int                `json:"releaseYear"`
	Genre       string             `json:"genre"`
	Timestamps
}

// AlbumSummary is the album document embedded when a reference is populated.
type AlbumSummary struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre,omitempty"`
}

func (a *Album) Identifier() string { return a.ID }

// Validate checks required fields. Reference existence is checked by the caller against a store.
func (a *Album) Validate() error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return shared.Required("Title")
	case a.Artist.IsZero():
		return shared.Required("Artist")
	case a.ReleaseYear == 0:
		return shared.Required("Release year")
	case a.ReleaseYear < 0:
		return shared.NewError(shared.ErrValidation, "Release year must be a positive integer.")
	case strings.TrimSpace(a.Genre) == "":
		return shared.Required("Genre")
	}
	return nil
}

// Summary returns the populated-reference form of the album.
func (a *Album) Summary() AlbumSummary {
	return AlbumSummary{ID: a.ID, Title: a.Title, ReleaseYear: a.ReleaseYear, Genre: a.Genre}
}

// AlbumInput is the request body for creating an album. Artist is the artist id.
type AlbumInput struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
}

// Album builds an unsaved [Album] from the input.
func (in AlbumInput) Album() *Album {
	return &Album{
		Title:       strings.TrimSpace(in.Title),
		Artist:      RefTo[ArtistSummary](strings.TrimSpace(in.Artist)),
		ReleaseYear: in.ReleaseYear,
		Genre:       strings.TrimSpace(in.Genre),
	}
}

// AlbumPatch is a partial update; nil fields are left unchanged.
type AlbumPatch struct {
	Title       *string `json:"title"`
	Artist      *string `json:"artist"`
	ReleaseYear *int    `json:"releaseYear"`
	Genre       *string `json:"genre"`
}

// Apply copies the set fields onto a. A changed artist drops the populated document.
func (p AlbumPatch) Apply(a *Album) {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Artist != nil {
		a.Artist = RefTo[ArtistSummary](strings.TrimSpace(*p.Artist))
	}
	if p.ReleaseYear != nil {
		a.ReleaseYear = *p.ReleaseYear
	}
	if p.Genre != nil {
		a.Genre = strings.TrimSpace(*p.Genre)
	}
}
