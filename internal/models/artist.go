package models

import (
	"strings"

	"github.com/desertthunder/tunebase/internal/shared"
)

// Artist is a performer in the catalog.
//
// Albums is not stored on the artist: it is the back-reference set joined from albums whose artist is this one.
type Artist struct {
	ID     string         `json:"_id"`
	Name   string         `json:"name"`
	Genre  string         `json:"genre"`
	Albums []AlbumSummary `json:"albums"`
	Timestamps
}

// ArtistSummary is the artist document embedded when a reference is populated.
type ArtistSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Genre string `json:"genre"`
}

func (a *Artist) Identifier() string { return a.ID }

// Validate checks required fields.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return shared.Required("Name")
	}
	if strings.TrimSpace(a.Genre) == "" {
		return shared.Required("Genre")
	}
	return nil
}

// Summary returns the populated-reference form of the artist.
func (a *Artist) Summary() ArtistSummary {
	return ArtistSummary{ID: a.ID, Name: a.Name, Genre: a.Genre}
}

// ArtistInput is the request body for creating an artist.
type ArtistInput struct {
	Name  string `json:"name"`
	Genre string `json:"genre"`
}

// Artist builds an unsaved [Artist] from the input.
func (in ArtistInput) Artist() *Artist {
	return &Artist{
		Name:   strings.TrimSpace(in.Name),
		Genre:  strings.TrimSpace(in.Genre),
		Albums: []AlbumSummary{},
	}
}

// ArtistPatch is a partial update; nil fields are left unchanged.
type ArtistPatch struct {
	Name  *string `json:"name"`
	Genre *string `json:"genre"`
}

// Apply copies the set fields onto a.
func (p ArtistPatch) Apply(a *Artist) {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Genre != nil {
		a.Genre = strings.TrimSpace(*p.Genre)
	}
}
