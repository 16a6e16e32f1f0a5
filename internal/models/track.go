package models

import (
	"net/url"
	"strings"

	"github.com/desertthunder/tunebase/internal/shared"
)

// Track is a song. Artist and Album are optional references.
type Track struct {
	ID         string             `json:"_id"`
	Title      string             `json:"title"`
	Artist     Ref[ArtistSummary] `json:"artist"`
	Album      Ref[AlbumSummary]  `json:"album"`
	Duration   float64            `json:"duration"`
	CoverImage string             `json:"coverImage,omitempty"`
	Favorite   bool               `json:"favorite"`
	Timestamps
}

func (t *Track) Identifier() string { return t.ID }

// Validate checks required fields and the cover image URL.
func (t *Track) Validate() error {
	switch {
	case strings.TrimSpace(t.Title) == "":
		return shared.Required("Title")
	case t.Duration == 0:
		return shared.Required("Duration")
	case t.Duration < 0:
		return shared.NewError(shared.ErrValidation, "Duration must be a positive number.")
	}

	if t.CoverImage != "" {
		u, err := url.Parse(t.CoverImage)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return shared.NewError(shared.ErrValidation, "Cover image must be an http(s) URL.")
		}
	}
	return nil
}

// TrackInput is the request body for creating a track. Artist and Album are ids and may be empty.
type TrackInput struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	Duration   float64 `json:"duration"`
	CoverImage string  `json:"coverImage"`
	Favorite   bool    `json:"favorite"`
}

// Track builds an unsaved [Track] from the input.
func (in TrackInput) Track() *Track {
	return &Track{
		Title:      strings.TrimSpace(in.Title),
		Artist:     RefTo[ArtistSummary](strings.TrimSpace(in.Artist)),
		Album:      RefTo[AlbumSummary](strings.TrimSpace(in.Album)),
		Duration:   in.Duration,
		CoverImage: strings.TrimSpace(in.CoverImage),
		Favorite:   in.Favorite,
	}
}

// TrackPatch is a partial update; nil fields are left unchanged and an empty Artist or Album clears the reference.
type TrackPatch struct {
	Title      *string  `json:"title"`
	Artist     *string  `json:"artist"`
	Album      *string  `json:"album"`
	Duration   *float64 `json:"duration"`
	CoverImage *string  `json:"coverImage"`
	Favorite   *bool    `json:"favorite"`
}

// Apply copies the set fields onto t.
func (p TrackPatch) Apply(t *Track) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Artist != nil {
		t.Artist = RefTo[ArtistSummary](strings.TrimSpace(*p.Artist))
	}
	if p.Album != nil {
		t.Album = RefTo[AlbumSummary](strings.TrimSpace(*p.Album))
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.CoverImage != nil {
		t.CoverImage = strings.TrimSpace(*p.CoverImage)
	}
	if p.Favorite != nil {
		t.Favorite = *p.Favorite
	}
}
