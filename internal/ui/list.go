package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

const unknown = "Unknown"

var (
	_ list.Item = artistItem{}
	_ list.Item = albumItem{}
	_ list.Item = trackItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist *models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	return fmt.Sprintf("%s • %d albums", i.artist.Genre, len(i.artist.Albums))
}

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album *models.Album
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	artist := unknown
	if i.album.Artist.Populated() {
		artist = i.album.Artist.Doc.Name
	}
	return fmt.Sprintf("%s • %d • %s", artist, i.album.ReleaseYear, i.album.Genre)
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track *models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string {
	if i.track.Favorite {
		return "★ " + i.track.Title
	}
	return i.track.Title
}

func (i trackItem) Description() string {
	artist, album := unknown, unknown
	if i.track.Artist.Populated() {
		artist = i.track.Artist.Doc.Name
	}
	if i.track.Album.Populated() {
		album = i.track.Album.Doc.Title
	}
	return fmt.Sprintf("%s • %s • %s", artist, album, shared.FormatDuration(i.track.Duration))
}

func artistItems(artists []*models.Artist) []list.Item {
	items := make([]list.Item, len(artists))
	for i, a := range artists {
		items[i] = artistItem{artist: a}
	}
	return items
}

func albumItems(albums []*models.Album) []list.Item {
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a}
	}
	return items
}

func trackItems(tracks []*models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}
