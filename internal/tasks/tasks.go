package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tunebase/internal/formatter"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// unassigned titles the export of tracks that reference no artist.
const unassigned = "Unassigned"

// CatalogReader lists the catalog.
type CatalogReader interface {
	ListArtists(ctx context.Context, opts models.ListOptions) (models.Page[*models.Artist], error)
	ListAlbums(ctx context.Context, opts models.ListOptions) (models.Page[*models.Album], error)
	ListTracks(ctx context.Context, opts models.ListOptions) (models.Page[*models.Track], error)
}

// CatalogEngine runs snapshot and export operations against a [CatalogReader].
type CatalogEngine struct {
	catalog CatalogReader
	now     func() time.Time
}

// NewCatalogEngine creates a new CatalogEngine reading from catalog.
func NewCatalogEngine(catalog CatalogReader) *CatalogEngine {
	return &CatalogEngine{catalog: catalog, now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Snapshot reads every artist, album and track into a single export.
func (e *CatalogEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate, title string) (*formatter.Export, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrStoreUnhealthy)
	}

	all := models.ListOptions{}
	export := &formatter.Export{Title: title, ExportedAt: e.now().UTC()}

	e.sendProgress(progress, fetchUpdate(FetchArtists, 1, 3, "artists"))
	artists, err := e.catalog.ListArtists(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	export.Artists = artists.Items
	e.sendProgress(progress, fetchedUpdate(FetchArtists, 1, 3, "artists", len(artists.Items)))

	e.sendProgress(progress, fetchUpdate(FetchAlbums, 2, 3, "albums"))
	albums, err := e.catalog.ListAlbums(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	export.Albums = albums.Items
	e.sendProgress(progress, fetchedUpdate(FetchAlbums, 2, 3, "albums", len(albums.Items)))

	e.sendProgress(progress, fetchUpdate(FetchTracks, 3, 3, "tracks"))
	tracks, err := e.catalog.ListTracks(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	export.Tracks = tracks.Items
	e.sendProgress(progress, fetchedUpdate(FetchTracks, 3, 3, "tracks", len(tracks.Items)))

	return export, nil
}

// Partition splits a snapshot into one export per artist, in artist order.
//
// Albums and tracks whose artist reference is empty or dangling go to a trailing "Unassigned" export,
// which is omitted when empty.
func Partition(snapshot *formatter.Export) []*formatter.Export {
	byArtist := make(map[string]*formatter.Export, len(snapshot.Artists))
	parts := make([]*formatter.Export, 0, len(snapshot.Artists)+1)

	for _, artist := range snapshot.Artists {
		part := &formatter.Export{
			Title:      artist.Name,
			ExportedAt: snapshot.ExportedAt,
			Artists:    []*models.Artist{artist},
			Albums:     []*models.Album{},
			Tracks:     []*models.Track{},
		}
		byArtist[artist.ID] = part
		parts = append(parts, part)
	}

	rest := &formatter.Export{
		Title:      unassigned,
		ExportedAt: snapshot.ExportedAt,
		Artists:    []*models.Artist{},
		Albums:     []*models.Album{},
		Tracks:     []*models.Track{},
	}

	for _, album := range snapshot.Albums {
		if part, ok := byArtist[album.Artist.ID]; ok {
			part.Albums = append(part.Albums, album)
		} else {
			rest.Albums = append(rest.Albums, album)
		}
	}
	for _, track := range snapshot.Tracks {
		if part, ok := byArtist[track.Artist.ID]; ok {
			part.Tracks = append(part.Tracks, track)
		} else {
			rest.Tracks = append(rest.Tracks, track)
		}
	}

	if len(rest.Albums) > 0 || len(rest.Tracks) > 0 {
		parts = append(parts, rest)
	}
	return parts
}
