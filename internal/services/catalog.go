package services

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Catalog implements artist, album and track operations on a [models.Store].
type Catalog struct {
	store  models.Store
	logger *log.Logger
}

// NewCatalog creates a Catalog. A nil logger discards output.
func NewCatalog(store models.Store, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Catalog{store: store, logger: logger.WithPrefix("catalog")}
}

// Ping reports whether the store is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// ListArtists returns a page of artists with their albums.
func (c *Catalog) ListArtists(ctx context.Context, opts models.ListOptions) (models.Page[*models.Artist], error) {
	return list(ctx, c.store.Artists(), opts)
}

// GetArtist fetches one artist.
func (c *Catalog) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	if err := checkID("Artist", id); err != nil {
		return nil, err
	}
	return c.store.Artists().Get(ctx, id)
}

// CreateArtist validates and stores a new artist.
func (c *Catalog) CreateArtist(ctx context.Context, in models.ArtistInput) (*models.Artist, error) {
	artist := in.Artist()
	if err := c.store.Artists().Create(ctx, artist); err != nil {
		return nil, err
	}
	c.logger.Debug("created artist", "id", artist.ID, "name", artist.Name)
	return artist, nil
}

// UpdateArtist applies patch to the artist with id.
func (c *Catalog) UpdateArtist(ctx context.Context, id string, patch models.ArtistPatch) (*models.Artist, error) {
	artist, err := c.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(artist)
	if err := c.store.Artists().Update(ctx, artist); err != nil {
		return nil, err
	}
	return c.store.Artists().Get(ctx, id)
}

// DeleteArtist removes an artist. Albums and tracks that reference it are left in place.
func (c *Catalog) DeleteArtist(ctx context.Context, id string) error {
	if err := checkID("Artist", id); err != nil {
		return err
	}
	if err := c.store.Artists().Delete(ctx, id); err != nil {
		return err
	}
	c.logger.Debug("deleted artist", "id", id)
	return nil
}

// ListAlbums returns a page of albums with their artist populated.
func (c *Catalog) ListAlbums(ctx context.Context, opts models.ListOptions) (models.Page[*models.Album], error) {
	return list(ctx, c.store.Albums(), opts)
}

// GetAlbum fetches one album.
func (c *Catalog) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	if err := checkID("Album", id); err != nil {
		return nil, err
	}
	return c.store.Albums().Get(ctx, id)
}

// CreateAlbum checks the artist reference, then validates and stores a new album.
func (c *Catalog) CreateAlbum(ctx context.Context, in models.AlbumInput) (*models.Album, error) {
	album := in.Album()
	if err := c.checkReference(ctx, "Artist", c.store.Artists(), album.Artist.ID); err != nil {
		return nil, err
	}
	if err := c.store.Albums().Create(ctx, album); err != nil {
		return nil, err
	}
	c.logger.Debug("created album", "id", album.ID, "title", album.Title)
	return c.store.Albums().Get(ctx, album.ID)
}

// UpdateAlbum applies patch to the album with id, re-checking the artist when it changes.
func (c *Catalog) UpdateAlbum(ctx context.Context, id string, patch models.AlbumPatch) (*models.Album, error) {
	album, err := c.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(album)
	if patch.Artist != nil {
		if err := c.checkReference(ctx, "Artist", c.store.Artists(), album.Artist.ID); err != nil {
			return nil, err
		}
	}

	if err := c.store.Albums().Update(ctx, album); err != nil {
		return nil, err
	}
	return c.store.Albums().Get(ctx, id)
}

// DeleteAlbum removes an album. Tracks that reference it are left in place.
func (c *Catalog) DeleteAlbum(ctx context.Context, id string) error {
	if err := checkID("Album", id); err != nil {
		return err
	}
	if err := c.store.Albums().Delete(ctx, id); err != nil {
		return err
	}
	c.logger.Debug("deleted album", "id", id)
	return nil
}

// ListTracks returns a page of tracks with artist and album populated.
func (c *Catalog) ListTracks(ctx context.Context, opts models.ListOptions) (models.Page[*models.Track], error) {
	return list(ctx, c.store.Tracks(), opts)
}

// GetTrack fetches one track.
func (c *Catalog) GetTrack(ctx context.Context, id string) (*models.Track, error) {
	if err := checkID("Track", id); err != nil {
		return nil, err
	}
	return c.store.Tracks().Get(ctx, id)
}

// CreateTrack runs the reference checks, then validates and stores a new track.
func (c *Catalog) CreateTrack(ctx context.Context, in models.TrackInput) (*models.Track, error) {
	track := in.Track()
	if err := c.checkTrackReferences(ctx, track); err != nil {
		return nil, err
	}
	if err := c.store.Tracks().Create(ctx, track); err != nil {
		return nil, err
	}
	c.logger.Debug("created track", "id", track.ID, "title", track.Title)
	return c.store.Tracks().Get(ctx, track.ID)
}

// UpdateTrack applies patch to the track with id. References named by the patch are re-checked.
func (c *Catalog) UpdateTrack(ctx context.Context, id string, patch models.TrackPatch) (*models.Track, error) {
	track, err := c.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(track)

	if patch.Artist != nil {
		if err := c.checkReference(ctx, "Artist", c.store.Artists(), track.Artist.ID); err != nil {
			return nil, err
		}
	}
	if patch.Album != nil {
		if err := c.checkReference(ctx, "Album", c.store.Albums(), track.Album.ID); err != nil {
			return nil, err
		}
	}

	if err := c.store.Tracks().Update(ctx, track); err != nil {
		return nil, err
	}
	return c.store.Tracks().Get(ctx, id)
}

// ToggleFavorite flips the favorite flag of a track and returns it.
func (c *Catalog) ToggleFavorite(ctx context.Context, id string) (*models.Track, error) {
	if err := checkID("Track", id); err != nil {
		return nil, err
	}
	track, err := c.store.Tracks().ToggleFavorite(ctx, id)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("toggled favorite", "id", id, "favorite", track.Favorite)
	return track, nil
}

// DeleteTrack removes a track.
func (c *Catalog) DeleteTrack(ctx context.Context, id string) error {
	if err := checkID("Track", id); err != nil {
		return err
	}
	if err := c.store.Tracks().Delete(ctx, id); err != nil {
		return err
	}
	c.logger.Debug("deleted track", "id", id)
	return nil
}

// checkTrackReferences validates the artist, then the album, of a new track.
func (c *Catalog) checkTrackReferences(ctx context.Context, track *models.Track) error {
	if err := c.checkReference(ctx, "Artist", c.store.Artists(), track.Artist.ID); err != nil {
		return err
	}
	return c.checkReference(ctx, "Album", c.store.Albums(), track.Album.ID)
}

// checkReference verifies a referenced id is well formed and stored. Empty ids are left to field validation.
func (c *Catalog) checkReference(ctx context.Context, resource string, repo existser, id string) error {
	if id == "" {
		return nil
	}
	if err := checkID(resource, id); err != nil {
		return err
	}

	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound(resource)
	}
	return nil
}

type existser interface {
	Exists(ctx context.Context, id string) (bool, error)
}

func checkID(resource, id string) error {
	if !shared.ValidID(id) {
		return shared.InvalidID(resource)
	}
	return nil
}

func list[T models.Model](ctx context.Context, repo models.Repository[T], opts models.ListOptions) (models.Page[T], error) {
	items, total, err := repo.List(ctx, opts)
	if err != nil {
		return models.Page[T]{}, err
	}
	return models.Page[T]{Items: items, Total: total, Page: opts.Page, Limit: opts.Limit}, nil
}
