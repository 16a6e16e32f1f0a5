package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/services"
)

// ArtistHandler serves /api/artists.
type ArtistHandler struct {
	catalog *services.Catalog
	logger  *log.Logger
}

func NewArtistHandler(catalog *services.Catalog, logger *log.Logger) *ArtistHandler {
	return &ArtistHandler{catalog: catalog, logger: logger}
}

func (h *ArtistHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/artists", Handler: h.list},
		{Method: http.MethodPost, Path: "/api/artists", Handler: h.create, Protected: true},
		{Method: http.MethodGet, Path: "/api/artists/{id}", Handler: h.get},
		{Method: http.MethodPut, Path: "/api/artists/{id}", Handler: h.update, Protected: true},
		{Method: http.MethodDelete, Path: "/api/artists/{id}", Handler: h.delete, Protected: true},
	}
}

func (h *ArtistHandler) list(w http.ResponseWriter, r *http.Request) {
	opts, paginated := listOptions(r)
	page, err := h.catalog.ListArtists(r.Context(), opts)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, "artists", page, paginated)
}

func (h *ArtistHandler) get(w http.ResponseWriter, r *http.Request) {
	artist, err := h.catalog.GetArtist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (h *ArtistHandler) create(w http.ResponseWriter, r *http.Request) {
	var in models.ArtistInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	artist, err := h.catalog.CreateArtist(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (h *ArtistHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch models.ArtistPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	artist, err := h.catalog.UpdateArtist(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (h *ArtistHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteArtist(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AlbumHandler serves /api/albums.
type AlbumHandler struct {
	catalog *services.Catalog
	logger  *log.Logger
}

func NewAlbumHandler(catalog *services.Catalog, logger *log.Logger) *AlbumHandler {
	return &AlbumHandler{catalog: catalog, logger: logger}
}

func (h *AlbumHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/albums", Handler: h.list},
		{Method: http.MethodPost, Path: "/api/albums", Handler: h.create, Protected: true},
		{Method: http.MethodGet, Path: "/api/albums/{id}", Handler: h.get},
		{Method: http.MethodPut, Path: "/api/albums/{id}", Handler: h.update, Protected: true},
		{Method: http.MethodDelete, Path: "/api/albums/{id}", Handler: h.delete, Protected: true},
	}
}

func (h *AlbumHandler) list(w http.ResponseWriter, r *http.Request) {
	opts, paginated := listOptions(r)
	page, err := h.catalog.ListAlbums(r.Context(), opts)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, "albums", page, paginated)
}

func (h *AlbumHandler) get(w http.ResponseWriter, r *http.Request) {
	album, err := h.catalog.GetAlbum(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *AlbumHandler) create(w http.ResponseWriter, r *http.Request) {
	var in models.AlbumInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	album, err := h.catalog.CreateAlbum(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (h *AlbumHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch models.AlbumPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	album, err := h.catalog.UpdateAlbum(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *AlbumHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteAlbum(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TrackHandler serves /api/tracks, including the favorite toggle.
type TrackHandler struct {
	catalog *services.Catalog
	logger  *log.Logger
}

func NewTrackHandler(catalog *services.Catalog, logger *log.Logger) *TrackHandler {
	return &TrackHandler{catalog: catalog, logger: logger}
}

func (h *TrackHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/tracks", Handler: h.list},
		{Method: http.MethodPost, Path: "/api/tracks", Handler: h.create, Protected: true},
		{Method: http.MethodGet, Path: "/api/tracks/{id}", Handler: h.get},
		{Method: http.MethodPut, Path: "/api/tracks/{id}", Handler: h.update, Protected: true},
		{Method: http.MethodPatch, Path: "/api/tracks/{id}", Handler: h.update, Protected: true},
		{Method: http.MethodDelete, Path: "/api/tracks/{id}", Handler: h.delete, Protected: true},
		{Method: http.MethodPatch, Path: "/api/tracks/{id}/favorite", Handler: h.favorite, Protected: true},
	}
}

func (h *TrackHandler) list(w http.ResponseWriter, r *http.Request) {
	opts, paginated := listOptions(r)
	page, err := h.catalog.ListTracks(r.Context(), opts)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, "tracks", page, paginated)
}

func (h *TrackHandler) get(w http.ResponseWriter, r *http.Request) {
	track, err := h.catalog.GetTrack(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (h *TrackHandler) create(w http.ResponseWriter, r *http.Request) {
	var in models.TrackInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	track, err := h.catalog.CreateTrack(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, track)
}

func (h *TrackHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch models.TrackPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	track, err := h.catalog.UpdateTrack(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (h *TrackHandler) favorite(w http.ResponseWriter, r *http.Request) {
	track, err := h.catalog.ToggleFavorite(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (h *TrackHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteTrack(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
