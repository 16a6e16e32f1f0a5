package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/tunebase/internal/auth"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/services"
	"github.com/desertthunder/tunebase/internal/shared"
	tu "github.com/desertthunder/tunebase/internal/testing"
)

const testSecret = "test-secret"

type testEnv struct {
	server *Server
	store  models.Store
	tokens *auth.TokenService
	token  string
}

func newTestEnv(t *testing.T, cfg shared.ServerConfig) *testEnv {
	t.Helper()

	store := tu.NewTestStore(t)
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	logger := log.New(io.Discard)
	srv := New(Options{
		Config:   cfg,
		Catalog:  services.NewCatalog(store, logger),
		Accounts: services.NewAccounts(store.Users(), tokens, bcrypt.MinCost, logger),
		Tokens:   tokens,
		Logger:   logger,
	})

	token, _, err := tokens.Issue(shared.GenerateID())
	require.NoError(t, err)

	return &testEnv{server: srv, store: store, tokens: tokens, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}

func (e *testEnv) createArtist(t *testing.T, name string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/artists", map[string]any{"name": name, "genre": "Rock"}, e.token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["_id"].(string)
}

func (e *testEnv) createAlbum(t *testing.T, title, artistID string) string {
	t.Helper()
	body := map[string]any{"title": title, "artist": artistID, "releaseYear": 1997, "genre": "Rock"}
	rec := e.do(t, http.MethodPost, "/api/albums", body, e.token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["_id"].(string)
}

func TestArtistRoutes(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{})

	t.Run("create echoes fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/artists", map[string]any{"name": "Björk", "genre": "Electronic"}, env.token)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "Björk", body["name"])
		assert.Equal(t, "Electronic", body["genre"])
		assert.Equal(t, []any{}, body["albums"])
		assert.NotEmpty(t, body["createdAt"])
	})

	t.Run("create without name", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/artists", map[string]any{"genre": "Electronic"}, env.token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name is required.", message(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/artists", "{not json", env.token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body.", message(t, rec))
	})

	t.Run("get unknown id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/artists/"+shared.GenerateID(), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Artist not found.", message(t, rec))
	})

	t.Run("get malformed id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/artists/12345", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Artist ID format", message(t, rec))
	})

	t.Run("update and delete", func(t *testing.T) {
		id := env.createArtist(t, "Portishead")

		rec := env.do(t, http.MethodPut, "/api/artists/"+id, map[string]any{"genre": "Trip Hop"}, env.token)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "Portishead", body["name"])
		assert.Equal(t, "Trip Hop", body["genre"])

		rec = env.do(t, http.MethodDelete, "/api/artists/"+id, nil, env.token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = env.do(t, http.MethodDelete, "/api/artists/"+id, nil, env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodPut, "/api/artists/"+id, map[string]any{"genre": "x"}, env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list is a bare array", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/artists", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[[]map[string]any](t, rec)
		assert.NotEmpty(t, list)
	})
}

func TestAlbumRoutes(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{})
	artistID := env.createArtist(t, "Radiohead")
	albumID := env.createAlbum(t, "OK Computer", artistID)

	t.Run("list populates artist", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/albums", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		albums := decode[[]map[string]any](t, rec)
		require.Len(t, albums, 1)
		artist, ok := albums[0]["artist"].(map[string]any)
		require.True(t, ok, "artist should be an embedded document, got %v", albums[0]["artist"])
		assert.Equal(t, artistID, artist["_id"])
		assert.Equal(t, "Radiohead", artist["name"])
	})

	t.Run("artist lists its albums", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/artists/"+artistID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		albums := decode[map[string]any](t, rec)["albums"].([]any)
		require.Len(t, albums, 1)
		assert.Equal(t, albumID, albums[0].(map[string]any)["_id"])
	})

	t.Run("create with unknown artist", func(t *testing.T) {
		body := map[string]any{"title": "Kid A", "artist": shared.GenerateID(), "releaseYear": 2000, "genre": "Rock"}
		rec := env.do(t, http.MethodPost, "/api/albums", body, env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Artist not found.", message(t, rec))
	})

	t.Run("deleting the artist keeps the album", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/artists/"+artistID, nil, env.token)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/albums/"+albumID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "OK Computer", body["title"])
		assert.Nil(t, body["artist"])
	})
}

func TestTrackRoutes(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{})
	artistID := env.createArtist(t, "Radiohead")
	albumID := env.createAlbum(t, "OK Computer", artistID)

	countTracks := func(t *testing.T) int {
		rec := env.do(t, http.MethodGet, "/api/tracks", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		return len(decode[[]any](t, rec))
	}

	t.Run("malformed artist id", func(t *testing.T) {
		body := map[string]any{"title": "Airbag", "artist": "nope", "album": albumID, "duration": 284}
		rec := env.do(t, http.MethodPost, "/api/tracks", body, env.token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Artist ID format", message(t, rec))
	})

	t.Run("malformed album id", func(t *testing.T) {
		body := map[string]any{"title": "Airbag", "artist": artistID, "album": "nope", "duration": 284}
		rec := env.do(t, http.MethodPost, "/api/tracks", body, env.token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Album ID format", message(t, rec))
	})

	t.Run("missing album persists nothing", func(t *testing.T) {
		body := map[string]any{"title": "Airbag", "artist": artistID, "album": shared.GenerateID(), "duration": 284}
		rec := env.do(t, http.MethodPost, "/api/tracks", body, env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Album not found.", message(t, rec))
		assert.Equal(t, 0, countTracks(t))
	})

	var trackID string
	t.Run("create populated", func(t *testing.T) {
		body := map[string]any{"title": "Airbag", "artist": artistID, "album": albumID, "duration": 284}
		rec := env.do(t, http.MethodPost, "/api/tracks", body, env.token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		track := decode[map[string]any](t, rec)
		trackID = track["_id"].(string)
		assert.Equal(t, false, track["favorite"])
		assert.Equal(t, "Radiohead", track["artist"].(map[string]any)["name"])
		assert.Equal(t, "OK Computer", track["album"].(map[string]any)["title"])
	})

	t.Run("toggle favorite twice", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/tracks/"+trackID+"/favorite", nil, env.token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode[map[string]any](t, rec)["favorite"])

		rec = env.do(t, http.MethodPatch, "/api/tracks/"+trackID+"/favorite", nil, env.token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decode[map[string]any](t, rec)["favorite"])
	})

	t.Run("patch is an alias of put", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/tracks/"+trackID, map[string]any{"title": "Airbag (Remastered)"}, env.token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Airbag (Remastered)", decode[map[string]any](t, rec)["title"])

		rec = env.do(t, http.MethodPut, "/api/tracks/"+trackID, map[string]any{"duration": -1}, env.token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("toggle unknown track", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/tracks/"+shared.GenerateID()+"/favorite", nil, env.token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Track not found.", message(t, rec))
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/tracks/"+trackID, nil, env.token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, 0, countTracks(t))
	})
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{})

	past, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	past.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _, err := past.Issue(shared.GenerateID())
	require.NoError(t, err)

	body := map[string]any{"name": "X", "genre": "Y"}

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "Unauthorized."},
		{"wrong scheme", "Basic abc", "Unauthorized."},
		{"lowercase scheme", "bearer " + env.token, "Unauthorized."},
		{"garbage token", "Bearer garbage", "Invalid token."},
		{"expired token", "Bearer " + expired, "Token expired."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, _ := json.Marshal(body)
			req := httptest.NewRequest(http.MethodPost, "/api/artists", bytes.NewReader(data))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.server.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, message(t, rec))
		})
	}

	writes := []struct{ method, path string }{
		{http.MethodPost, "/api/albums"},
		{http.MethodPut, "/api/albums/" + shared.GenerateID()},
		{http.MethodDelete, "/api/tracks/" + shared.GenerateID()},
		{http.MethodPatch, "/api/tracks/" + shared.GenerateID() + "/favorite"},
		{http.MethodGet, "/api/users/me"},
	}
	for _, w := range writes {
		rec := env.do(t, w.method, w.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", w.method, w.path)
	}

	reads := []string{"/api/artists", "/api/albums", "/api/tracks"}
	for _, path := range reads {
		rec := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestPagination(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{})
	for _, name := range []string{"A", "B", "C"} {
		env.createArtist(t, name)
	}

	tests := []struct {
		name        string
		query       string
		count       int
		currentPage float64
		totalPages  float64
		limit       float64
	}{
		{"limit only", "?limit=2", 2, 1, 2, 2},
		{"second page", "?page=2&limit=2", 1, 2, 2, 2},
		{"page only uses default limit", "?page=1", 3, 1, 1, 20},
		{"invalid values fall back", "?page=abc&limit=-5", 3, 1, 1, 20},
		{"limit is capped", "?limit=1000", 3, 1, 1, 100},
		{"past the end", "?page=9&limit=2", 0, 9, 2, 2},
		{"huge page is clamped", "?page=922337203685477581&limit=20", 0, models.MaxPage, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/artists"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode[map[string]any](t, rec)
			assert.Len(t, body["artists"], tt.count)
			assert.Equal(t, tt.currentPage, body["currentPage"])
			assert.Equal(t, tt.totalPages, body["totalPages"])
			assert.Equal(t, float64(3), body["total"])
			assert.Equal(t, tt.limit, body["limit"])
		})
	}
}

func TestAccountRoutes(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{})
	creds := map[string]any{"email": "fan@example.com", "password": "secret123"}

	rec := env.do(t, http.MethodPost, "/api/users/signup", creds, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[map[string]any](t, rec)
	assert.NotEmpty(t, session["token"])
	userID := session["userId"].(string)

	t.Run("duplicate signup", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/users/signup", creds, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User already exists", message(t, rec))
	})

	t.Run("login", func(t *testing.T) {
		for _, path := range []string{"/login", "/api/users/login"} {
			rec := env.do(t, http.MethodPost, path, creds, "")
			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.Equal(t, userID, decode[map[string]any](t, rec)["userId"])
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", map[string]any{"email": "fan@example.com", "password": "nope-nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password.", message(t, rec))
	})

	t.Run("issued token opens write routes", func(t *testing.T) {
		token := session["token"].(string)
		rec := env.do(t, http.MethodPost, "/api/artists", map[string]any{"name": "X", "genre": "Y"}, token)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/users/me", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		me := decode[map[string]any](t, rec)
		assert.Equal(t, userID, me["userId"])
		assert.Equal(t, "fan@example.com", me["email"])
	})
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{AuthRateLimit: 0.001, AuthRateBurst: 1})
	creds := map[string]any{"email": "nobody@example.com", "password": "secret123"}

	rec := env.do(t, http.MethodPost, "/login", creds, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests.", message(t, rec))

	rec = env.do(t, http.MethodGet, "/api/artists", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads are not limited")
}

func TestRootRoutes(t *testing.T) {
	env := newTestEnv(t, shared.ServerConfig{CORSOrigins: []string{"*"}})

	t.Run("welcome", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Welcome to the Music API")
	})

	t.Run("health", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/playlists", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found.", message(t, rec))
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/artists", nil, env.token)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("request id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/", nil, "")
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec = httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/artists", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)

		assert.Less(t, rec.Code, 300)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecover(t *testing.T) {
	router := NewBasicRouter()
	router.Use(Recover(log.New(io.Discard)))
	router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", message(t, rec))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.Required("Name"), http.StatusBadRequest},
		{shared.InvalidID("Track"), http.StatusBadRequest},
		{shared.NewError(shared.ErrConflict, "User already exists"), http.StatusBadRequest},
		{shared.NotFound("Album"), http.StatusNotFound},
		{shared.NewError(shared.ErrInvalidCredentials, "x"), http.StatusUnauthorized},
		{shared.ErrTokenExpired, http.StatusUnauthorized},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
