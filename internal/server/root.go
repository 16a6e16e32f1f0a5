package server

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/tunebase/internal/services"
)

// RootHandler serves the welcome banner and the health check.
type RootHandler struct {
	catalog *services.Catalog
}

func NewRootHandler(catalog *services.Catalog) *RootHandler {
	return &RootHandler{catalog: catalog}
}

func (h *RootHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Handler: h.welcome},
		{Method: http.MethodGet, Path: "/health", Handler: h.health},
	}
}

func (h *RootHandler) welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "🎵 Welcome to the Music API!")
}

func (h *RootHandler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
