package server

import (
	"net/http"
	"strconv"

	"github.com/desertthunder/tunebase/internal/models"
)

// listOptions reads page and limit from the query. Pagination applies only when either is present;
// unparsable or non-positive values fall back to the defaults, limit is capped at [models.MaxPageLimit]
// and page at [models.MaxPage].
func listOptions(r *http.Request) (models.ListOptions, bool) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("limit") {
		return models.ListOptions{}, false
	}

	opts := models.ListOptions{
		Page:  positiveInt(q.Get("page"), 1),
		Limit: positiveInt(q.Get("limit"), models.DefaultPageLimit),
	}
	if opts.Limit > models.MaxPageLimit {
		opts.Limit = models.MaxPageLimit
	}
	if opts.Page > models.MaxPage {
		opts.Page = models.MaxPage
	}
	return opts, true
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// writePage answers with a bare array, or with the pagination envelope keyed by key.
func writePage[T any](w http.ResponseWriter, key string, page models.Page[T], paginated bool) {
	if !paginated {
		writeJSON(w, http.StatusOK, page.Items)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		key:           page.Items,
		"currentPage": page.Page,
		"totalPages":  page.TotalPages(),
		"total":       page.Total,
		"limit":       page.Limit,
	})
}
