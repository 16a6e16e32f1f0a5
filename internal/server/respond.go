package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunebase/internal/shared"
)

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// statusFor maps an error to its HTTP status by sentinel.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrConflict),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrUnauthenticated),
		errors.Is(err, shared.ErrInvalidToken),
		errors.Is(err, shared.ErrTokenExpired),
		errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrStoreUnhealthy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the client message of err, or logs it and answers a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := statusFor(err)
	msg, ok := shared.Message(err)

	if status >= http.StatusInternalServerError || !ok {
		logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeMessage(w, status, msg)
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return shared.NewError(shared.ErrInvalidInput, "Invalid request body.")
	}
	return nil
}
