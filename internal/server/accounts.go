package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunebase/internal/auth"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/services"
)

// AccountHandler serves signup, login and the current-user endpoint.
type AccountHandler struct {
	accounts *services.Accounts
	logger   *log.Logger
}

func NewAccountHandler(accounts *services.Accounts, logger *log.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

func (h *AccountHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/login", Handler: h.login, Limited: true},
		{Method: http.MethodPost, Path: "/api/users/login", Handler: h.login, Limited: true},
		{Method: http.MethodPost, Path: "/api/users/signup", Handler: h.signup, Limited: true},
		{Method: http.MethodGet, Path: "/api/users/me", Handler: h.me, Protected: true},
	}
}

func (h *AccountHandler) signup(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.accounts.Signup(r.Context(), creds)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.accounts.Login(r.Context(), creds)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *AccountHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	user, err := h.accounts.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": user.ID, "email": user.Email})
}
