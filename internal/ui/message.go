package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tunebase/internal/formatter"
	"github.com/desertthunder/tunebase/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogLoaded MsgKind = iota
	MsgFavoriteToggled
)

type catalogLoaded struct {
	snapshot *formatter.Export
	err      error
}

type favoriteToggled struct {
	track *models.Track
	err   error
}

// catalogLoadedMsg is the constructor for [MsgCatalogLoaded]
func catalogLoadedMsg(snapshot *formatter.Export, err error) Msg {
	return Msg{kind: MsgCatalogLoaded, data: catalogLoaded{snapshot, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(track *models.Track, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{track, err}}
}
