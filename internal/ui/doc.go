// Package ui implements an interactive terminal catalog browser using bubbletea's Elm architecture.
//
// The browser shows three tabs over one catalog snapshot:
//  1. [ArtistsTab] : Artists with their genre and album count
//  2. [AlbumsTab] : Albums with their populated artist
//  3. [TracksTab] : Tracks with artist, album, duration and favorite flag
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// The snapshot is loaded with [tasks.CatalogEngine.Snapshot]; favorites are toggled through the same [Catalog] the HTTP API uses.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, 1-3, f, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
