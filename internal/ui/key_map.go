package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	nextTab  key.Binding
	prevTab  key.Binding
	artists  key.Binding
	albums   key.Binding
	tracks   key.Binding
	favorite key.Binding
	reload   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		nextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		artists:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "artists")),
		albums:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "albums")),
		tracks:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tracks")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextTab, k.reload, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.nextTab, k.prevTab, k.artists, k.albums, k.tracks},
		{k.favorite, k.reload, k.quit},
	}
}
