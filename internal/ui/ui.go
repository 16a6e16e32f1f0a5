package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tunebase/internal/formatter"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/tasks"
)

// Tab is one of the browser's listings.
type Tab int

const (
	ArtistsTab Tab = iota
	AlbumsTab
	TracksTab
	tabCount
)

func (t Tab) String() string {
	switch t {
	case ArtistsTab:
		return "Artists"
	case AlbumsTab:
		return "Albums"
	case TracksTab:
		return "Tracks"
	default:
		return ""
	}
}

// Catalog is what the browser reads and the one write it performs.
type Catalog interface {
	tasks.CatalogReader
	ToggleFavorite(ctx context.Context, id string) (*models.Track, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	catalog  Catalog
	engine   *tasks.CatalogEngine
	tab      Tab
	width    int
	height   int
	lists    [tabCount]list.Model
	snapshot *formatter.Export
	loading  bool
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model browsing catalog.
func NewModel(ctx context.Context, catalog Catalog) *Model {
	m := &Model{
		ctx:     ctx,
		catalog: catalog,
		engine:  tasks.NewCatalogEngine(catalog),
		tab:     ArtistsTab,
		loading: true,
		help:    help.New(),
		keys:    newKeyMap(),
	}

	for t := ArtistsTab; t < tabCount; t++ {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.Title = t.String()
		l.DisableQuitKeybindings()
		m.lists[t] = l
	}
	return m
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for t := range m.lists {
			m.lists[t].SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgCatalogLoaded:
			return m.handleCatalogLoaded(msg.data.(catalogLoaded))
		case MsgFavoriteToggled:
			return m.handleFavoriteToggled(msg.data.(favoriteToggled))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

// View renders the tab bar, the active listing, the status line and help.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to reload, q to quit", m.err))
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading catalog...")
	} else {
		b.WriteString(m.lists[m.tab].View())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	helpKeys := []key.Binding{m.keys.nextTab, m.keys.reload, m.keys.quit}
	if m.tab == TracksTab {
		helpKeys = []key.Binding{m.keys.favorite, m.keys.nextTab, m.keys.reload, m.keys.quit}
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

// ActiveTab reports the tab being shown.
func (m *Model) ActiveTab() Tab { return m.tab }

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lists[m.tab].FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.artists):
		m.tab = ArtistsTab
		return m, nil
	case key.Matches(msg, m.keys.albums):
		m.tab = AlbumsTab
		return m, nil
	case key.Matches(msg, m.keys.tracks):
		m.tab = TracksTab
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		m.err = nil
		m.status = ""
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.favorite):
		if m.tab != TracksTab {
			return m, nil
		}
		if item, ok := m.lists[TracksTab].SelectedItem().(trackItem); ok {
			return m, m.toggleFavorite(item.track.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) handleCatalogLoaded(msg catalogLoaded) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	m.snapshot = msg.snapshot
	cmds := []tea.Cmd{
		m.lists[ArtistsTab].SetItems(artistItems(msg.snapshot.Artists)),
		m.lists[AlbumsTab].SetItems(albumItems(msg.snapshot.Albums)),
		m.lists[TracksTab].SetItems(trackItems(msg.snapshot.Tracks)),
	}
	m.status = styles.help.Render(fmt.Sprintf("%d artists, %d albums, %d tracks",
		len(msg.snapshot.Artists), len(msg.snapshot.Albums), len(msg.snapshot.Tracks)))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleFavoriteToggled(msg favoriteToggled) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = styles.err.Render(fmt.Sprintf("Failed to toggle favorite: %v", msg.err))
		return m, nil
	}

	for i, item := range m.lists[TracksTab].Items() {
		if ti, ok := item.(trackItem); ok && ti.track.ID == msg.track.ID {
			if msg.track.Favorite {
				m.status = styles.ok.Render("★ Favorited: " + msg.track.Title)
			} else {
				m.status = styles.warn.Render("☆ Unfavorited: " + msg.track.Title)
			}
			return m, m.lists[TracksTab].SetItem(i, trackItem{track: msg.track})
		}
	}
	return m, nil
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := ArtistsTab; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == m.tab {
			tabs = append(tabs, styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := m.engine.Snapshot(m.ctx, nil, "Catalog")
		return catalogLoadedMsg(snapshot, err)
	}
}

func (m *Model) toggleFavorite(id string) tea.Cmd {
	return func() tea.Msg {
		track, err := m.catalog.ToggleFavorite(m.ctx, id)
		return favoriteToggledMsg(track, err)
	}
}
