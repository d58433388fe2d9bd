package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/storage"
)

// MenuItem represents a selectable map in the menu.
type MenuItem struct {
	MapID    string
	Title    string
	Sessions int // Sessions played, from the store
}

// MenuModel is the Bubble Tea model for the map picker.
type MenuModel struct {
	items        []MenuItem
	cursor       int
	width        int
	height       int
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	renderer     *lipgloss.Renderer
	quitting     bool
	selected     *MenuItem // Set when user selects a map
	openSessions bool      // True if user pressed Tab for sessions
}

// NewMenuModel creates a new menu model listing the registered maps.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	maps := registry.List()
	items := make([]MenuItem, 0, len(maps))

	for _, info := range maps {
		item := MenuItem{MapID: info.ID, Title: info.Title}
		if store != nil {
			if stats, err := store.GetMapStats(info.ID); err == nil {
				item.Sessions = stats.Sessions
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		renderer:  lipgloss.DefaultRenderer(),
	}
}

// WithRenderer sets the lipgloss renderer used for styling.
func (m MenuModel) WithRenderer(r *lipgloss.Renderer) MenuModel {
	if r != nil {
		m.renderer = r
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return tea.SetWindowTitle("Ulvestein")
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionSessions:
		m.openSessions = true
		return m, tea.Quit // Exit menu to show sessions
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := m.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	activeStyle := m.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("U L V E S T E I N"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a map", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(dimStyle.Render("No maps registered."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		line := fmt.Sprintf("  %s", item.Title)
		if item.Sessions > 0 {
			line += fmt.Sprintf(" (%d played)", item.Sessions)
		}
		if i == m.cursor {
			line = activeStyle.Render("> " + line[2:])
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Sessions  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsSessions returns true if user requested the sessions screen.
func (m MenuModel) WantsSessions() bool {
	return m.openSessions
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. ANSI sequences are not
// counted towards the text width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	MapID         string
	Config        core.RuntimeConfig
	WantsSessions bool
	Quit          bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	if m.WantsSessions() {
		result.WantsSessions = true
		return result, nil
	}

	if m.IsQuitting() {
		result.Quit = true
		return result, nil
	}

	if m.Selected() != nil {
		result.MapID = m.Selected().MapID
	} else {
		result.Quit = true
	}

	return result, nil
}
