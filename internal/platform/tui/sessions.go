package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/storage"
)

// Sessions screen layout constants
const (
	minWidthForSidebar = 90 // Minimum width to show map list sidebar
	sidebarWidth       = 22 // Width of map list sidebar
	maxSessions        = 50 // Max sessions to load
)

// SessionsKeyMap defines the key bindings for the sessions screen.
type SessionsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextMap key.Binding
	PrevMap key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMap, k.PrevMap, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMap, k.PrevMap},
		{k.Back, k.Quit},
	}
}

// DefaultSessionsKeyMap returns default key bindings.
func DefaultSessionsKeyMap() SessionsKeyMap {
	return SessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMap: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next map"),
		),
		PrevMap: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev map"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModel is the Bubble Tea model listing recent sessions per map.
type SessionsModel struct {
	maps        []registry.MapInfo
	mapCursor   int
	store       *storage.Store
	sessions    []storage.Session
	stats       *storage.MapStats
	table       table.Model
	help        help.Model
	keys        SessionsKeyMap
	renderer    *lipgloss.Renderer
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool
}

// NewSessionsModel creates a new sessions model.
func NewSessionsModel(store *storage.Store, width, height int) SessionsModel {
	h := help.New()
	h.ShowAll = false

	m := SessionsModel{
		maps:        registry.List(),
		store:       store,
		keys:        DefaultSessionsKeyMap(),
		help:        h,
		renderer:    lipgloss.DefaultRenderer(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	if len(m.maps) > 0 {
		m.loadSessions(m.maps[0].ID)
	}
	return m
}

// WithRenderer sets the lipgloss renderer used for styling.
func (m SessionsModel) WithRenderer(r *lipgloss.Renderer) SessionsModel {
	if r != nil {
		m.renderer = r
	}
	return m
}

// createTable creates a new table with columns fitted to the width.
func (m *SessionsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 13},
		{Title: "User", Width: 10},
		{Title: "Time", Width: 8},
		{Title: "FPS", Width: 5},
		{Title: "Dist", Width: 7},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	if extra := tableWidth - 55; extra > 0 {
		columns[1].Width += min(extra, 14)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("52")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSessions loads sessions and stats for the given map.
func (m *SessionsModel) loadSessions(mapID string) {
	m.sessions = nil
	m.stats = nil
	if m.store != nil {
		if sessions, err := m.store.RecentSessions(mapID, maxSessions); err == nil {
			m.sessions = sessions
		}
		if stats, err := m.store.GetMapStats(mapID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded sessions.
func (m *SessionsModel) updateTableRows() {
	m.table.SetRows(SessionRows(m.sessions))
	m.table.GotoTop()
}

// SessionRows formats sessions as table rows.
func SessionRows(sessions []storage.Session) []table.Row {
	rows := make([]table.Row, len(sessions))
	for i, s := range sessions {
		user := s.User
		if user == "" {
			user = "-"
		}
		rows[i] = table.Row{
			s.StartedAt.Local().Format("Jan 02 15:04"),
			user,
			formatDuration(s.Duration),
			fmt.Sprintf("%.0f", s.AvgFPS),
			fmt.Sprintf("%.1f", s.Distance),
		}
	}
	return rows
}

// formatDuration renders a duration as m:ss or h:mm:ss.
func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	h, mm, ss := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, ss)
	}
	return fmt.Sprintf("%d:%02d", mm, ss)
}

// Init initializes the sessions model.
func (m SessionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sessions screen.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMap):
			if len(m.maps) > 0 {
				m.mapCursor = (m.mapCursor + 1) % len(m.maps)
				m.loadSessions(m.maps[m.mapCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevMap):
			if len(m.maps) > 0 {
				m.mapCursor = (m.mapCursor - 1 + len(m.maps)) % len(m.maps)
				m.loadSessions(m.maps[m.mapCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the sessions screen.
func (m SessionsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := m.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "SESSIONS"
	if len(m.maps) > 0 {
		title = fmt.Sprintf("SESSIONS - %s", m.maps[m.mapCursor].Title)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected map.
func (m SessionsModel) statsLine() string {
	if m.stats == nil || m.stats.Sessions == 0 {
		return "no sessions yet"
	}
	return fmt.Sprintf("%d sessions  |  %s played  |  %.1f cells walked  |  best %.0f fps",
		m.stats.Sessions, formatDuration(m.stats.TotalTime), m.stats.TotalDistance, m.stats.BestFPS)
}

// renderWideLayout renders the table with a map list sidebar.
func (m SessionsModel) renderWideLayout() string {
	sidebarStyle := m.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Maps\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, info := range m.maps {
		cursor := "  "
		style := m.renderer.NewStyle()
		if i == m.mapCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := info.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := m.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the current map name above the table.
func (m SessionsModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.maps) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.maps[m.mapCursor].Title), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := m.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m SessionsModel) renderTableContent() string {
	if len(m.sessions) == 0 {
		emptyStyle := m.renderer.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No sessions recorded yet.\nPick a map and go exploring!")
	}
	return m.table.View()
}

// SelectedMap returns the ID of the map being shown.
func (m SessionsModel) SelectedMap() string {
	if len(m.maps) == 0 {
		return ""
	}
	return m.maps[m.mapCursor].ID
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SessionsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SessionsModel) IsQuitting() bool {
	return m.quitting
}

// RunSessions runs the sessions screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunSessions(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewSessionsModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(SessionsModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
