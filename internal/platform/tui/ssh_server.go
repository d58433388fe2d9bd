package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/storage"
	"github.com/vovakirdan/ulvestein/internal/world"
)

// WorldFactory builds a fresh world for a map id.
type WorldFactory func(mapID string, logger *log.Logger) (*world.World, error)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ulvestein/host_key.
	HostKeyPath string

	// DBPath is the path to the sessions database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MetricsAddress serves prometheus metrics over HTTP. Empty disables it.
	MetricsAddress string

	// TickRate is the simulation rate of every session.
	TickRate int

	// Hold is the key hold window.
	Hold time.Duration

	// NewWorld creates the world for a selected map.
	NewWorld WorldFactory
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.ulvestein/ulvestein.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    30,
		Hold:        defaultHold,
	}
}

// SSHServer wraps a Wish SSH server serving the game.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	metrics *Metrics
	store   *storage.Store
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.NewWorld == nil {
		return nil, errors.New("ssh: no world factory configured")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ulvestein-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open sessions database", "error", err)
		// Continue without storage
		store = nil
	}

	metrics, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("cannot register metrics: %w", err)
	}

	srv := &SSHServer{
		config:  cfg,
		metrics: metrics,
		store:   store,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".ulvestein", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.metricsMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	model := NewSessionModel(SessionDeps{
		Store:    s.store,
		NewWorld: s.config.NewWorld,
		Renderer: bubbletea.MakeRenderer(sshSession),
		Logger:   s.logger.With("user", sshSession.User()),
		Metrics:  s.metrics,
		Hold:     s.config.Hold,
		User:     sshSession.User(),
	}, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// metricsMiddleware tracks connected sessions.
func (s *SSHServer) metricsMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.metrics.SessionStarted()
		defer s.metrics.SessionEnded()
		next(sshSession)
	}
}

// ListenAndServe starts the SSH server, and the metrics server when
// configured, and blocks until SIGINT/SIGTERM or a server failure.
func (s *SSHServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting SSH server", "address", s.config.Address)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})

	var httpServer *http.Server
	if s.config.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		httpServer = &http.Server{
			Addr:              s.config.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			s.logger.Info("starting metrics server", "address", s.config.MetricsAddress)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down...")
		return s.shutdown(httpServer)
	})

	return g.Wait()
}

func (s *SSHServer) shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if httpServer != nil {
		errs = append(errs, httpServer.Shutdown(ctx))
	}
	errs = append(errs, s.server.Shutdown(ctx))
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps are the shared services a session model uses.
type SessionDeps struct {
	Store    *storage.Store
	NewWorld WorldFactory
	Renderer *lipgloss.Renderer
	Logger   *log.Logger
	Metrics  *Metrics
	Hold     time.Duration
	User     string
}

// sessionScreen is the screen a session model shows.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenSessions
	screenGame
)

// SessionModel manages the full session flow: menu -> game -> menu, with
// the sessions table reachable from the menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	deps     SessionDeps
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	sessions SessionsModel
	game     *Model
	err      string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.New(os.Stderr)
	}
	return SessionModel{
		deps:   deps,
		config: cfg,
		menu:   NewMenuModel(deps.Store, cfg).WithRenderer(deps.Renderer),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenSessions:
		return m.updateSessions(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsSessions() {
		m.screen = screenSessions
		m.sessions = NewSessionsModel(m.deps.Store, m.config.ScreenW, m.config.ScreenH).
			WithRenderer(m.deps.Renderer)
		return m, m.sessions.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		w, err := m.deps.NewWorld(selected.MapID, m.deps.Logger)
		if err != nil {
			m.deps.Logger.Error("cannot start map", "map", selected.MapID, "error", err)
			m.err = err.Error()
			m.resetMenu()
			return m, nil
		}

		game := NewModel(w, m.config, GameOptions{
			Store:    m.deps.Store,
			User:     m.deps.User,
			Hold:     m.deps.Hold,
			Logger:   m.deps.Logger,
			Renderer: m.deps.Renderer,
			OnFrame:  m.deps.Metrics.ObserveFrame,
			Embedded: true,
		})
		m.game = &game
		m.screen = screenGame
		m.err = ""
		return m, m.game.Init()
	}

	return m, cmd
}

// updateSessions handles updates on the sessions screen.
func (m SessionModel) updateSessions(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.sessions.Update(msg)
	if sessionsModel, ok := newModel.(SessionsModel); ok {
		m.sessions = sessionsModel
	}

	if m.sessions.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.sessions.IsGoingBack() {
		m.resetMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() {
		m.game = nil
		m.resetMenu()
		return m, m.menu.Init()
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// resetMenu rebuilds the menu so session counts are fresh.
func (m *SessionModel) resetMenu() {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.deps.Store, m.config).WithRenderer(m.deps.Renderer)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
	case screenSessions:
		return m.sessions.View()
	}

	view := m.menu.View()
	if m.err != "" {
		view += "\n" + centerText("error: "+m.err, m.config.ScreenW)
	}
	return view
}
