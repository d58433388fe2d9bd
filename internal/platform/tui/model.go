package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/snapshot"
	"github.com/vovakirdan/ulvestein/internal/storage"
	"github.com/vovakirdan/ulvestein/internal/world"
)

const (
	maxTickDelta  = 0.25 // Seconds; longer stalls are not simulated
	statusTimeout = 3 * time.Second
	defaultHold   = 160 * time.Millisecond
)

// GameOptions configures a game model.
type GameOptions struct {
	Store    *storage.Store     // Optional; sessions and saves are skipped when nil
	User     string             // Owner of sessions and saves
	Hold     time.Duration      // Key hold window
	ShotDir  string             // Screenshot directory; empty disables Ctrl+S
	Logger   *log.Logger        // Gameplay and persistence events
	Renderer *lipgloss.Renderer // Per-session renderer over SSH

	// OnFrame is called with the time spent drawing each frame.
	OnFrame func(time.Duration)

	// Embedded models return to a menu instead of quitting the program.
	Embedded bool
}

// Model is the Bubble Tea model running one world.
type Model struct {
	world  *world.World
	frame  *core.Frame
	screen *core.Screen
	input  *core.InputState
	keys   *KeyMapper
	out    *ScreenRenderer
	fps    *core.FPSCounter
	opts   GameOptions
	config core.RuntimeConfig
	now    func() time.Time
	loopID uint64

	started  time.Time
	lastTick time.Time
	frames   int64
	paused   bool
	quitting bool
	done     bool
	finished bool

	status      string
	statusUntil time.Time
}

// NewModel creates a new Bubble Tea model for the given world.
func NewModel(w *world.World, cfg core.RuntimeConfig, opts GameOptions) Model {
	if opts.Hold <= 0 {
		opts.Hold = defaultHold
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	fw, fh := cfg.FrameSize()
	return Model{
		world:   w,
		frame:   core.NewFrame(fw, fh),
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		input:   core.NewInputState(opts.Hold),
		keys:    NewKeyMapper(),
		out:     NewScreenRenderer(opts.Renderer),
		fps:     &core.FPSCounter{},
		opts:    opts,
		config:  cfg,
		now:     time.Now,
		loopID:  nextLoopID(),
		started: time.Now(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Ulvestein"),
		tickCmd(m.loopID, m.config.TickRate),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.ID != m.loopID {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// handleKey records key presses. Movement is applied on the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKey(msg)
	if action != core.ActionQuit {
		m.input.Press(action, m.now())
		return m, nil
	}

	m.finish()
	if m.opts.Embedded && !m.keys.IsHardQuit(msg) {
		m.done = true
		return m, nil
	}
	m.quitting = true
	return m, tea.Quit
}

// handleResize reallocates the frame and screen. World state is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.frame.Resize(m.config.FrameSize())
	return m, nil
}

// handleTick advances the world by the wall time since the last tick.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.done || m.quitting {
		return m, nil
	}

	dt := 0.0
	if !m.lastTick.IsZero() {
		dt = min(t.Sub(m.lastTick).Seconds(), maxTickDelta)
	}
	m.lastTick = t

	in := m.input.Frame(t)
	if in.Has(core.ActionPause) {
		m.paused = !m.paused
		m.input.Release()
		m.opts.Logger.Info("pause toggled", "paused", m.paused)
	}
	if in.Has(core.ActionScreenshot) {
		m.saveScreenshot(t)
	}
	// Time stands still while paused; clip and FOV keys still apply
	if m.paused {
		dt = 0
	}
	m.world.Update(dt, in)

	m.frames++
	fps := m.fps.Tick(t)

	cmds := []tea.Cmd{tickCmd(m.loopID, m.config.TickRate)}
	if m.frames%int64(m.config.TickRate) == 0 {
		cmds = append(cmds, tea.SetWindowTitle(fmt.Sprintf("Ulvestein - FPS %.0f", fps)))
	}
	return m, tea.Batch(cmds...)
}

// saveScreenshot writes the current view with a minimap as PNG.
func (m *Model) saveScreenshot(t time.Time) {
	if m.opts.ShotDir == "" {
		m.setStatus("screenshots disabled", t)
		return
	}
	m.world.Draw(m.frame)
	path := snapshot.Filename(m.opts.ShotDir, m.world.Map.ID, t)
	if err := snapshot.SavePNG(m.frame, m.world, path, true); err != nil {
		m.opts.Logger.Warn("screenshot failed", "error", err)
		m.setStatus("screenshot failed", t)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
	m.setStatus("saved "+path, t)
}

func (m *Model) setStatus(text string, t time.Time) {
	m.status = text
	m.statusUntil = t.Add(statusTimeout)
}

// finish records the session and the player position. It runs once.
func (m *Model) finish() {
	if m.finished {
		return
	}
	m.finished = true

	elapsed := m.now().Sub(m.started)
	avg := 0.0
	if elapsed > 0 {
		avg = float64(m.frames) / elapsed.Seconds()
	}
	m.opts.Logger.Info("session finished",
		"map", m.world.Map.ID,
		"frames", m.frames,
		"duration", elapsed.Round(time.Millisecond),
		"distance", m.world.Distance(),
	)

	if m.opts.Store == nil {
		return
	}

	_, err := m.opts.Store.SaveSession(storage.Session{
		MapID:     m.world.Map.ID,
		User:      m.opts.User,
		StartedAt: m.started,
		Duration:  elapsed,
		Frames:    m.frames,
		AvgFPS:    avg,
		Distance:  m.world.Distance(),
	})
	if err != nil {
		m.opts.Logger.Warn("could not save session", "error", err)
	}

	p := m.world.Player
	err = m.opts.Store.SavePosition(storage.Save{
		MapID: m.world.Map.ID,
		User:  m.opts.User,
		X:     p.Pos.X,
		Y:     p.Pos.Y,
		Angle: p.Angle,
		Clip:  m.world.Clip,
		FOV:   m.world.FOV(),
	})
	if err != nil {
		m.opts.Logger.Warn("could not save position", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.done {
		return ""
	}

	start := time.Now()
	m.world.Draw(m.frame)
	if m.opts.OnFrame != nil {
		m.opts.OnFrame(time.Since(start))
	}

	m.screen.Clear()
	m.screen.DrawFrame(m.frame, 0)
	if m.paused {
		m.screen.DrawTextCentered((m.screen.Height()-core.StatusLines)/2, " PAUSED ")
	}
	m.screen.DrawText(0, m.screen.Height()-core.StatusLines, m.statusLine())

	return m.out.Render(m.screen)
}

// statusLine describes the player state below the view.
func (m Model) statusLine() string {
	p := m.world.Player
	clip := "on"
	if !m.world.Clip {
		clip = "off"
	}
	line := fmt.Sprintf(" %s  x=%.2f y=%.2f  fov=%.0f  clip=%s  fps=%.0f",
		m.world.Map.Name, p.Pos.X, p.Pos.Y, m.world.FOV(), clip, m.fps.FPS())
	if m.paused {
		line += "  PAUSED"
	}
	if m.status != "" && m.now().Before(m.statusUntil) {
		line += "  " + m.status
	}
	return line
}

// World returns the running world.
func (m Model) World() *world.World {
	return m.world
}

// Frames returns the number of ticks simulated.
func (m Model) Frames() int64 {
	return m.frames
}

// Paused reports whether the simulation is paused.
func (m Model) Paused() bool {
	return m.paused
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if an embedded game was left with Q or Esc.
func (m Model) BackToMenu() bool {
	return m.done
}

// Run starts the Bubble Tea program for the world.
func Run(w *world.World, cfg core.RuntimeConfig, opts GameOptions) error {
	model := NewModel(w, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		// Interrupted programs never saw a quit key
		fm.finish()
	}
	return err
}
