package tui

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/storage"
	"github.com/vovakirdan/ulvestein/internal/world"
)

const testMap = `
id: box
name: Box
materials:
  - {symbol: "#", id: 1, texture: brick}
layout:
  - "######"
  - "#>...#"
  - "#....#"
  - "######"
`

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, opts GameOptions) Model {
	t.Helper()
	m, err := world.ParseMap([]byte(testMap), world.LoadOptions{})
	if err != nil {
		t.Fatalf("ParseMap failed: %v", err)
	}
	s := world.DefaultSettings()
	s.Gun = false

	if opts.Hold == 0 {
		opts.Hold = time.Second
	}
	model := NewModel(world.New(m, s), core.RuntimeConfig{ScreenW: 40, ScreenH: 13, TickRate: 60}, opts)
	model.now = func() time.Time { return t0 }
	model.started = t0.Add(-time.Second)
	return model
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func tick(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	m, _ = send(t, m, TickMsg{ID: m.loopID, Time: at})
	return m
}

func TestModelWalksOnHeldKey(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, _ = send(t, m, runeKey('w'))
	m = tick(t, m, t0)
	m = tick(t, m, t0.Add(100*time.Millisecond))

	pos := m.World().Player.Pos
	if math.Abs(pos.X-1.73) > 1e-9 || math.Abs(pos.Y-1.5) > 1e-9 {
		t.Errorf("pos = %v, expected (1.73, 1.5)", pos)
	}
	if m.Frames() != 2 {
		t.Errorf("frames = %d, expected 2", m.Frames())
	}

	// The press expires after the hold window
	before := m.World().Player.Pos
	m = tick(t, m, t0.Add(2*time.Second))
	if m.World().Player.Pos != before {
		t.Error("released key should not move the player")
	}
}

func TestModelCapsTickDelta(t *testing.T) {
	m := newTestModel(t, GameOptions{Hold: time.Hour})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = tick(t, m, t0)
	m = tick(t, m, t0.Add(10*time.Second))

	want := 105 * math.Pi / 180 * maxTickDelta
	if got := m.World().Player.Angle; math.Abs(got-want) > 1e-9 {
		t.Errorf("angle = %f, expected %f", got, want)
	}
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, cmd := send(t, m, TickMsg{ID: m.loopID + 1, Time: t0})
	if cmd != nil || m.Frames() != 0 {
		t.Error("ticks from another loop must be ignored")
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, _ = send(t, m, runeKey('p'))
	m = tick(t, m, t0)
	if !m.Paused() {
		t.Fatal("expected paused")
	}

	m, _ = send(t, m, runeKey('w'))
	m = tick(t, m, t0.Add(100*time.Millisecond))
	if m.World().Player.Pos != core.V(1.5, 1.5) {
		t.Errorf("paused world moved to %v", m.World().Player.Pos)
	}
	if !strings.Contains(m.statusLine(), "PAUSED") {
		t.Errorf("status line %q should mention pause", m.statusLine())
	}

	m, _ = send(t, m, runeKey('p'))
	m = tick(t, m, t0.Add(200*time.Millisecond))
	if m.Paused() {
		t.Error("second press should resume")
	}
}

func TestModelPausedOneShotActions(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, _ = send(t, m, runeKey('p'))
	m = tick(t, m, t0)

	m, _ = send(t, m, runeKey('n'))
	m, _ = send(t, m, runeKey('+'))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = tick(t, m, t0.Add(100*time.Millisecond))

	if !m.Paused() {
		t.Fatal("expected to stay paused")
	}
	if m.World().Clip {
		t.Error("clip toggle should apply while paused")
	}
	if m.World().FOV() != 70 {
		t.Errorf("fov = %v, expected 70 after one step while paused", m.World().FOV())
	}
	if m.World().Player.Angle != 0 {
		t.Errorf("paused player turned to %v", m.World().Player.Angle)
	}
}

func TestModelToggleClip(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, _ = send(t, m, runeKey('n'))
	m = tick(t, m, t0)
	if m.World().Clip {
		t.Error("n should disable clipping")
	}
	if !strings.Contains(m.statusLine(), "clip=off") {
		t.Errorf("status line = %q", m.statusLine())
	}
}

func TestModelResizeKeepsWorld(t *testing.T) {
	m := newTestModel(t, GameOptions{})
	m.World().Place(core.V(3.5, 2.5), 1)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 11})
	if m.frame.Width() != 20 || m.frame.Height() != 20 {
		t.Errorf("frame = %dx%d, expected 20x20", m.frame.Width(), m.frame.Height())
	}
	if m.screen.Width() != 20 || m.screen.Height() != 11 {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
	if m.World().Player.Pos != core.V(3.5, 2.5) {
		t.Error("resize should keep the player")
	}
}

func TestModelView(t *testing.T) {
	var observed int
	m := newTestModel(t, GameOptions{OnFrame: func(time.Duration) { observed++ }})

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 13 {
		t.Fatalf("expected 13 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[12], "Box") || !strings.Contains(lines[12], "fov=65") {
		t.Errorf("status line = %q", lines[12])
	}
	if !strings.Contains(lines[0], string(core.HalfBlock)) {
		t.Error("view rows should be half blocks")
	}
	if observed != 1 {
		t.Errorf("OnFrame called %d times", observed)
	}
}

func TestModelQuitSavesSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, GameOptions{Store: store, User: "alice"})
	m, _ = send(t, m, runeKey('w'))
	m = tick(t, m, t0)
	m = tick(t, m, t0.Add(100*time.Millisecond))

	m, cmd := send(t, m, runeKey('q'))
	if cmd == nil || !m.IsQuitting() {
		t.Fatal("q should quit a standalone game")
	}

	sessions, err := store.RecentSessions("box", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].User != "alice" || sessions[0].Frames != 2 || sessions[0].Duration != time.Second {
		t.Errorf("session = %+v", sessions[0])
	}
	if math.Abs(sessions[0].Distance-0.23) > 1e-9 {
		t.Errorf("distance = %f", sessions[0].Distance)
	}

	sv, err := store.LoadPosition("box", "alice")
	if err != nil {
		t.Fatalf("LoadPosition() failed: %v", err)
	}
	if math.Abs(sv.X-1.73) > 1e-9 || !sv.Clip || sv.FOV != 65 {
		t.Errorf("save = %+v", sv)
	}

	// A second finish must not write again
	m.finish()
	sessions, _ = store.RecentSessions("box", 10)
	if len(sessions) != 1 {
		t.Errorf("session saved twice")
	}
}

func TestModelEmbeddedQuit(t *testing.T) {
	m := newTestModel(t, GameOptions{Embedded: true})

	back, cmd := send(t, m, runeKey('q'))
	if !back.BackToMenu() || back.IsQuitting() || cmd != nil {
		t.Error("q in an embedded game should go back to the menu")
	}
	if back.View() != "" {
		t.Error("finished game should render nothing")
	}

	quit, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !quit.IsQuitting() || cmd == nil {
		t.Error("ctrl+c should quit the program")
	}
}

func TestModelScreenshot(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, GameOptions{ShotDir: dir})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = tick(t, m, t0)

	matches, err := filepath.Glob(filepath.Join(dir, "box-*.png"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one screenshot, got %v (%v)", matches, err)
	}
	if !strings.Contains(m.statusLine(), "saved") {
		t.Errorf("status line = %q", m.statusLine())
	}
}

func TestModelScreenshotDisabled(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = tick(t, m, t0)
	if !strings.Contains(m.statusLine(), "screenshots disabled") {
		t.Errorf("status line = %q", m.statusLine())
	}
}
