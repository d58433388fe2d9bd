package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ulvestein/internal/config"
	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/storage"
)

const roomMap = `
id: room
name: Room
materials:
  - {symbol: "#", id: 1, texture: stone}
layout:
  - "#####"
  - "#>..#"
  - "#...#"
  - "#####"
`

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/.ulvestein/x.db", filepath.Join(home, ".ulvestein", "x.db")},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}

	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWorldBuilderBuiltin(t *testing.T) {
	b := newWorldBuilder(config.DefaultConfig())

	m, err := b.loadMap("", "")
	if err != nil {
		t.Fatalf("loadMap failed: %v", err)
	}
	if m.ID != registry.First() {
		t.Errorf("default map = %q, want %q", m.ID, registry.First())
	}

	if _, err := b.loadMap("no-such-map", ""); err == nil {
		t.Error("expected error for unknown map")
	}

	w, err := b.forMap("mirrors", log.New(io.Discard))
	if err != nil {
		t.Fatalf("forMap failed: %v", err)
	}
	if w.Map.ID != "mirrors" {
		t.Errorf("world map = %q, want mirrors", w.Map.ID)
	}
	if !w.Clip {
		t.Error("clip should follow the config default")
	}
}

func TestWorldBuilderMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	if err := os.WriteFile(path, []byte(roomMap), 0o644); err != nil {
		t.Fatal(err)
	}

	b := newWorldBuilder(config.DefaultConfig())
	m, err := b.loadMap("ignored", path)
	if err != nil {
		t.Fatalf("loadMap failed: %v", err)
	}
	if m.ID != "room" || m.Width != 5 || m.Height != 4 {
		t.Errorf("map = %s %dx%d, want room 5x4", m.ID, m.Width, m.Height)
	}

	w := b.build(m, log.New(io.Discard), true)
	if w.Clip {
		t.Error("noclip world should start without collision")
	}
}

func TestResume(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	b := newWorldBuilder(config.DefaultConfig())
	w, err := b.forMap("e1m1", log.New(io.Discard))
	if err != nil {
		t.Fatalf("forMap failed: %v", err)
	}
	spawn := w.Player.Pos

	// Nothing saved yet
	resume(w, store, "alice", log.New(io.Discard))
	if w.Player.Pos != spawn {
		t.Errorf("position moved without a save: %v", w.Player.Pos)
	}

	err = store.SavePosition(storage.Save{
		MapID: "e1m1", User: "alice",
		X: 2.25, Y: 3.75, Angle: 1, Clip: false, FOV: 90,
	})
	if err != nil {
		t.Fatalf("SavePosition failed: %v", err)
	}

	resume(w, store, "alice", log.New(io.Discard))
	if w.Player.Pos.X != 2.25 || w.Player.Pos.Y != 3.75 {
		t.Errorf("position = %v, want (2.25, 3.75)", w.Player.Pos)
	}
	if w.Player.Angle != 1 {
		t.Errorf("angle = %v, want 1", w.Player.Angle)
	}
	if w.Clip {
		t.Error("clip should be restored as off")
	}
	if w.FOV() != 90 {
		t.Errorf("fov = %v, want 90", w.FOV())
	}

	// Nil store is a no-op
	resume(w, nil, "alice", log.New(io.Discard))
}

func TestKnownMap(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := store.SaveSession(storage.Session{MapID: "room", Duration: time.Second}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	tests := []struct {
		mapID string
		want  bool
	}{
		{"e1m1", true},     // built in, never played
		{"room", true},     // played from a map file
		{"nowhere", false}, // neither
	}

	for _, tt := range tests {
		got, err := knownMap(store, tt.mapID)
		if err != nil {
			t.Fatalf("knownMap(%q) failed: %v", tt.mapID, err)
		}
		if got != tt.want {
			t.Errorf("knownMap(%q) = %v, want %v", tt.mapID, got, tt.want)
		}
	}
}
