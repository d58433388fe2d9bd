// Package tui provides the Bubble Tea integration for Ulvestein.
// It runs the fixed-rate game loop, maps keys to actions, presents the
// framebuffer as half-block cells and serves sessions over SSH.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// ID identifies the game loop it belongs to, so ticks still in flight
// when a game ends are not picked up by the next one.
type TickMsg struct {
	ID   uint64
	Time time.Time
}

var loopIDs atomic.Uint64

// nextLoopID returns a fresh game loop id.
func nextLoopID() uint64 {
	return loopIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(id uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}
