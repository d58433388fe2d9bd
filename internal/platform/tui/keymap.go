package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return core.ActionQuit
	case "w", "up":
		return core.ActionForward
	case "s", "down":
		return core.ActionBackward
	case "left":
		return core.ActionTurnLeft
	case "right":
		return core.ActionTurnRight
	case "a":
		return core.ActionStrafeLeft
	case "d":
		return core.ActionStrafeRight
	case "n":
		return core.ActionToggleClip
	case "+", "=":
		return core.ActionFovUp
	case "-":
		return core.ActionFovDown
	case "p":
		return core.ActionPause
	case "ctrl+s":
		return core.ActionScreenshot
	}

	return core.ActionNone
}

// IsHardQuit reports whether the key ends the whole program rather than
// the current game.
func (km *KeyMapper) IsHardQuit(msg tea.KeyMsg) bool {
	return msg.String() == "ctrl+c"
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionSessions
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionSessions
	}

	return MenuActionNone
}
