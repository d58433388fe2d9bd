package core

import "time"

// Action represents a semantic input action, abstracted from physical keys.
type Action int

const (
	ActionNone        Action = iota
	ActionForward            // W, Up arrow
	ActionBackward           // S, Down arrow
	ActionTurnLeft           // Left arrow
	ActionTurnRight          // Right arrow
	ActionStrafeLeft         // A
	ActionStrafeRight        // D
	ActionToggleClip         // N - noclip on/off
	ActionFovUp              // + or =
	ActionFovDown            // -
	ActionPause              // P
	ActionScreenshot         // Ctrl+S
	ActionQuit               // Q, Esc, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionForward:
		return "Forward"
	case ActionBackward:
		return "Backward"
	case ActionTurnLeft:
		return "TurnLeft"
	case ActionTurnRight:
		return "TurnRight"
	case ActionStrafeLeft:
		return "StrafeLeft"
	case ActionStrafeRight:
		return "StrafeRight"
	case ActionToggleClip:
		return "ToggleClip"
	case ActionFovUp:
		return "FovUp"
	case ActionFovDown:
		return "FovDown"
	case ActionPause:
		return "Pause"
	case ActionScreenshot:
		return "Screenshot"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Continuous reports whether the action is meant to be held (movement and
// turning) rather than triggered once.
func (a Action) Continuous() bool {
	switch a {
	case ActionForward, ActionBackward, ActionTurnLeft, ActionTurnRight,
		ActionStrafeLeft, ActionStrafeRight:
		return true
	}
	return false
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were active this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was active this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// InputState turns key presses into held actions.
// Terminals report presses (with auto-repeat) but never releases, so a
// continuous action counts as held until its last press is older than the
// hold window. One-shot actions are queued and drained once per tick.
type InputState struct {
	hold     time.Duration
	lastSeen map[Action]time.Time
	pending  []Action
}

// NewInputState creates an input state with the given hold window.
func NewInputState(hold time.Duration) *InputState {
	return &InputState{
		hold:     hold,
		lastSeen: make(map[Action]time.Time),
	}
}

// Press records a key press at time now.
func (s *InputState) Press(a Action, now time.Time) {
	if a == ActionNone {
		return
	}
	if a.Continuous() {
		s.lastSeen[a] = now
		return
	}
	s.pending = append(s.pending, a)
}

// Frame builds the input frame for a tick at time now and drains one-shot
// actions.
func (s *InputState) Frame(now time.Time) InputFrame {
	f := NewInputFrame()
	for a, t := range s.lastSeen {
		if now.Sub(t) <= s.hold {
			f.Set(a)
		} else {
			delete(s.lastSeen, a)
		}
	}
	for _, a := range s.pending {
		f.Set(a)
	}
	s.pending = s.pending[:0]
	return f
}

// Release forgets every held action, e.g. when the game is paused.
func (s *InputState) Release() {
	for a := range s.lastSeen {
		delete(s.lastSeen, a)
	}
}
