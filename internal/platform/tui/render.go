package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/ulvestein/internal/core"
)

// styleKey identifies the colours of a run of cells.
type styleKey struct {
	fg, bg core.RGB
	plain  bool
}

// ScreenRenderer converts Screen buffers to styled strings.
// Styles are cached per colour pair; a renderer is not safe for concurrent use.
type ScreenRenderer struct {
	renderer *lipgloss.Renderer
	styles   map[styleKey]lipgloss.Style
}

// NewScreenRenderer creates a screen renderer on top of a lipgloss renderer.
// A nil renderer uses the default one (stdout). SSH sessions pass their own.
func NewScreenRenderer(r *lipgloss.Renderer) *ScreenRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &ScreenRenderer{
		renderer: r,
		styles:   make(map[styleKey]lipgloss.Style),
	}
}

// style returns the cached style for a run.
func (sr *ScreenRenderer) style(k styleKey) lipgloss.Style {
	if st, ok := sr.styles[k]; ok {
		return st
	}
	st := sr.renderer.NewStyle()
	if !k.plain {
		st = st.
			Foreground(lipgloss.Color(k.fg.Hex())).
			Background(lipgloss.Color(k.bg.Hex()))
	}
	sr.styles[k] = st
	return st
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func (sr *ScreenRenderer) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colours
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			key := keyOf(cell)

			run.Reset()
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if keyOf(cell) != key {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(sr.style(key).Render(run.String()))
		}
	}
	return sb.String()
}

func keyOf(c core.Cell) styleKey {
	if c.Plain {
		return styleKey{plain: true}
	}
	return styleKey{fg: c.FG, bg: c.BG}
}

// RenderScreen renders a screen with the default lipgloss renderer.
func RenderScreen(s *core.Screen) string {
	return NewScreenRenderer(nil).Render(s)
}
