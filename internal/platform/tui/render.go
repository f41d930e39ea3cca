package tui

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-gridloop/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// frame is one presented screen.
type frame struct {
	styled string
	plain  string
}

// FramePresenter is the loop.Presenter of the terminal host. Present runs on
// the loop goroutine and publishes the rendered frame; the Bubble Tea
// goroutine reads it back in View.
type FramePresenter struct {
	latest    atomic.Pointer[frame]
	presented atomic.Int64
}

// Present renders s and makes it the current frame.
func (p *FramePresenter) Present(s *core.Screen) error {
	p.latest.Store(&frame{styled: RenderScreen(s), plain: s.String()})
	p.presented.Add(1)
	return nil
}

// Frame returns the last presented frame with colors, or "" before the
// first one.
func (p *FramePresenter) Frame() string {
	if f := p.latest.Load(); f != nil {
		return f.styled
	}
	return ""
}

// Plain returns the last presented frame without styling.
func (p *FramePresenter) Plain() string {
	if f := p.latest.Load(); f != nil {
		return f.plain
	}
	return ""
}

// Presented returns how many frames have been presented.
func (p *FramePresenter) Presented() int64 {
	return p.presented.Load()
}
