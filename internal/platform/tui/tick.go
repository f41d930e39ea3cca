// Package tui hosts gridloop games in a Bubble Tea program: it feeds
// terminal input to the loop's registry and shows the frames the loop
// presents.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameTickMsg asks a GameModel to pick up the latest presented frame.
// The id keeps ticks of a finished game from reaching its successor.
type frameTickMsg struct {
	id uint64
	at time.Time
}

// tickCmd returns a Bubble Tea command that sends one frame tick for game id
// after a display period. A non-positive rate is treated as 30 per second.
func tickCmd(fps int, id uint64) tea.Cmd {
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameTickMsg{id: id, at: t}
	})
}
