package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gridloop/internal/input"
)

// specialKeys maps non-printing terminal keys to registry key codes.
var specialKeys = map[tea.KeyType]input.KeyCode{
	tea.KeyUp:        input.KeyUp,
	tea.KeyDown:      input.KeyDown,
	tea.KeyLeft:      input.KeyLeft,
	tea.KeyRight:     input.KeyRight,
	tea.KeyEnter:     input.KeyEnter,
	tea.KeySpace:     input.KeySpace,
	tea.KeyTab:       input.KeyTab,
	tea.KeyBackspace: input.KeyBackspace,
	tea.KeyDelete:    input.KeyDelete,
	tea.KeyHome:      input.KeyHome,
	tea.KeyEnd:       input.KeyEnd,
	tea.KeyPgUp:      input.KeyPageUp,
	tea.KeyPgDown:    input.KeyPageDown,
}

// keyCode translates a key message to the code games register.
// Alt combinations and multi-rune pastes have no code.
func keyCode(msg tea.KeyMsg) (input.KeyCode, bool) {
	if code, ok := specialKeys[msg.Type]; ok {
		return code, true
	}
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	return input.KeyForRune(msg.Runes[0])
}

// mouseButton translates a Bubble Tea mouse button.
func mouseButton(b tea.MouseButton) (input.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return input.ButtonPrimary, true
	case tea.MouseButtonRight:
		return input.ButtonSecondary, true
	case tea.MouseButtonMiddle:
		return input.ButtonTertiary, true
	default:
		return 0, false
	}
}

// GameKeyMap holds the keys the host keeps for itself while a game runs.
// Everything else goes to the game.
type GameKeyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Screenshot key.Binding
}

// DefaultGameKeyMap returns default host key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "back"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Screenshot, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
