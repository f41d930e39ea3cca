package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// AppModel is the top-level model: menu -> game -> menu, with the
// scoreboard one key away. Local `menu` and every SSH session run it.
type AppModel struct {
	opts   Options
	screen screen

	menu   MenuModel
	scores ScoreboardModel
	game   *GameModel

	// current is shared by every copy of the model so Shutdown can reach
	// the running game from outside the program.
	current *atomic.Pointer[GameModel]

	quitting bool
}

// NewAppModel creates the application model.
func NewAppModel(opts Options) AppModel {
	return AppModel{
		opts:    opts,
		menu:    NewMenuModel(opts.Store, opts.Width, opts.Height),
		current: &atomic.Pointer[GameModel]{},
	}
}

// Init initializes the application.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.opts.Store, m.opts.Width, m.opts.Height)
		m.screen = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		id := m.menu.Selected().GameID
		game, err := registry.Create(id, m.runtimeConfig())
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			m.opts.logger().Error("Cannot start game", "game", id, "error", err)
			m.menu = NewMenuModel(m.opts.Store, m.opts.Width, m.opts.Height)
			return m, nil
		}
		gm := NewGameModel(game, m.opts)
		m.game = &gm
		m.current.Store(&gm)
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	gm := next.(GameModel)
	m.game = &gm

	switch {
	case gm.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case gm.BackToMenu():
		m.game = nil
		m.current.Store(nil)
		m.screen = screenMenu
		// Rebuilt so that new high scores show up.
		m.menu = NewMenuModel(m.opts.Store, m.opts.Width, m.opts.Height)
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.scores.IsGoingBack():
		m.screen = screenMenu
		m.menu = NewMenuModel(m.opts.Store, m.opts.Width, m.opts.Height)
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m AppModel) runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if m.opts.Width > 0 && m.opts.Height > 0 {
		cfg.ScreenW, cfg.ScreenH = m.opts.Width, m.opts.Height
	}
	if m.opts.Config.Loop.TargetFPS > 0 {
		cfg.TargetFPS = m.opts.Config.Loop.TargetFPS
	}
	cfg.Seed = m.opts.Seed
	return cfg
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Shutdown stops a game that is still running, for hosts that end the
// program from outside.
func (m AppModel) Shutdown() {
	if gm := m.current.Load(); gm != nil {
		gm.shutdown()
	}
}

// RunApp runs the menu-driven application in the current terminal.
func RunApp(opts Options) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if app, ok := final.(AppModel); ok {
		app.Shutdown()
	}
	return err
}
