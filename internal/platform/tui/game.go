package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gridloop/internal/config"
	"github.com/vovakirdan/tui-gridloop/internal/input"
	"github.com/vovakirdan/tui-gridloop/internal/logging"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/pacing"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
	"github.com/vovakirdan/tui-gridloop/internal/storage"
)

// Options configures the host models.
type Options struct {
	Store  *storage.Store // nil disables result saving
	Config config.Config
	Logger *log.Logger

	// Width and Height are the terminal size known before the first
	// window size message.
	Width  int
	Height int

	// Seed is handed to game factories; zero lets each game pick one.
	Seed int64

	// ScreenshotDir receives ctrl+s captures. Empty means
	// ~/.gridloop/screenshots.
	ScreenshotDir string

	// Clock paces the loop; nil means the system clock.
	Clock pacing.Clock
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

// loopDoneMsg reports that the loop of game id returned.
type loopDoneMsg struct {
	id  uint64
	err error
}

var gameIDs atomic.Uint64

// GameModel runs one game: the loop runs on its own goroutine while the
// model forwards terminal input to the loop's registry and redraws the last
// presented frame on every display tick.
type GameModel struct {
	id        uint64
	game      registry.Game
	loop      *loop.Loop
	presenter *FramePresenter
	releaser  *KeyReleaser
	logger    *log.Logger
	keys      GameKeyMap

	start tea.Cmd
	stop  context.CancelFunc

	displayFPS    int
	screenshotDir string
	exitOnBack    bool

	done       bool
	err        error
	quitting   bool
	backToMenu bool
	status     string
}

// NewGameModel prepares game for hosting. The loop starts in Init.
func NewGameModel(game registry.Game, opts Options) GameModel {
	logger := opts.logger().With("game", game.ID())
	cfg := opts.Config

	var saver ResultSaver
	if opts.Store != nil {
		saver = opts.Store
	}
	sess := newSession(game, saver, cfg.RateFor(game.ID()), logger)

	presenter := &FramePresenter{}
	loopOpts := []loop.Option{
		loop.WithLogger(logger),
		loop.WithTargetRate(cfg.Loop.TargetFPS),
	}
	if opts.Width > 0 && opts.Height > 0 {
		loopOpts = append(loopOpts, loop.WithSize(opts.Width, opts.Height))
	}
	if opts.Clock != nil {
		loopOpts = append(loopOpts, loop.WithClock(opts.Clock))
	}
	l := loop.New(sess, presenter, loopOpts...)

	id := gameIDs.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	start := func() tea.Msg {
		return loopDoneMsg{id: id, err: l.Run(ctx)}
	}

	return GameModel{
		id:            id,
		game:          game,
		loop:          l,
		presenter:     presenter,
		releaser:      NewKeyReleaser(l.Registry(), cfg.Loop.KeyRelease),
		logger:        logger,
		keys:          DefaultGameKeyMap(),
		start:         start,
		stop:          cancel,
		displayFPS:    cfg.Loop.DisplayFPS,
		screenshotDir: opts.ScreenshotDir,
	}
}

// Init starts the loop and the display ticks.
func (m GameModel) Init() tea.Cmd {
	m.logger.Info("Game started", "title", m.game.Title())
	return tea.Batch(m.start, tickCmd(m.displayFPS, m.id))
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.loop.Resize(msg.Width, msg.Height)
		return m, nil

	case frameTickMsg:
		if msg.id != m.id || m.done {
			return m, nil
		}
		return m, tickCmd(m.displayFPS, m.id)

	case loopDoneMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.done = true
		m.err = msg.err
		if msg.err != nil {
			m.logger.Error("Game stopped", "error", msg.err)
		} else {
			m.logger.Info("Game stopped", "frames", m.loop.Frames())
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.shutdown()
		if m.exitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		m.status = m.saveScreenshot()
		return m, nil
	}

	if code, ok := keyCode(msg); ok && !m.done {
		m.releaser.Press(code)
	}
	return m, nil
}

// handleMouse forwards pointer position and buttons to the registry.
// Releases without a button, which some terminals send, release all three.
func (m GameModel) handleMouse(msg tea.MouseMsg) {
	m.loop.Registry().SetCursor(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if b, ok := mouseButton(msg.Button); ok {
			m.releaser.PressButton(b)
		}
	case tea.MouseActionRelease:
		if b, ok := mouseButton(msg.Button); ok {
			m.releaser.ReleaseButton(b)
			return
		}
		// Many terminals do not say which button went up.
		for _, b := range []input.Button{input.ButtonPrimary, input.ButtonSecondary, input.ButtonTertiary} {
			m.releaser.ReleaseButton(b)
		}
	}
}

// shutdown stops the loop and lets go of every held key.
func (m GameModel) shutdown() {
	m.stop()
	m.releaser.ReleaseAll()
}

// saveScreenshot writes the last frame as plain text and returns a status
// line.
func (m GameModel) saveScreenshot() string {
	dir := m.screenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "screenshot failed: " + err.Error()
		}
		dir = filepath.Join(home, ".gridloop", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "screenshot failed: " + err.Error()
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.presenter.Plain()), 0o600); err != nil {
		return "screenshot failed: " + err.Error()
	}
	m.logger.Debug("Screenshot saved", "path", path)
	return "saved " + path
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the last presented frame.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.presenter.Frame())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("game stopped: " + m.err.Error()))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}

// Loop returns the loop driving the game.
func (m GameModel) Loop() *loop.Loop {
	return m.loop
}

// Done reports whether the loop has returned.
func (m GameModel) Done() bool {
	return m.done
}

// Err returns the error the loop stopped with, if any.
func (m GameModel) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the current terminal until the user leaves it.
func Run(game registry.Game, opts Options) error {
	model := NewGameModel(game, opts)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Pointer motion reaches games like gomoku
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if gm, ok := final.(GameModel); ok {
		gm.shutdown()
		return gm.Err()
	}
	return nil
}
