// Package gomoku is five-in-a-row for two players sharing one terminal.
package gomoku

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/board"
	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/games/hud"
	"github.com/vovakirdan/tui-gridloop/internal/input"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
)

const (
	// Size is the number of lines on each side of the board.
	Size = 19

	// TargetFPS keeps the pointer highlight responsive.
	TargetFPS = 30

	// WinLength is the run of stones that wins.
	WinLength = 5
)

// Board values. The cursor is drawn with cursorBase plus the value under it.
const (
	stoneBlue = iota + 1
	stoneRed
	cursorBase
)

var playerNames = map[int]string{stoneBlue: "Blue", stoneRed: "Red"}

// Game implements Gomoku.
type Game struct {
	host   loop.Host
	board  *board.Board
	drawer *board.Drawer

	move    map[core.Point]*input.Signal
	place   []*input.Signal
	restart *input.Signal
	click   *input.Signal

	cursor    core.Point
	lastMouse core.Point

	turn     int
	moves    int
	winner   int
	finished bool
}

func init() {
	registry.Register("gomoku", func(core.RuntimeConfig) registry.Game {
		return New()
	})
}

// New creates an empty game with Blue to move.
func New() *Game {
	b := board.New(Size, Size)
	d := board.NewDrawer(b, 2, 1)
	d.Default = board.Glyph{Rune: '┼', Color: core.ColorGray, Pad: '─'}
	d.Bind(stoneBlue, board.Glyph{Rune: '●', Color: core.ColorBrightBlue, Pad: '─'})
	d.Bind(stoneRed, board.Glyph{Rune: '●', Color: core.ColorBrightRed, Pad: '─'})
	d.Bind(cursorBase, board.Glyph{Rune: '◇', Color: core.ColorBrightYellow, Pad: '─'})
	d.Bind(cursorBase+stoneBlue, board.Glyph{Rune: '◉', Color: core.ColorBlue, Pad: '─'})
	d.Bind(cursorBase+stoneRed, board.Glyph{Rune: '◉', Color: core.ColorRed, Pad: '─'})

	g := &Game{board: b, drawer: d}
	g.reset()
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return "gomoku" }

// Title returns the display name.
func (g *Game) Title() string { return "Gomoku" }

// Initialize registers the pointer and keyboard controls.
func (g *Game) Initialize(h loop.Host) error {
	g.host = h

	moves := map[input.KeyCode]core.Point{
		input.KeyUp:    {Y: -1},
		input.KeyDown:  {Y: 1},
		input.KeyLeft:  {X: -1},
		input.KeyRight: {X: 1},
	}
	g.move = make(map[core.Point]*input.Signal, len(moves))
	for code, d := range moves {
		s, err := h.RegisterKey(code)
		if err != nil {
			return fmt.Errorf("gomoku: %w", err)
		}
		g.move[d] = s
	}
	for _, code := range []input.KeyCode{input.KeySpace, input.KeyEnter} {
		s, err := h.RegisterKey(code)
		if err != nil {
			return fmt.Errorf("gomoku: %w", err)
		}
		g.place = append(g.place, s)
	}

	var err error
	if g.restart, err = h.RegisterKey(input.KeyR); err != nil {
		return fmt.Errorf("gomoku: %w", err)
	}
	if g.click, err = h.RegisterButton(input.ButtonPrimary); err != nil {
		return fmt.Errorf("gomoku: %w", err)
	}

	g.lastMouse.X, g.lastMouse.Y = h.Cursor()
	h.SetTargetRate(TargetFPS)
	return nil
}

func (g *Game) reset() {
	g.board.Clear()
	g.turn = stoneBlue
	g.moves = 0
	g.winner = 0
	g.finished = false
	g.cursor = core.Point{X: Size / 2, Y: Size / 2}
}

// origin is where the board is drawn for a screen of the given bounds.
func (g *Game) origin(bounds core.Rect) (x, y int) {
	return g.drawer.CenterX(bounds.W), max(2, g.drawer.CenterY(bounds.H)+1)
}

// Update follows the pointer and keyboard and places a stone on request.
func (g *Game) Update(time.Duration) error {
	if g.restart.IsDown() {
		g.reset()
	}

	ox, oy := g.origin(g.host.Bounds())
	mx, my := g.host.Cursor()
	mouse := core.Point{X: mx, Y: my}
	if mouse != g.lastMouse {
		g.lastMouse = mouse
		if x, y, ok := g.drawer.CellAt(ox, oy, mx, my); ok {
			g.cursor = core.Point{X: x, Y: y}
		}
	}

	for d, s := range g.move {
		if s.IsDown() {
			g.cursor.X = core.Clamp(g.cursor.X+d.X, 0, Size-1)
			g.cursor.Y = core.Clamp(g.cursor.Y+d.Y, 0, Size-1)
		}
	}

	place := false
	for _, s := range g.place {
		if s.IsDown() {
			place = true
		}
	}
	if g.click.IsDown() {
		if x, y, ok := g.drawer.CellAt(ox, oy, mx, my); ok {
			g.cursor = core.Point{X: x, Y: y}
			place = true
		}
	}

	if place && !g.finished {
		if err := g.play(g.cursor); err != nil {
			return err
		}
	}

	under := g.board.At(g.cursor.X, g.cursor.Y)
	return g.drawer.SetCursor(g.cursor.X, g.cursor.Y, cursorBase+under)
}

// play puts the current player's stone at p if the point is free.
func (g *Game) play(p core.Point) error {
	v, err := g.board.Get(p.X, p.Y)
	if err != nil {
		return fmt.Errorf("gomoku: %w", err)
	}
	if v != board.NoData {
		return nil
	}
	if err := g.board.Set(p.X, p.Y, g.turn); err != nil {
		return fmt.Errorf("gomoku: %w", err)
	}
	g.moves++

	switch {
	case g.wins(p):
		g.finished = true
		g.winner = g.turn
	case g.moves == Size*Size:
		g.finished = true
	default:
		g.turn = stoneBlue + stoneRed - g.turn
	}
	return nil
}

// wins reports whether the stone at p completes a line of WinLength,
// counting both directions along each axis.
func (g *Game) wins(p core.Point) bool {
	id := g.board.At(p.X, p.Y)
	for _, d := range []core.Point{{X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}} {
		n := 1 + g.run(p, d, id) + g.run(p, core.Point{X: -d.X, Y: -d.Y}, id)
		if n >= WinLength {
			return true
		}
	}
	return false
}

// run counts consecutive stones of id from p (exclusive) along d.
func (g *Game) run(p, d core.Point, id int) int {
	n := 0
	for q := p.Add(d); g.board.InBounds(q.X, q.Y) && g.board.At(q.X, q.Y) == id; q = q.Add(d) {
		n++
	}
	return n
}

// Draw renders the status line and the board.
func (g *Game) Draw(dst *core.Screen) error {
	var status string
	switch {
	case g.finished && g.winner != 0:
		status = fmt.Sprintf("%s wins after %d moves!  R: new game", playerNames[g.winner], g.moves)
	case g.finished:
		status = "Draw!  R: new game"
	default:
		status = fmt.Sprintf("%s to move  (%d, %d)", playerNames[g.turn], g.cursor.X+1, g.cursor.Y+1)
	}
	hud.Status(dst, 0, "Gomoku  "+status, fmt.Sprintf("%.0f fps", g.host.FPS()))

	x, y := g.origin(dst.Bounds())
	g.drawer.Draw(dst, x, y)
	return nil
}

// Outcome reports the winner, or a draw when the board filled up.
func (g *Game) Outcome() (registry.Outcome, bool) {
	return registry.Outcome{Score: g.moves, Winner: playerNames[g.winner]}, g.finished
}
