// Package snake is the classic snake game on a board grid.
package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/board"
	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/games/hud"
	"github.com/vovakirdan/tui-gridloop/internal/input"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
)

// TargetFPS is the move rate; the snake advances one cell per frame.
const TargetFPS = 12

// Board values.
const (
	cellBody = iota + 1
	cellHead
	cellFood
)

// hudHeight is the number of rows above the board frame.
const hudHeight = 2

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

var deltas = [...]core.Point{
	DirRight: {X: 1},
	DirDown:  {Y: 1},
	DirLeft:  {X: -1},
	DirUp:    {Y: -1},
}

// isOpposite checks if two directions are opposite.
func isOpposite(d1, d2 Direction) bool {
	return (d1+2)%4 == d2
}

// Game implements Snake.
type Game struct {
	cfg  core.RuntimeConfig
	host loop.Host
	rng  *rand.Rand

	board  *board.Board
	drawer *board.Drawer

	steer   map[Direction][]*input.Signal
	restart *input.Signal
	pause   *input.Signal

	snake     []core.Point // head at index 0
	direction Direction
	nextDir   Direction
	food      core.Point
	score     int
	tick      uint64

	gameOver bool
	paused   bool
}

func init() {
	registry.Register("snake", func(cfg core.RuntimeConfig) registry.Game {
		return New(cfg)
	})
}

// New creates a game sized to fit cfg's screen.
func New(cfg core.RuntimeConfig) *Game {
	w := core.Clamp((cfg.ScreenW-2)/2, 10, 30)
	h := core.Clamp(cfg.ScreenH-hudHeight-2, 8, 20)

	b := board.New(w, h)
	d := board.NewDrawer(b, 2, 1)
	d.Default = board.Glyph{Rune: ' '}
	d.Bind(cellBody, board.Glyph{Rune: '█', Color: core.ColorGreen})
	d.Bind(cellHead, board.Glyph{Rune: '█', Color: core.ColorBrightGreen})
	d.Bind(cellFood, board.Glyph{Rune: '◆', Color: core.ColorBrightRed, Pad: ' '})

	return &Game{cfg: cfg, board: b, drawer: d}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "snake" }

// Title returns the display name.
func (g *Game) Title() string { return "Snake" }

// Initialize registers the steering keys and starts the first round.
func (g *Game) Initialize(h loop.Host) error {
	g.host = h

	bindings := map[Direction][]input.KeyCode{
		DirUp:    {input.KeyUp, input.KeyW},
		DirDown:  {input.KeyDown, input.KeyS},
		DirLeft:  {input.KeyLeft, input.KeyA},
		DirRight: {input.KeyRight, input.KeyD},
	}
	g.steer = make(map[Direction][]*input.Signal, len(bindings))
	for dir, codes := range bindings {
		for _, code := range codes {
			s, err := h.RegisterKey(code)
			if err != nil {
				return fmt.Errorf("snake: %w", err)
			}
			g.steer[dir] = append(g.steer[dir], s)
		}
	}

	var err error
	if g.restart, err = h.RegisterKey(input.KeyR); err != nil {
		return fmt.Errorf("snake: %w", err)
	}
	if g.pause, err = h.RegisterKey(input.KeyP); err != nil {
		return fmt.Errorf("snake: %w", err)
	}

	h.SetTargetRate(TargetFPS)

	seed := g.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.reset(seed)
	return nil
}

// reset starts a new round.
func (g *Game) reset(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
	g.board.Clear()
	g.score = 0
	g.tick = 0
	g.gameOver = false
	g.paused = false

	y := g.board.Height() / 2
	x := g.board.Width() / 4
	g.snake = []core.Point{{X: x + 2, Y: y}, {X: x + 1, Y: y}, {X: x, Y: y}}
	for i, p := range g.snake {
		v := cellBody
		if i == 0 {
			v = cellHead
		}
		g.board.Set(p.X, p.Y, v) //nolint:errcheck // start cells are inside the minimum board
	}
	g.direction = DirRight
	g.nextDir = DirRight
	g.spawnFood()
}

// spawnFood places food at a random empty cell.
func (g *Game) spawnFood() {
	var empty []core.Point
	for y := 0; y < g.board.Height(); y++ {
		for x := 0; x < g.board.Width(); x++ {
			if g.board.At(x, y) == board.NoData {
				empty = append(empty, core.Point{X: x, Y: y})
			}
		}
	}
	if len(empty) == 0 {
		// The snake fills the board.
		g.food = core.Point{X: -1, Y: -1}
		g.gameOver = true
		return
	}
	g.food = empty[g.rng.Intn(len(empty))]
	g.board.Set(g.food.X, g.food.Y, cellFood) //nolint:errcheck // picked from the board
}

// Update handles input and advances the snake one cell.
func (g *Game) Update(time.Duration) error {
	g.tick++

	if g.restart.IsDown() && g.gameOver {
		g.reset(g.rng.Int63())
		return nil
	}
	if g.pause.IsDown() && !g.gameOver {
		g.paused = !g.paused
	}

	// Edges are consumed every frame so a press made while paused does not
	// fire later.
	g.processInput()

	if g.gameOver || g.paused {
		return nil
	}
	return g.step()
}

// processInput buffers the requested direction for the next move.
func (g *Game) processInput() {
	newDir := g.nextDir
	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		for _, s := range g.steer[dir] {
			if s.IsDown() {
				newDir = dir
			}
		}
	}
	if !isOpposite(newDir, g.direction) {
		g.nextDir = newDir
	}
}

// step moves the snake one cell in the buffered direction.
func (g *Game) step() error {
	g.direction = g.nextDir
	head := g.snake[0]
	next := head.Add(deltas[g.direction])

	if !g.board.InBounds(next.X, next.Y) {
		g.gameOver = true
		return nil
	}

	grow := next == g.food
	body := g.snake
	if !grow {
		body = body[:len(body)-1] // the tail moves out of the way
	}
	for _, p := range body {
		if p == next {
			g.gameOver = true
			return nil
		}
	}

	if !grow {
		tail := g.snake[len(g.snake)-1]
		if err := g.board.Move(tail.X, tail.Y, next.X, next.Y); err != nil {
			return fmt.Errorf("snake: %w", err)
		}
		g.snake = g.snake[:len(g.snake)-1]
	}
	if err := g.board.Set(head.X, head.Y, cellBody); err != nil {
		return fmt.Errorf("snake: %w", err)
	}
	if err := g.board.Set(next.X, next.Y, cellHead); err != nil {
		return fmt.Errorf("snake: %w", err)
	}
	g.snake = append([]core.Point{next}, g.snake...)

	if grow {
		g.score++
		g.spawnFood()
	}
	return nil
}

// Draw renders the status line, the framed board and any overlay.
func (g *Game) Draw(dst *core.Screen) error {
	hud.Status(dst, 0,
		fmt.Sprintf("Snake  Score: %d  Length: %d", g.score, len(g.snake)),
		fmt.Sprintf("%.0f fps", g.host.FPS()))

	w, h := g.drawer.Size()
	x := g.drawer.CenterX(dst.Width())
	y := hudHeight + 1
	dst.DrawBox(core.NewRect(x-1, y-1, w+2, h+2))
	g.drawer.Draw(dst, x, y)

	switch {
	case g.gameOver:
		hud.Overlay(dst, "Game Over", fmt.Sprintf("Score: %d", g.score), "Press R to restart")
	case g.paused:
		hud.Overlay(dst, "Paused", "Press P to continue")
	}
	return nil
}

// Outcome reports the score once the snake has crashed.
func (g *Game) Outcome() (registry.Outcome, bool) {
	return registry.Outcome{Score: g.score}, g.gameOver
}
