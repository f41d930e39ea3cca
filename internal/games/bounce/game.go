// Package bounce is a ball falling and bouncing across a board with a few
// fixed shapes drawn on it. The arrow keys change the frame rate while it
// runs, which makes it handy for watching the pacing.
package bounce

import (
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/board"
	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/games/hud"
	"github.com/vovakirdan/tui-gridloop/internal/input"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
)

const (
	Width  = 40
	Height = 20

	// TargetFPS is the starting rate. Physics advance once per frame, so
	// the rate is also the speed of the ball.
	TargetFPS = 10
)

// rates are the steps the arrow keys move through.
var rates = []int{1, 2, 5, 10, 15, 20, 30, 45, 60}

const (
	gravity     = 1.0
	floorBounce = -6.0
	kick        = -6.0
)

// Board values.
const (
	cellShape = iota + 1
	cellBall
)

// Game implements the bouncing ball demo.
type Game struct {
	host   loop.Host
	board  *board.Board
	drawer *board.Drawer

	faster, slower *input.Signal
	jump, pause    *input.Signal

	x, y   float64
	vx, vy float64
	rate   int // index into rates
	paused bool
}

func init() {
	registry.Register("bounce", func(core.RuntimeConfig) registry.Game {
		return New()
	})
}

// New creates the demo with its shapes in place.
func New() *Game {
	b := board.New(Width, Height)
	b.FillRect(2, 2, 4, 4, cellShape)
	b.FillOval(10, 2, 10, 6, cellShape)
	b.FillOval(26, 9, 9, 5, cellShape)

	d := board.NewDrawer(b, 2, 1)
	d.Default = board.Glyph{Rune: ' '}
	d.Bind(cellShape, board.Glyph{Rune: '▓', Color: core.ColorBlue})
	d.Bind(cellBall, board.Glyph{Rune: '█', Color: core.ColorBrightYellow})

	return &Game{
		board:  b,
		drawer: d,
		y:      Height - 1,
		vx:     1,
		vy:     3,
		rate:   slices.Index(rates, TargetFPS),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "bounce" }

// Title returns the display name.
func (g *Game) Title() string { return "Bounce" }

// Initialize registers the controls and sets the starting rate.
func (g *Game) Initialize(h loop.Host) error {
	g.host = h

	keys := []struct {
		dst  **input.Signal
		code input.KeyCode
	}{
		{&g.faster, input.KeyUp},
		{&g.slower, input.KeyDown},
		{&g.jump, input.KeySpace},
		{&g.pause, input.KeyP},
	}
	for _, k := range keys {
		s, err := h.RegisterKey(k.code)
		if err != nil {
			return fmt.Errorf("bounce: %w", err)
		}
		*k.dst = s
	}

	h.SetTargetRate(rates[g.rate])
	return g.placeBall()
}

// Update applies input and advances the ball one step.
func (g *Game) Update(time.Duration) error {
	if g.faster.IsDown() {
		g.setRate(g.rate + 1)
	}
	if g.slower.IsDown() {
		g.setRate(g.rate - 1)
	}
	if g.pause.IsDown() {
		g.paused = !g.paused
	}
	jump := g.jump.IsDown()
	if g.paused {
		return nil
	}
	if jump {
		g.vy = kick
	}

	g.step()
	return g.placeBall()
}

// TargetRate is the frame rate currently requested from the host.
func (g *Game) TargetRate() int {
	return rates[g.rate]
}

func (g *Game) setRate(i int) {
	i = core.Clamp(i, 0, len(rates)-1)
	if i != g.rate {
		g.rate = i
		g.host.SetTargetRate(rates[i])
	}
}

// step is one frame of ball physics.
func (g *Game) step() {
	g.x += g.vx
	g.y += g.vy

	if g.x >= Width-1 || g.x <= 0 {
		g.vx = -g.vx
		g.x = core.ClampF(g.x, 0, Width-1)
	}
	if g.y >= Height-1 {
		g.vy = floorBounce
		g.y = Height - 1
	}
	if g.y < 0 {
		g.y = 0
		g.vy = 0
	}
	g.vy += gravity
}

// placeBall puts the ball overlay where the physics left it. The shapes on
// the board stay intact underneath.
func (g *Game) placeBall() error {
	if err := g.drawer.SetCursor(int(g.x), int(g.y), cellBall); err != nil {
		return fmt.Errorf("bounce: %w", err)
	}
	return nil
}

// Draw renders the status line and the board.
func (g *Game) Draw(dst *core.Screen) error {
	hud.Status(dst, 0,
		"Bounce  ↑↓ rate  space kick  p pause",
		fmt.Sprintf("%d fps target, %.1f measured", rates[g.rate], g.host.FPS()))

	x := g.drawer.CenterX(dst.Width())
	g.drawer.Draw(dst, x, 2)
	if g.paused {
		hud.Overlay(dst, "Paused")
	}
	return nil
}
