// Package pong is Pong against a CPU paddle. Unlike the other games it moves
// by elapsed time rather than by frame, and the player's paddle keeps moving
// for as long as a key is held.
package pong

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/games/hud"
	"github.com/vovakirdan/tui-gridloop/internal/input"
	"github.com/vovakirdan/tui-gridloop/internal/loop"
	"github.com/vovakirdan/tui-gridloop/internal/registry"
)

// TargetFPS is the starting rate. Movement is scaled by elapsed time, so
// other rates change smoothness but not speed.
const TargetFPS = 60

// Speeds are in cells per second.
const (
	PaddleSpeed  = 30.0
	BallSpeed    = 20.0
	MaxBallSpeed = 60.0
	WinScore     = 5

	cpuSkillMin = 0.6
	cpuSkillMax = 0.85
)

const (
	paddleOffset = 2
	hudHeight    = 2

	serveDelay = time.Second
	// maxStep bounds a single physics step after a stall.
	maxStep = 100 * time.Millisecond
	// skillStep is how much play it takes for the CPU to get a little better.
	skillStep = 10 * time.Second
)

const (
	paddleChar = '█'
	ballChar   = '●'
	netChar    = '│'
)

// Winner names reported in the outcome.
const (
	WinnerPlayer = "Player"
	WinnerCPU    = "CPU"
)

// Game implements Pong.
type Game struct {
	cfg  core.RuntimeConfig
	host loop.Host
	rng  *rand.Rand

	up, down       []*input.Signal
	restart, pause *input.Signal

	// court is the playing area below the status line.
	court        core.Rect
	paddleHeight int

	paddle1Y, paddle2Y float64
	ballX, ballY       float64
	ballVX, ballVY     float64

	score1, score2 int
	serving        bool
	serveLeft      time.Duration
	cpuSkill       float64
	played         time.Duration

	gameOver bool
	paused   bool
}

func init() {
	registry.Register("pong", func(cfg core.RuntimeConfig) registry.Game {
		return New(cfg)
	})
}

// New creates a game for cfg's screen.
func New(cfg core.RuntimeConfig) *Game {
	return &Game{cfg: cfg}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "pong" }

// Title returns the display name.
func (g *Game) Title() string { return "Pong" }

// Initialize registers the paddle keys and serves the first ball.
func (g *Game) Initialize(h loop.Host) error {
	g.host = h

	for _, code := range []input.KeyCode{input.KeyUp, input.KeyW} {
		s, err := h.RegisterKey(code)
		if err != nil {
			return fmt.Errorf("pong: %w", err)
		}
		g.up = append(g.up, s)
	}
	for _, code := range []input.KeyCode{input.KeyDown, input.KeyS} {
		s, err := h.RegisterKey(code)
		if err != nil {
			return fmt.Errorf("pong: %w", err)
		}
		g.down = append(g.down, s)
	}

	var err error
	if g.restart, err = h.RegisterKey(input.KeyR); err != nil {
		return fmt.Errorf("pong: %w", err)
	}
	if g.pause, err = h.RegisterKey(input.KeyP); err != nil {
		return fmt.Errorf("pong: %w", err)
	}

	h.SetTargetRate(TargetFPS)

	seed := g.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.reset()
	return nil
}

// reset starts a new match.
func (g *Game) reset() {
	g.fitCourt()
	center := float64(g.court.Y) + float64(g.court.H-g.paddleHeight)/2
	g.paddle1Y = center
	g.paddle2Y = center

	g.score1 = 0
	g.score2 = 0
	g.cpuSkill = cpuSkillMin
	g.played = 0
	g.gameOver = false
	g.paused = false
	g.startServe(1)
}

// fitCourt recomputes the court from the host bounds and keeps the paddles
// and ball inside it.
func (g *Game) fitCourt() {
	b := g.host.Bounds()
	court := core.NewRect(0, hudHeight, b.W, max(1, b.H-hudHeight))
	if court == g.court {
		return
	}
	g.court = court
	g.paddleHeight = core.Clamp(court.H/5, 3, 7)
	g.paddle1Y = g.clampPaddle(g.paddle1Y)
	g.paddle2Y = g.clampPaddle(g.paddle2Y)
	g.ballX = core.ClampF(g.ballX, 0, float64(court.W-1))
	g.ballY = core.ClampF(g.ballY, float64(court.Y), float64(court.Bottom()-1))
}

func (g *Game) clampPaddle(y float64) float64 {
	lo := float64(g.court.Y)
	hi := float64(g.court.Bottom() - g.paddleHeight)
	return core.ClampF(y, lo, max(lo, hi))
}

// startServe centers the ball and aims it at the side of the given player
// after a short delay.
func (g *Game) startServe(toward int) {
	g.serving = true
	g.serveLeft = serveDelay

	g.ballX = float64(g.court.W) / 2
	g.ballY = float64(g.court.Y) + float64(g.court.H)/2

	g.ballVX = BallSpeed
	if toward == 1 {
		g.ballVX = -BallSpeed
	}
	g.ballVY = BallSpeed * (g.rng.Float64() - 0.5) * 0.6
}

// Update applies input and advances the match by elapsed.
func (g *Game) Update(elapsed time.Duration) error {
	g.fitCourt()

	if g.restart.IsDown() && g.gameOver {
		g.reset()
		return nil
	}
	if g.pause.IsDown() && !g.gameOver {
		g.paused = !g.paused
	}

	// Read the paddle keys every frame so edges do not pile up while paused.
	up := anyPressed(g.up)
	down := anyPressed(g.down)

	if g.gameOver || g.paused {
		return nil
	}

	step := min(elapsed, maxStep)
	dt := step.Seconds()

	if up {
		g.paddle1Y -= PaddleSpeed * dt
	}
	if down {
		g.paddle1Y += PaddleSpeed * dt
	}
	g.paddle1Y = g.clampPaddle(g.paddle1Y)
	g.moveCPU(dt)

	g.played += step
	if g.played >= skillStep {
		g.played -= skillStep
		g.cpuSkill = min(g.cpuSkill+0.02, cpuSkillMax)
	}

	if g.serving {
		g.serveLeft -= step
		if g.serveLeft > 0 {
			return nil
		}
		g.serving = false
	}
	g.moveBall(dt)
	return nil
}

func anyPressed(signals []*input.Signal) bool {
	pressed := false
	for _, s := range signals {
		// Evaluate all of them; IsPressed consumes the Down edge.
		if s.IsPressed() {
			pressed = true
		}
	}
	return pressed
}

// moveCPU follows the ball while it is coming towards the right paddle.
func (g *Game) moveCPU(dt float64) {
	if g.ballVX <= 0 {
		return
	}
	target := g.ballY - float64(g.paddleHeight)/2
	diff := target - g.paddle2Y
	speed := PaddleSpeed * g.cpuSkill * dt
	if math.Abs(diff) > speed {
		g.paddle2Y += math.Copysign(speed, diff)
	}
	g.paddle2Y = g.clampPaddle(g.paddle2Y)
}

// moveBall advances the ball and resolves walls, paddles and points.
func (g *Game) moveBall(dt float64) {
	g.ballX += g.ballVX * dt
	g.ballY += g.ballVY * dt

	top := float64(g.court.Y)
	bottom := float64(g.court.Bottom() - 1)
	if g.ballY < top {
		g.ballY = top
		g.ballVY = -g.ballVY
	}
	if g.ballY > bottom {
		g.ballY = bottom
		g.ballVY = -g.ballVY
	}

	left := float64(paddleOffset)
	right := float64(g.court.W - paddleOffset - 1)

	if g.ballVX < 0 && g.ballX <= left+1 && g.onPaddle(g.paddle1Y) {
		g.ballX = left + 1
		g.returnBall(g.paddle1Y)
	}
	if g.ballVX > 0 && g.ballX >= right && g.onPaddle(g.paddle2Y) {
		g.ballX = right - 1
		g.returnBall(g.paddle2Y)
	}

	switch {
	case g.ballX < 0:
		g.point(2)
	case g.ballX >= float64(g.court.W):
		g.point(1)
	}
}

func (g *Game) onPaddle(paddleY float64) bool {
	return g.ballY >= paddleY && g.ballY < paddleY+float64(g.paddleHeight)
}

// returnBall reverses the ball, speeding it up and adding spin by where it
// met the paddle.
func (g *Game) returnBall(paddleY float64) {
	hit := (g.ballY - paddleY) / float64(g.paddleHeight)
	g.ballVX = -g.ballVX * 1.05
	g.ballVY += (hit - 0.5) * BallSpeed * 0.6

	g.ballVX = core.ClampF(g.ballVX, -MaxBallSpeed, MaxBallSpeed)
	g.ballVY = core.ClampF(g.ballVY, -MaxBallSpeed/2, MaxBallSpeed/2)
}

// point scores for player 1 or 2 and serves towards the loser.
func (g *Game) point(scorer int) {
	loser := 1
	if scorer == 1 {
		g.score1++
		loser = 2
	} else {
		g.score2++
	}
	if g.score1 >= WinScore || g.score2 >= WinScore {
		g.gameOver = true
		return
	}
	g.startServe(loser)
}

// Draw renders the scores, the court and any overlay.
func (g *Game) Draw(dst *core.Screen) error {
	hud.Status(dst, 0,
		fmt.Sprintf("Pong  You %d : %d CPU", g.score1, g.score2),
		fmt.Sprintf("%.0f fps", g.host.FPS()))

	centerX := g.court.W / 2
	for y := g.court.Y; y < g.court.Bottom(); y += 2 {
		dst.SetColor(centerX, y, netChar, core.ColorGray)
	}

	rightX := g.court.W - paddleOffset - 1
	for i := range g.paddleHeight {
		dst.SetColor(paddleOffset, int(g.paddle1Y)+i, paddleChar, core.ColorBrightCyan)
		dst.SetColor(rightX, int(g.paddle2Y)+i, paddleChar, core.ColorBrightRed)
	}

	// Blink during the serve.
	if !g.serving || (g.serveLeft/(100*time.Millisecond))%2 == 0 {
		dst.SetColor(int(g.ballX), int(g.ballY), ballChar, core.ColorBrightYellow)
	}

	switch {
	case g.gameOver:
		title := "You Win!"
		if g.score2 > g.score1 {
			title = "CPU Wins"
		}
		hud.Overlay(dst, title, fmt.Sprintf("%d - %d", g.score1, g.score2), "Press R to restart")
	case g.paused:
		hud.Overlay(dst, "Paused", "Press P to continue")
	}
	return nil
}

// Outcome reports the player's points and who won once the match is over.
func (g *Game) Outcome() (registry.Outcome, bool) {
	winner := WinnerPlayer
	if g.score2 > g.score1 {
		winner = WinnerCPU
	}
	return registry.Outcome{Score: g.score1, Winner: winner}, g.gameOver
}
