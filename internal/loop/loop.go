// Package loop drives a consumer through update, draw and present once per
// frame, paced by a pacing.Scheduler.
//
// Exactly one goroutine runs a Loop. Input arrives from other goroutines
// through the loop's input.Registry; because every Signal carries its own
// lock, a notification delivered before an Update call is visible to that
// call.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/input"
	"github.com/vovakirdan/tui-gridloop/internal/pacing"
)

var (
	// ErrAlreadyStarted is returned by Run on a loop that has already run.
	ErrAlreadyStarted = errors.New("loop: already started")

	// ErrRegistrationClosed is returned when a consumer registers an input
	// after Initialize has returned.
	ErrRegistrationClosed = errors.New("loop: input registration closed")
)

// State is the lifecycle state of a Loop.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Host is what a consumer sees of the loop that drives it.
type Host interface {
	// RegisterKey and RegisterButton are only accepted until Initialize
	// returns; later calls fail with ErrRegistrationClosed.
	RegisterKey(code input.KeyCode) (*input.Signal, error)
	RegisterButton(b input.Button) (*input.Signal, error)

	// Cursor returns the last reported pointer position in cells.
	Cursor() (x, y int)

	// SetTargetRate replaces the pacing scheduler. It takes effect at the
	// end of the current frame. Zero runs unthrottled.
	SetTargetRate(fps int)

	// Bounds is the size of the buffer handed to Draw.
	Bounds() core.Rect

	// FPS is the measured frame rate, refreshed twice a second.
	FPS() float64
}

// Consumer is the application driven by the loop. Update and Draw are
// always called from the loop goroutine and never overlap. Any error they
// return stops the loop and is returned from Run.
type Consumer interface {
	Initialize(h Host) error
	Update(elapsed time.Duration) error
	Draw(dst *core.Screen) error
}

// Presenter puts a finished frame on the display. The screen is only valid
// for the duration of the call.
type Presenter interface {
	Present(s *core.Screen) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(s *core.Screen) error

// Present calls f(s).
func (f PresenterFunc) Present(s *core.Screen) error {
	return f(s)
}

// Loop is the application loop.
type Loop struct {
	consumer  Consumer
	presenter Presenter
	registry  *input.Registry
	clock     pacing.Clock
	logger    *log.Logger
	startFPS  int

	screen  *core.Screen
	size    atomic.Uint64 // packed width, height of screen
	pending atomic.Pointer[core.Point]

	state   atomic.Int32
	regOpen atomic.Bool
	sched   atomic.Pointer[pacing.Scheduler]
	frames  atomic.Int64
	fpsBits atomic.Uint64
	rate    atomic.Int32
}

// Option configures a Loop.
type Option func(*Loop)

// WithRegistry makes the loop use r instead of a fresh registry.
func WithRegistry(r *input.Registry) Option {
	return func(l *Loop) {
		l.registry = r
	}
}

// WithClock replaces the system clock for pacing and elapsed time.
func WithClock(c pacing.Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// WithLogger sets the logger for lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithTargetRate sets the frame rate the loop starts at.
func WithTargetRate(fps int) Option {
	return func(l *Loop) {
		l.startFPS = fps
	}
}

// WithSize sets the initial size of the off-screen buffer.
func WithSize(width, height int) Option {
	return func(l *Loop) {
		l.screen.Resize(width, height)
	}
}

// New creates a loop for consumer. A nil presenter discards frames.
func New(consumer Consumer, presenter Presenter, opts ...Option) *Loop {
	defaultSize := core.DefaultConfig()
	l := &Loop{
		consumer:  consumer,
		presenter: presenter,
		clock:     pacing.SystemClock,
		startFPS:  defaultSize.TargetFPS,
		screen:    core.NewScreen(defaultSize.ScreenW, defaultSize.ScreenH),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = input.NewRegistry()
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	if l.presenter == nil {
		l.presenter = PresenterFunc(func(*core.Screen) error { return nil })
	}
	l.storeSize(l.screen.Width(), l.screen.Height())
	l.rate.Store(int32(l.startFPS))
	return l
}

// Registry returns the registry event sources deliver input to.
func (l *Loop) Registry() *input.Registry {
	return l.registry
}

// State returns the lifecycle state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Frames returns the number of completed iterations.
func (l *Loop) Frames() int64 {
	return l.frames.Load()
}

// FPS returns the measured frame rate.
func (l *Loop) FPS() float64 {
	return math.Float64frombits(l.fpsBits.Load())
}

// TargetRate returns the rate most recently requested.
func (l *Loop) TargetRate() int {
	return int(l.rate.Load())
}

// Resize requests a new buffer size. It is safe to call from any goroutine
// and is applied before the next frame starts.
func (l *Loop) Resize(width, height int) {
	l.pending.Store(&core.Point{X: width, Y: height})
}

// Bounds returns the current buffer area.
func (l *Loop) Bounds() core.Rect {
	packed := l.size.Load()
	return core.NewRect(0, 0, int(uint32(packed>>32)), int(uint32(packed)))
}

// Cursor returns the pointer position held by the registry.
func (l *Loop) Cursor() (x, y int) {
	return l.registry.Cursor()
}

// RegisterKey registers a key on behalf of the consumer.
func (l *Loop) RegisterKey(code input.KeyCode) (*input.Signal, error) {
	if !l.registrationOpen() {
		return nil, fmt.Errorf("key code %d: %w", code, ErrRegistrationClosed)
	}
	return l.registry.RegisterKey(code)
}

// RegisterButton registers a pointer button on behalf of the consumer.
func (l *Loop) RegisterButton(b input.Button) (*input.Signal, error) {
	if !l.registrationOpen() {
		return nil, fmt.Errorf("button %d: %w", b, ErrRegistrationClosed)
	}
	return l.registry.RegisterButton(b)
}

func (l *Loop) registrationOpen() bool {
	return l.State() == StateNotStarted || l.regOpen.Load()
}

// SetTargetRate swaps in a fresh scheduler for fps.
func (l *Loop) SetTargetRate(fps int) {
	l.sched.Store(pacing.New(fps, pacing.WithClock(l.clock)))
	if prev := l.rate.Swap(int32(fps)); int(prev) != fps {
		l.logger.Info("Target rate changed", "from", prev, "to", fps)
	}
}

// Run initializes the consumer and runs frames until ctx is cancelled or
// the consumer or presenter fails. Cancellation is checked between frames
// and also cuts the pacing sleep short; it is not an error.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	defer l.state.Store(int32(StateStopped))

	l.sched.Store(pacing.New(l.TargetRate(), pacing.WithClock(l.clock)))

	l.regOpen.Store(true)
	err := l.consumer.Initialize(l)
	l.regOpen.Store(false)
	if err != nil {
		return fmt.Errorf("loop: initialize: %w", err)
	}

	l.logger.Debug("Loop started", "fps", l.TargetRate(), "inputs", l.registry.Len())
	defer func() {
		l.logger.Debug("Loop stopped", "frames", l.Frames())
	}()

	last := l.clock.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}
		l.applyResize()

		now := l.clock.Now()
		elapsed := now.Sub(last)
		last = now

		if err := l.consumer.Update(elapsed); err != nil {
			return fmt.Errorf("loop: update: %w", err)
		}

		l.screen.Clear()
		if err := l.consumer.Draw(l.screen); err != nil {
			return fmt.Errorf("loop: draw: %w", err)
		}
		if err := l.presenter.Present(l.screen); err != nil {
			return fmt.Errorf("loop: present: %w", err)
		}

		sched := l.sched.Load()
		sched.Delay(ctx)
		l.fpsBits.Store(math.Float64bits(sched.Sample()))
		l.frames.Add(1)
	}
}

func (l *Loop) applyResize() {
	p := l.pending.Swap(nil)
	if p == nil {
		return
	}
	l.screen.Resize(p.X, p.Y)
	l.storeSize(l.screen.Width(), l.screen.Height())
}

func (l *Loop) storeSize(width, height int) {
	l.size.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}
