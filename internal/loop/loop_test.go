package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/core"
	"github.com/vovakirdan/tui-gridloop/internal/input"
)

// manualClock only moves when Advance or Sleep is called.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(0, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Sleep(_ context.Context, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *manualClock) Yield() {}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptConsumer records calls and runs optional hooks.
type scriptConsumer struct {
	calls    []string
	elapsed  []time.Duration
	frame    int
	onInit   func(h Host) error
	onUpdate func(frame int) error
	onDraw   func(frame int, dst *core.Screen) error
}

func (c *scriptConsumer) Initialize(h Host) error {
	c.calls = append(c.calls, "init")
	if c.onInit != nil {
		return c.onInit(h)
	}
	return nil
}

func (c *scriptConsumer) Update(elapsed time.Duration) error {
	c.frame++
	c.calls = append(c.calls, "update")
	c.elapsed = append(c.elapsed, elapsed)
	if c.onUpdate != nil {
		return c.onUpdate(c.frame)
	}
	return nil
}

func (c *scriptConsumer) Draw(dst *core.Screen) error {
	c.calls = append(c.calls, "draw")
	if c.onDraw != nil {
		return c.onDraw(c.frame, dst)
	}
	return nil
}

// stopAfter cancels ctx once the consumer has updated n frames.
func stopAfter(n int, cancel context.CancelFunc) func(int) error {
	return func(frame int) error {
		if frame >= n {
			cancel()
		}
		return nil
	}
}

func TestRunFrameOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &scriptConsumer{onUpdate: stopAfter(2, cancel)}
	var presented int
	l := New(c, PresenterFunc(func(*core.Screen) error {
		c.calls = append(c.calls, "present")
		presented++
		return nil
	}), WithClock(newManualClock()), WithTargetRate(0))

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v, expected nil after cancellation", err)
	}

	expected := []string{"init", "update", "draw", "present", "update", "draw", "present"}
	if len(c.calls) != len(expected) {
		t.Fatalf("calls = %v, expected %v", c.calls, expected)
	}
	for i := range expected {
		if c.calls[i] != expected[i] {
			t.Fatalf("calls = %v, expected %v", c.calls, expected)
		}
	}
	if l.Frames() != 2 {
		t.Errorf("Frames() = %d, expected 2", l.Frames())
	}
	if l.State() != StateStopped {
		t.Errorf("State() = %v, expected stopped", l.State())
	}
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &scriptConsumer{}
	l := New(c, nil, WithClock(newManualClock()))
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if c.frame != 0 {
		t.Errorf("Update ran %d times on a cancelled context", c.frame)
	}
	if len(c.calls) != 1 || c.calls[0] != "init" {
		t.Errorf("calls = %v, expected only init", c.calls)
	}
}

func TestRunTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(&scriptConsumer{}, nil, WithClock(newManualClock()))
	if err := l.Run(ctx); err != nil {
		t.Fatalf("first Run() = %v", err)
	}
	if err := l.Run(ctx); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Run() = %v, expected ErrAlreadyStarted", err)
	}
}

func TestRegistrationWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var host Host
	var lateErr error
	c := &scriptConsumer{
		onInit: func(h Host) error {
			host = h
			_, err := h.RegisterKey(input.KeySpace)
			return err
		},
		onUpdate: func(frame int) error {
			_, lateErr = host.RegisterKey(input.KeyEnter)
			cancel()
			return nil
		},
	}

	l := New(c, nil, WithClock(newManualClock()))
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !errors.Is(lateErr, ErrRegistrationClosed) {
		t.Errorf("late RegisterKey error = %v, expected ErrRegistrationClosed", lateErr)
	}
	if l.Registry().Key(input.KeySpace) == nil {
		t.Error("key registered during Initialize is missing")
	}
	if l.Registry().Key(input.KeyEnter) != nil {
		t.Error("late registration should not create a signal")
	}
}

func TestInitializeErrorStopsLoop(t *testing.T) {
	errBoom := errors.New("boom")
	c := &scriptConsumer{onInit: func(Host) error { return errBoom }}

	l := New(c, nil, WithClock(newManualClock()))
	err := l.Run(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("Run() = %v, expected errBoom", err)
	}
	if c.frame != 0 {
		t.Error("Update should not run after a failed Initialize")
	}
	if l.State() != StateStopped {
		t.Errorf("State() = %v, expected stopped", l.State())
	}
}

func TestErrorsPropagate(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		consumer  *scriptConsumer
		presenter Presenter
		prefix    string
	}{
		{
			name:     "update",
			consumer: &scriptConsumer{onUpdate: func(frame int) error { return errBoom }},
			prefix:   "loop: update: ",
		},
		{
			name: "draw",
			consumer: &scriptConsumer{onDraw: func(int, *core.Screen) error {
				return errBoom
			}},
			prefix: "loop: draw: ",
		},
		{
			name:      "present",
			consumer:  &scriptConsumer{},
			presenter: PresenterFunc(func(*core.Screen) error { return errBoom }),
			prefix:    "loop: present: ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := New(tc.consumer, tc.presenter, WithClock(newManualClock()))
			err := l.Run(context.Background())
			if !errors.Is(err, errBoom) {
				t.Fatalf("Run() = %v, expected errBoom", err)
			}
			if err.Error() != tc.prefix+"boom" {
				t.Errorf("Run() = %q, expected %q", err.Error(), tc.prefix+"boom")
			}
			if l.Frames() != 0 {
				t.Errorf("Frames() = %d, expected the failing frame not to count", l.Frames())
			}
		})
	}
}

func TestInputVisibleToNextUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var space *input.Signal
	var seen []bool
	c := &scriptConsumer{
		onInit: func(h Host) error {
			var err error
			space, err = h.RegisterKey(input.KeySpace)
			return err
		},
	}
	l := New(c, nil, WithClock(newManualClock()))
	c.onUpdate = func(frame int) error {
		seen = append(seen, space.IsDown())
		switch frame {
		case 1:
			// Delivered between frames by an event source.
			l.Registry().NotifyPress(input.KeySpace)
		case 3:
			cancel()
		}
		return nil
	}

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	expected := []bool{false, true, false}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Fatalf("IsDown per frame = %v, expected %v", seen, expected)
		}
	}
}

func TestScreenClearedEachFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &scriptConsumer{
		onUpdate: stopAfter(2, cancel),
		onDraw: func(frame int, dst *core.Screen) error {
			if frame == 1 {
				dst.Set(0, 0, 'X')
			}
			return nil
		},
	}
	var firstCell []rune
	l := New(c, PresenterFunc(func(s *core.Screen) error {
		firstCell = append(firstCell, s.Get(0, 0))
		return nil
	}), WithClock(newManualClock()), WithSize(4, 2))

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if string(firstCell) != "X " {
		t.Errorf("presented cells = %q, expected %q", string(firstCell), "X ")
	}
}

func TestResizeAppliedAtFrameBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sizes []core.Rect
	var bounds []core.Rect
	c := &scriptConsumer{
		onDraw: func(frame int, dst *core.Screen) error {
			sizes = append(sizes, dst.Bounds())
			return nil
		},
	}
	l := New(c, nil, WithClock(newManualClock()), WithSize(10, 5))
	c.onUpdate = func(frame int) error {
		bounds = append(bounds, l.Bounds())
		switch frame {
		case 1:
			l.Resize(20, 8)
		case 2:
			cancel()
		}
		return nil
	}

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	expected := []core.Rect{core.NewRect(0, 0, 10, 5), core.NewRect(0, 0, 20, 8)}
	for i := range expected {
		if sizes[i] != expected[i] || bounds[i] != expected[i] {
			t.Errorf("frame %d: draw %+v, bounds %+v, expected %+v", i+1, sizes[i], bounds[i], expected[i])
		}
	}
}

func TestPacingAndElapsed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newManualClock()
	c := &scriptConsumer{
		onInit: func(h Host) error {
			h.SetTargetRate(10)
			return nil
		},
		onUpdate: func(frame int) error {
			clock.Advance(20 * time.Millisecond) // simulated work
			if frame == 3 {
				cancel()
			}
			return nil
		},
	}
	l := New(c, nil, WithClock(clock), WithTargetRate(60))

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if l.TargetRate() != 10 {
		t.Errorf("TargetRate() = %d, expected 10", l.TargetRate())
	}

	for i, d := range clock.sleeps {
		if d != 80*time.Millisecond {
			t.Errorf("sleep %d = %v, expected 80ms", i, d)
		}
	}
	if len(clock.sleeps) != 3 {
		t.Errorf("sleeps = %v, expected 3", clock.sleeps)
	}

	expected := []time.Duration{0, 100 * time.Millisecond, 100 * time.Millisecond}
	for i := range expected {
		if c.elapsed[i] != expected[i] {
			t.Errorf("elapsed = %v, expected %v", c.elapsed, expected)
			break
		}
	}
}

func TestFPSMeasured(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newManualClock()
	c := &scriptConsumer{onUpdate: stopAfter(10, cancel)}
	l := New(c, nil, WithClock(clock), WithTargetRate(20))

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	// Ten 50ms frames fill one 500ms window.
	if l.FPS() != 20 {
		t.Errorf("FPS() = %v, expected 20", l.FPS())
	}
}
