package pacing

import (
	"context"
	"testing"
	"time"
)

// fakeClock advances only when told to. Sleep moves time forward by the
// requested duration plus any configured overshoot.
type fakeClock struct {
	now       time.Time
	overshoot time.Duration
	sleeps    []time.Duration
	yields    int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	if ctx.Err() != nil {
		// Interrupted halfway through.
		c.now = c.now.Add(d / 2)
		return
	}
	c.now = c.now.Add(d + c.overshoot)
	c.overshoot = 0
}

func (c *fakeClock) Yield() { c.yields++ }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		fps      int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{1, time.Second},
		{0, 0},
		{-10, 0},
	}

	for _, tc := range tests {
		s := New(tc.fps, WithClock(newFakeClock()))
		if s.Period() != tc.expected {
			t.Errorf("New(%d).Period() = %v, expected %v", tc.fps, s.Period(), tc.expected)
		}
	}
}

func TestDelaySleepsRemainderOfPeriod(t *testing.T) {
	clock := newFakeClock()
	s := New(10, WithClock(clock))

	clock.Advance(30 * time.Millisecond) // frame work
	d := s.Delay(context.Background())

	if d != 70*time.Millisecond {
		t.Errorf("Delay() = %v, expected 70ms", d)
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 70*time.Millisecond {
		t.Errorf("sleeps = %v, expected [70ms]", clock.sleeps)
	}
	if s.Oversleep() != 0 {
		t.Errorf("Oversleep() = %v, expected 0", s.Oversleep())
	}
}

func TestDelaySteadyState(t *testing.T) {
	clock := newFakeClock()
	s := New(50, WithClock(clock))
	period := s.Period()

	for i := 0; i < 100; i++ {
		clock.Advance(period) // each frame costs exactly one period
		if d := s.Delay(context.Background()); d > 0 {
			t.Fatalf("iteration %d: Delay() = %v, expected <= 0 in steady state", i, d)
		}
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("expected no sleeps, got %d", len(clock.sleeps))
	}
	if clock.yields != 100 {
		t.Errorf("yields = %d, expected 100", clock.yields)
	}
}

func TestDelayCompensatesOversleepOnce(t *testing.T) {
	clock := newFakeClock()
	s := New(10, WithClock(clock))
	const overshoot = 5 * time.Millisecond

	clock.overshoot = overshoot
	first := s.Delay(context.Background())
	if first != 100*time.Millisecond {
		t.Fatalf("first Delay() = %v, expected 100ms", first)
	}
	if s.Oversleep() != overshoot {
		t.Fatalf("Oversleep() = %v, expected %v", s.Oversleep(), overshoot)
	}

	second := s.Delay(context.Background())
	if second != first-overshoot {
		t.Errorf("second Delay() = %v, expected %v", second, first-overshoot)
	}

	third := s.Delay(context.Background())
	if third != first {
		t.Errorf("third Delay() = %v, expected the correction to be gone (%v)", third, first)
	}
}

func TestDelayLateFrameResetsCorrection(t *testing.T) {
	clock := newFakeClock()
	s := New(10, WithClock(clock))

	clock.overshoot = 8 * time.Millisecond
	s.Delay(context.Background())

	clock.Advance(150 * time.Millisecond) // late frame
	if d := s.Delay(context.Background()); d >= 0 {
		t.Errorf("late Delay() = %v, expected negative", d)
	}
	if s.Oversleep() != 0 {
		t.Errorf("Oversleep() = %v after a late frame, expected 0", s.Oversleep())
	}
}

func TestDelayUnthrottledNeverSleeps(t *testing.T) {
	clock := newFakeClock()
	s := New(0, WithClock(clock))

	steps := []time.Duration{0, time.Millisecond, 0, 16 * time.Millisecond, time.Second}
	for _, step := range steps {
		clock.Advance(step)
		if d := s.Delay(context.Background()); d > 0 {
			t.Errorf("Delay() = %v with unthrottled scheduler, expected <= 0", d)
		}
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("unthrottled scheduler slept %d times", len(clock.sleeps))
	}
}

func TestDelayInterruptedSleep(t *testing.T) {
	clock := newFakeClock()
	s := New(10, WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := s.Delay(ctx)
	if d != 100*time.Millisecond {
		t.Errorf("Delay() = %v, expected 100ms requested", d)
	}
	if s.Oversleep() != 0 {
		t.Errorf("Oversleep() = %v after early wake, expected 0", s.Oversleep())
	}
}

func TestSampleRefreshesEveryWindow(t *testing.T) {
	clock := newFakeClock()
	s := New(10, WithClock(clock))

	for i := 0; i < 4; i++ {
		clock.Advance(100 * time.Millisecond)
		if fps := s.Sample(); fps != 0 {
			t.Fatalf("Sample() #%d = %v before the window filled, expected 0", i+1, fps)
		}
	}

	clock.Advance(100 * time.Millisecond)
	if fps := s.Sample(); fps != 10 {
		t.Fatalf("Sample() = %v, expected 10", fps)
	}

	// Faster frames only show up after the next full window.
	clock.Advance(50 * time.Millisecond)
	if fps := s.Sample(); fps != 10 {
		t.Errorf("Sample() = %v between windows, expected previous value 10", fps)
	}
	for i := 0; i < 9; i++ {
		clock.Advance(50 * time.Millisecond)
		s.Sample()
	}
	if s.FPS() != 20 {
		t.Errorf("FPS() = %v, expected 20", s.FPS())
	}
}
