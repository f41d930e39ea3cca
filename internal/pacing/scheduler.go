package pacing

import (
	"context"
	"time"
)

// SampleWindow is how much wall time Sample accumulates before it
// recomputes the FPS estimate.
const SampleWindow = 500 * time.Millisecond

// Scheduler computes and performs the per-frame delay needed to hold a
// target period, and keeps a coarse FPS estimate.
//
// Sleeping is never exact. Whatever the last sleep overshot is subtracted
// from the next delay, so the long-run average period stays within the
// timer's granularity instead of drifting. Every period is measured from the
// actual wake time, not the requested one.
//
// A Scheduler is used by a single goroutine. To change the rate, build a new
// Scheduler and swap it in.
type Scheduler struct {
	clock  Clock
	period time.Duration

	last      time.Time
	oversleep time.Duration

	frames     int64
	window     time.Duration
	lastSample time.Time
	fps        float64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// New creates a scheduler targeting fps frames per second.
// Zero or a negative rate disables throttling.
func New(fps int, opts ...Option) *Scheduler {
	s := &Scheduler{clock: SystemClock}
	for _, opt := range opts {
		opt(s)
	}
	if fps > 0 {
		s.period = time.Second / time.Duration(fps)
	}

	now := s.clock.Now()
	s.last = now
	s.lastSample = now
	return s
}

// Period returns the target frame period, 0 when unthrottled.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Oversleep returns the correction that will be subtracted from the next delay.
func (s *Scheduler) Oversleep() time.Duration {
	return s.oversleep
}

// Delay paces the caller. It computes how long to wait so that one period
// passes between consecutive calls, sleeps for that long if positive, and
// returns the requested delay. A non-positive result means the frame was
// already late: nothing was slept and the goroutine only yielded.
//
// If ctx is cancelled during the sleep the call returns early; the
// correction is computed from the time actually slept.
func (s *Scheduler) Delay(ctx context.Context) time.Duration {
	start := s.clock.Now()
	elapsed := start.Sub(s.last)
	delay := (s.period - elapsed) - s.oversleep

	if delay > 0 {
		s.clock.Sleep(ctx, delay)
		slept := s.clock.Now().Sub(start)
		s.oversleep = max(0, slept-delay)
	} else {
		s.oversleep = 0
		s.clock.Yield()
	}

	s.last = s.clock.Now()
	return delay
}

// Sample counts one rendered frame and returns the FPS estimate.
// The estimate is refreshed each time SampleWindow of wall time has been
// accumulated; in between, the previous value is returned.
func (s *Scheduler) Sample() float64 {
	now := s.clock.Now()
	s.frames++
	s.window += now.Sub(s.lastSample)
	s.lastSample = now

	if s.window >= SampleWindow {
		s.fps = float64(s.frames) / s.window.Seconds()
		s.frames = 0
		s.window = 0
	}
	return s.fps
}

// FPS returns the last computed estimate without counting a frame.
func (s *Scheduler) FPS() float64 {
	return s.fps
}
