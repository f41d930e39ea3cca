// Package pacing keeps an application loop close to a target frame rate.
package pacing

import (
	"context"
	"runtime"
	"time"
)

// Clock provides the time operations the scheduler depends on.
// Tests swap in a fake to drive the scheduler deterministically.
type Clock interface {
	// Now returns the current time. Only differences between readings matter.
	Now() time.Time

	// Sleep blocks for d or until ctx is done, whichever happens first.
	Sleep(ctx context.Context, d time.Duration)

	// Yield lets other goroutines run without sleeping.
	Yield()
}

// SystemClock is the default Clock backed by the runtime.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (systemClock) Yield() {
	runtime.Gosched()
}
