// Package input tracks edge-triggered key and mouse button state.
//
// Notifications (press/release) arrive from the host's event goroutine while
// the application loop polls from its own goroutine. Every Signal carries its
// own mutex, so unrelated inputs never contend with each other.
package input

import "sync"

// State is the edge state of a single input.
type State uint8

const (
	// StateFree means no input is active.
	StateFree State = iota
	// StateDown means a press happened and has not been observed yet.
	StateDown
	// StateHold means the press was observed and the input is still active.
	StateHold
	// StateUp means a release happened and has not been observed yet.
	StateUp
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateFree:
		return "Free"
	case StateDown:
		return "Down"
	case StateHold:
		return "Hold"
	case StateUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// Signal is a four-state edge tracker shared by keys and mouse buttons.
//
// Some queries consume edges: IsDown demotes Down to Hold and IsUp demotes Up
// to Free, so a poller sees each press and each release exactly once even when
// it polls every frame. IsHold, IsFree and State never mutate.
type Signal struct {
	mu    sync.Mutex
	state State
}

// Press records a press notification.
// Free and Up become Down; Down and Hold become Hold.
func (s *Signal) Press() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFree, StateUp:
		s.state = StateDown
	default:
		s.state = StateHold
	}
}

// Release records a release notification.
// Down and Hold become Up; anything else becomes Free.
func (s *Signal) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateDown, StateHold:
		s.state = StateUp
	default:
		s.state = StateFree
	}
}

// State returns the current state without consuming any edge.
func (s *Signal) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Poll returns the state as it was before the call and consumes the pending
// edge, if any: Down becomes Hold and Up becomes Free.
func (s *Signal) Poll() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	switch prev {
	case StateDown:
		s.state = StateHold
	case StateUp:
		s.state = StateFree
	}
	return prev
}

// IsDown reports whether a press is pending and consumes it (Down -> Hold).
func (s *Signal) IsDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takeDown()
}

// IsUp reports whether a release is pending and consumes it (Up -> Free).
func (s *Signal) IsUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUp {
		s.state = StateFree
		return true
	}
	return false
}

// IsHold reports whether the input is held and its press was already observed.
func (s *Signal) IsHold() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateHold
}

// IsFree reports whether the input is idle.
func (s *Signal) IsFree() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateFree
}

// IsPressed is IsDown() || IsHold() evaluated atomically.
// The Down edge is consumed first, so the call returns true on every frame
// while the input is held.
func (s *Signal) IsPressed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.takeDown() {
		return true
	}
	return s.state == StateHold
}

// IsReleased is the same as IsUp.
func (s *Signal) IsReleased() bool {
	return s.IsUp()
}

// takeDown must be called with mu held.
func (s *Signal) takeDown() bool {
	if s.state == StateDown {
		s.state = StateHold
		return true
	}
	return false
}
