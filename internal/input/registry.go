package input

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrInvalidInputCode is returned when a key code or button is outside the
// supported range. No signal is created in that case.
var ErrInvalidInputCode = errors.New("input: invalid input code")

// Registry owns the Signals for every tracked key and mouse button, plus the
// last known cursor position.
//
// Register* calls are made by the consumer during setup. Notify* and
// SetCursor are made by the event source and may run concurrently with
// polling. Notifications for inputs that were never registered are dropped.
type Registry struct {
	mu      sync.RWMutex
	keys    map[KeyCode]*Signal
	buttons [buttonSlots]*Signal

	cursor atomic.Uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		keys: make(map[KeyCode]*Signal),
	}
}

// RegisterKey returns the Signal for code, creating it on first use.
func (r *Registry) RegisterKey(code KeyCode) (*Signal, error) {
	if !code.Valid() {
		return nil, fmt.Errorf("key code %d: %w", code, ErrInvalidInputCode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.keys[code]; ok {
		return s, nil
	}
	s := &Signal{}
	r.keys[code] = s
	return s, nil
}

// RegisterButton returns the Signal for a mouse button, creating it on first use.
func (r *Registry) RegisterButton(b Button) (*Signal, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("mouse button %d: %w", b, ErrInvalidInputCode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := int(b) - 1
	if r.buttons[slot] == nil {
		r.buttons[slot] = &Signal{}
	}
	return r.buttons[slot], nil
}

// Key returns the registered Signal for code, or nil.
func (r *Registry) Key(code KeyCode) *Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keys[code]
}

// Button returns the registered Signal for b, or nil.
func (r *Registry) Button(b Button) *Signal {
	if !b.Valid() {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.buttons[int(b)-1]
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// NotifyPress forwards a key press to its Signal.
func (r *Registry) NotifyPress(code KeyCode) {
	if s := r.Key(code); s != nil {
		s.Press()
	}
}

// NotifyRelease forwards a key release to its Signal.
func (r *Registry) NotifyRelease(code KeyCode) {
	if s := r.Key(code); s != nil {
		s.Release()
	}
}

// NotifyButtonPress forwards a mouse button press to its Signal.
func (r *Registry) NotifyButtonPress(b Button) {
	if s := r.Button(b); s != nil {
		s.Press()
	}
}

// NotifyButtonRelease forwards a mouse button release to its Signal.
func (r *Registry) NotifyButtonRelease(b Button) {
	if s := r.Button(b); s != nil {
		s.Release()
	}
}

// SetCursor records the latest cursor position.
func (r *Registry) SetCursor(x, y int) {
	r.cursor.Store(uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(y))))
}

// Cursor returns the latest cursor position. It is (0, 0) until the first
// SetCursor call.
func (r *Registry) Cursor() (x, y int) {
	v := r.cursor.Load()
	return int(int32(uint32(v >> 32))), int(int32(uint32(v)))
}
