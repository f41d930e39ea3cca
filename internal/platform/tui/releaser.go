package tui

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-gridloop/internal/input"
)

// DefaultKeyRelease is how long a key counts as held after its last press
// or auto-repeat.
const DefaultKeyRelease = 150 * time.Millisecond

// MinButtonHold is the shortest time a mouse button stays pressed. A click
// released sooner would otherwise go from DOWN to UP between two frames and
// never be seen as a press.
const MinButtonHold = 100 * time.Millisecond

// afterFunc schedules f after d and returns a function that cancels it.
type afterFunc func(d time.Duration, f func()) (stop func() bool)

func systemAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// KeyReleaser turns the press-only key stream of a terminal into press and
// release notifications. The first press of a key is forwarded to the
// registry; auto-repeats only push the release back. A key is released once
// no press has arrived for the release delay.
//
// Mouse buttons do report releases; for them the releaser only stretches
// very short clicks to MinButtonHold.
type KeyReleaser struct {
	registry *input.Registry
	delay    time.Duration
	after    afterFunc
	now      func() time.Time

	mu      sync.Mutex
	gen     uint64
	held    map[input.KeyCode]heldKey
	buttons map[input.Button]heldButton
}

type heldKey struct {
	gen  uint64
	stop func() bool
}

type heldButton struct {
	gen     uint64
	pressed time.Time
	stop    func() bool // pending deferred release, nil if none
}

// NewKeyReleaser creates a releaser for r. A non-positive delay means
// DefaultKeyRelease.
func NewKeyReleaser(r *input.Registry, delay time.Duration) *KeyReleaser {
	if delay <= 0 {
		delay = DefaultKeyRelease
	}
	return &KeyReleaser{
		registry: r,
		delay:    delay,
		after:    systemAfterFunc,
		now:      time.Now,
		held:     make(map[input.KeyCode]heldKey),
		buttons:  make(map[input.Button]heldButton),
	}
}

// Press handles one key event from the terminal.
func (k *KeyReleaser) Press(code input.KeyCode) {
	k.mu.Lock()
	defer k.mu.Unlock()

	prev, repeat := k.held[code]
	if repeat {
		prev.stop()
	} else {
		k.registry.NotifyPress(code)
	}

	k.gen++
	gen := k.gen
	stop := k.after(k.delay, func() { k.expire(code, gen) })
	k.held[code] = heldKey{gen: gen, stop: stop}
}

// expire releases code unless it was pressed again after the timer with gen
// was armed.
func (k *KeyReleaser) expire(code input.KeyCode, gen uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	cur, ok := k.held[code]
	if !ok || cur.gen != gen {
		return
	}
	delete(k.held, code)
	k.registry.NotifyRelease(code)
}

// PressButton forwards a mouse button press and cancels a release still
// waiting from the previous click.
func (k *KeyReleaser) PressButton(b input.Button) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if prev, ok := k.buttons[b]; ok && prev.stop != nil {
		prev.stop()
	}
	k.gen++
	k.buttons[b] = heldButton{gen: k.gen, pressed: k.now()}
	k.registry.NotifyButtonPress(b)
}

// ReleaseButton forwards a mouse button release, deferring it until the
// button has been down for MinButtonHold.
func (k *KeyReleaser) ReleaseButton(b input.Button) {
	k.mu.Lock()
	defer k.mu.Unlock()

	cur, ok := k.buttons[b]
	if !ok {
		k.registry.NotifyButtonRelease(b)
		return
	}
	if cur.stop != nil {
		return // already scheduled
	}
	wait := MinButtonHold - k.now().Sub(cur.pressed)
	if wait <= 0 {
		delete(k.buttons, b)
		k.registry.NotifyButtonRelease(b)
		return
	}
	gen := cur.gen
	cur.stop = k.after(wait, func() { k.expireButton(b, gen) })
	k.buttons[b] = cur
}

func (k *KeyReleaser) expireButton(b input.Button, gen uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	cur, ok := k.buttons[b]
	if !ok || cur.gen != gen {
		return
	}
	delete(k.buttons, b)
	k.registry.NotifyButtonRelease(b)
}

// ReleaseAll releases every held key and button at once, as when the game
// loses focus.
func (k *KeyReleaser) ReleaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for code, h := range k.held {
		h.stop()
		delete(k.held, code)
		k.registry.NotifyRelease(code)
	}
	for b, h := range k.buttons {
		if h.stop != nil {
			h.stop()
		}
		delete(k.buttons, b)
		k.registry.NotifyButtonRelease(b)
	}
}

// Held returns the number of keys currently held.
func (k *KeyReleaser) Held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.held)
}
