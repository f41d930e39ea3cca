package input

import (
	"errors"
	"testing"
)

func TestRegisterKeyReturnsSameSignal(t *testing.T) {
	r := NewRegistry()

	a, err := r.RegisterKey(KeyA)
	if err != nil {
		t.Fatalf("RegisterKey() failed: %v", err)
	}
	b, err := r.RegisterKey(KeyA)
	if err != nil {
		t.Fatalf("RegisterKey() failed: %v", err)
	}
	if a != b {
		t.Error("re-registering a key should return the existing signal")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", r.Len())
	}
}

func TestRegisterKeyInvalid(t *testing.T) {
	tests := []struct {
		name string
		code KeyCode
	}{
		{"negative", -1},
		{"upper bound", MaxKeyCode},
		{"far above", MaxKeyCode + 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			s, err := r.RegisterKey(tc.code)
			if !errors.Is(err, ErrInvalidInputCode) {
				t.Fatalf("RegisterKey(%d) error = %v, expected ErrInvalidInputCode", tc.code, err)
			}
			if s != nil {
				t.Error("a failed registration should not return a signal")
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d after failed registration, expected 0", r.Len())
			}

			// A valid retry still works.
			if _, err := r.RegisterKey(KeySpace); err != nil {
				t.Errorf("RegisterKey(KeySpace) after failure = %v", err)
			}
			if r.Len() != 1 {
				t.Errorf("Len() = %d after valid retry, expected 1", r.Len())
			}
		})
	}
}

func TestRegisterButton(t *testing.T) {
	r := NewRegistry()

	for _, b := range []Button{ButtonPrimary, ButtonSecondary, ButtonTertiary} {
		s1, err := r.RegisterButton(b)
		if err != nil {
			t.Fatalf("RegisterButton(%v) failed: %v", b, err)
		}
		s2, _ := r.RegisterButton(b)
		if s1 != s2 {
			t.Errorf("RegisterButton(%v) should return the same signal", b)
		}
	}

	for _, b := range []Button{0, 4, -1} {
		if _, err := r.RegisterButton(b); !errors.Is(err, ErrInvalidInputCode) {
			t.Errorf("RegisterButton(%d) error = %v, expected ErrInvalidInputCode", b, err)
		}
	}
}

func TestNotifyRoutesToSignal(t *testing.T) {
	r := NewRegistry()
	k, _ := r.RegisterKey(KeyUp)

	r.NotifyPress(KeyUp)
	if !k.IsDown() {
		t.Fatal("IsDown() should be true after NotifyPress")
	}
	if k.IsDown() {
		t.Error("second IsDown() in the same frame should be false")
	}
	if !k.IsHold() {
		t.Error("IsHold() should be true")
	}

	r.NotifyRelease(KeyUp)
	if !k.IsUp() {
		t.Error("IsUp() should be true after NotifyRelease")
	}
}

func TestNotifyUnregisteredIsDropped(t *testing.T) {
	r := NewRegistry()

	// Must not panic or allocate signals.
	r.NotifyPress(KeyZ)
	r.NotifyRelease(KeyZ)
	r.NotifyButtonPress(ButtonSecondary)
	r.NotifyButtonRelease(ButtonSecondary)
	r.NotifyButtonPress(Button(9))

	if r.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", r.Len())
	}
	if r.Key(KeyZ) != nil {
		t.Error("Key(KeyZ) should be nil")
	}
	if r.Button(ButtonSecondary) != nil {
		t.Error("Button(ButtonSecondary) should be nil")
	}
}

func TestNotifyButton(t *testing.T) {
	r := NewRegistry()
	b, _ := r.RegisterButton(ButtonPrimary)

	r.NotifyButtonPress(ButtonPrimary)
	if !b.IsDown() {
		t.Error("IsDown() should be true after NotifyButtonPress")
	}
	r.NotifyButtonRelease(ButtonPrimary)
	if !b.IsUp() {
		t.Error("IsUp() should be true after NotifyButtonRelease")
	}
}

func TestCursor(t *testing.T) {
	r := NewRegistry()

	if x, y := r.Cursor(); x != 0 || y != 0 {
		t.Errorf("initial Cursor() = (%d, %d), expected (0, 0)", x, y)
	}

	tests := []struct{ x, y int }{
		{10, 20},
		{-5, 7},
		{0, -1},
		{1 << 20, 3},
	}
	for _, tc := range tests {
		r.SetCursor(tc.x, tc.y)
		if x, y := r.Cursor(); x != tc.x || y != tc.y {
			t.Errorf("Cursor() = (%d, %d), expected (%d, %d)", x, y, tc.x, tc.y)
		}
	}
}

func TestKeyForRune(t *testing.T) {
	tests := []struct {
		r        rune
		expected KeyCode
		ok       bool
	}{
		{'a', KeyA, true},
		{'A', KeyA, true},
		{'z', KeyZ, true},
		{'5', Key5, true},
		{' ', KeySpace, true},
		{'#', KeyCode('#'), true},
		{'\x01', 0, false},
		{0x1F600, 0, false},
	}

	for _, tc := range tests {
		code, ok := KeyForRune(tc.r)
		if ok != tc.ok || code != tc.expected {
			t.Errorf("KeyForRune(%q) = (%d, %v), expected (%d, %v)", tc.r, code, ok, tc.expected, tc.ok)
		}
	}
}
