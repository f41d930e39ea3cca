package input

import "unicode"

// KeyCode identifies a keyboard key.
// Values follow the classic virtual-key numbering: letters and digits use
// their upper-case ASCII code, navigation keys sit in the 33..40 range.
type KeyCode int

// MaxKeyCode is the exclusive upper bound of legal key codes.
const MaxKeyCode KeyCode = 0xFFFF

// Named key codes.
const (
	KeyBackspace KeyCode = 8
	KeyTab       KeyCode = 9
	KeyEnter     KeyCode = 10
	KeyEscape    KeyCode = 27
	KeySpace     KeyCode = 32
	KeyPageUp    KeyCode = 33
	KeyPageDown  KeyCode = 34
	KeyEnd       KeyCode = 35
	KeyHome      KeyCode = 36
	KeyLeft      KeyCode = 37
	KeyUp        KeyCode = 38
	KeyRight     KeyCode = 39
	KeyDown      KeyCode = 40
	KeyDelete    KeyCode = 127
)

// Digit and letter key codes.
const (
	Key0 KeyCode = '0' + iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

const (
	KeyA KeyCode = 'A' + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// Valid reports whether the code is inside the legal range.
func (k KeyCode) Valid() bool {
	return k >= 0 && k < MaxKeyCode
}

// KeyForRune maps a typed character to its key code.
// Letters are case-folded so 'a' and 'A' share KeyA.
func KeyForRune(r rune) (KeyCode, bool) {
	if r == ' ' {
		return KeySpace, true
	}
	if r >= 'a' && r <= 'z' {
		r = unicode.ToUpper(r)
	}
	code := KeyCode(r)
	if !code.Valid() || !unicode.IsPrint(r) {
		return 0, false
	}
	return code, true
}

// Button identifies one of the three standard mouse buttons.
type Button int

// Supported mouse buttons.
const (
	ButtonPrimary   Button = 1 // usually left
	ButtonSecondary Button = 2 // usually right
	ButtonTertiary  Button = 3 // usually middle
)

// buttonSlots is the number of supported buttons.
const buttonSlots = 3

// Valid reports whether the button is one of the supported three.
func (b Button) Valid() bool {
	return b >= ButtonPrimary && b <= ButtonTertiary
}

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "Primary"
	case ButtonSecondary:
		return "Secondary"
	case ButtonTertiary:
		return "Tertiary"
	default:
		return "Unknown"
	}
}
