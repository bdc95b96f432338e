package window

import (
	"fmt"
	"strings"
)

// KeyCode identifies a physical key by its position on a US layout,
// independent of the active keyboard layout.
type KeyCode uint16

const (
	KeyUnidentified KeyCode = iota

	KeyA
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

	Digit0
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9

	KeyEscape
	KeyEnter
	KeyTab
	KeySpace
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight

	KeyShiftLeft
	KeyShiftRight
	KeyControlLeft
	KeyControlRight
	KeyAltLeft
	KeyAltRight
	KeySuperLeft
	KeySuperRight

	KeyMinus
	KeyEqual
	KeyBracketLeft
	KeyBracketRight
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyBackquote
	KeyComma
	KeyPeriod
	KeySlash

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	keyCodeCount
)

var keyNames = [keyCodeCount]string{
	KeyUnidentified: "Unidentified",
	KeyEscape:       "Escape",
	KeyEnter:        "Enter",
	KeyTab:          "Tab",
	KeySpace:        "Space",
	KeyBackspace:    "Backspace",
	KeyDelete:       "Delete",
	KeyInsert:       "Insert",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyPageUp:       "PageUp",
	KeyPageDown:     "PageDown",
	KeyArrowUp:      "ArrowUp",
	KeyArrowDown:    "ArrowDown",
	KeyArrowLeft:    "ArrowLeft",
	KeyArrowRight:   "ArrowRight",
	KeyShiftLeft:    "ShiftLeft",
	KeyShiftRight:   "ShiftRight",
	KeyControlLeft:  "ControlLeft",
	KeyControlRight: "ControlRight",
	KeyAltLeft:      "AltLeft",
	KeyAltRight:     "AltRight",
	KeySuperLeft:    "SuperLeft",
	KeySuperRight:   "SuperRight",
	KeyMinus:        "Minus",
	KeyEqual:        "Equal",
	KeyBracketLeft:  "BracketLeft",
	KeyBracketRight: "BracketRight",
	KeyBackslash:    "Backslash",
	KeySemicolon:    "Semicolon",
	KeyQuote:        "Quote",
	KeyBackquote:    "Backquote",
	KeyComma:        "Comma",
	KeyPeriod:       "Period",
	KeySlash:        "Slash",
}

func init() {
	for r := 'A'; r <= 'Z'; r++ {
		keyNames[KeyA+KeyCode(r-'A')] = string(r)
	}
	for r := '0'; r <= '9'; r++ {
		keyNames[Digit0+KeyCode(r-'0')] = string(r)
	}
	for i := 0; i < 12; i++ {
		keyNames[KeyF1+KeyCode(i)] = fmt.Sprintf("F%d", i+1)
	}
}

func (k KeyCode) String() string {
	if k < keyCodeCount {
		return keyNames[k]
	}
	return fmt.Sprintf("KeyCode(%d)", uint16(k))
}

// ParseKeyCode looks a key up by the name its String method returns.
// Matching is case-insensitive.
func ParseKeyCode(name string) (KeyCode, error) {
	for code := KeyCode(1); code < keyCodeCount; code++ {
		if strings.EqualFold(keyNames[code], name) {
			return code, nil
		}
	}
	return KeyUnidentified, fmt.Errorf("unknown key name %q", name)
}

// LetterKey returns the key code for an ASCII letter, or KeyUnidentified.
func LetterKey(r rune) KeyCode {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A')
	}
	return KeyUnidentified
}

// DigitKey returns the key code for an ASCII digit, or KeyUnidentified.
func DigitKey(r rune) KeyCode {
	if r >= '0' && r <= '9' {
		return Digit0 + KeyCode(r-'0')
	}
	return KeyUnidentified
}

// PhysicalKey is a key as reported by the platform. Keys the platform
// could not map to a KeyCode carry their native scancode instead.
type PhysicalKey struct {
	Code       KeyCode `json:"code"`
	NativeCode uint32  `json:"native_code,omitempty"`
}

// Code returns a PhysicalKey for an identified key.
func Code(k KeyCode) PhysicalKey {
	return PhysicalKey{Code: k}
}

// Unidentified returns a PhysicalKey for a native scancode with no KeyCode.
func Unidentified(native uint32) PhysicalKey {
	return PhysicalKey{Code: KeyUnidentified, NativeCode: native}
}

// Identified reports whether the key maps to a KeyCode.
func (k PhysicalKey) Identified() bool {
	return k.Code != KeyUnidentified
}

func (k PhysicalKey) String() string {
	if !k.Identified() {
		return fmt.Sprintf("Unidentified(%#x)", k.NativeCode)
	}
	return k.Code.String()
}
