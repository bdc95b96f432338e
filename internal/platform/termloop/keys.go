package termloop

import (
	"github.com/gdamore/tcell/v2"

	"winrun/internal/window"
)

var namedKeys = map[tcell.Key]window.KeyCode{
	tcell.KeyEscape:     window.KeyEscape,
	tcell.KeyEnter:      window.KeyEnter,
	tcell.KeyTab:        window.KeyTab,
	tcell.KeyBacktab:    window.KeyTab,
	tcell.KeyBackspace:  window.KeyBackspace,
	tcell.KeyBackspace2: window.KeyBackspace,
	tcell.KeyDelete:     window.KeyDelete,
	tcell.KeyInsert:     window.KeyInsert,
	tcell.KeyHome:       window.KeyHome,
	tcell.KeyEnd:        window.KeyEnd,
	tcell.KeyPgUp:       window.KeyPageUp,
	tcell.KeyPgDn:       window.KeyPageDown,
	tcell.KeyUp:         window.KeyArrowUp,
	tcell.KeyDown:       window.KeyArrowDown,
	tcell.KeyLeft:       window.KeyArrowLeft,
	tcell.KeyRight:      window.KeyArrowRight,
	tcell.KeyF1:         window.KeyF1,
	tcell.KeyF2:         window.KeyF2,
	tcell.KeyF3:         window.KeyF3,
	tcell.KeyF4:         window.KeyF4,
	tcell.KeyF5:         window.KeyF5,
	tcell.KeyF6:         window.KeyF6,
	tcell.KeyF7:         window.KeyF7,
	tcell.KeyF8:         window.KeyF8,
	tcell.KeyF9:         window.KeyF9,
	tcell.KeyF10:        window.KeyF10,
	tcell.KeyF11:        window.KeyF11,
	tcell.KeyF12:        window.KeyF12,
}

var punctuation = map[rune]window.KeyCode{
	' ':  window.KeySpace,
	'-':  window.KeyMinus,
	'_':  window.KeyMinus,
	'=':  window.KeyEqual,
	'+':  window.KeyEqual,
	'[':  window.KeyBracketLeft,
	'{':  window.KeyBracketLeft,
	']':  window.KeyBracketRight,
	'}':  window.KeyBracketRight,
	'\\': window.KeyBackslash,
	'|':  window.KeyBackslash,
	';':  window.KeySemicolon,
	':':  window.KeySemicolon,
	'\'': window.KeyQuote,
	'"':  window.KeyQuote,
	'`':  window.KeyBackquote,
	'~':  window.KeyBackquote,
	',':  window.KeyComma,
	'<':  window.KeyComma,
	'.':  window.KeyPeriod,
	'>':  window.KeyPeriod,
	'/':  window.KeySlash,
	'?':  window.KeySlash,
}

// nativeKeyBase offsets non-rune tcell keys so they never collide with
// runes in PhysicalKey.NativeCode.
const nativeKeyBase = 0x110000

// physicalKey maps a terminal key to the physical key most likely to
// have produced it. Terminals report characters, not scancodes, so
// shifted symbols map back to their base key.
func physicalKey(ev *tcell.EventKey) window.PhysicalKey {
	k := ev.Key()
	if code, ok := namedKeys[k]; ok {
		return window.Code(code)
	}

	if k == tcell.KeyRune {
		r := ev.Rune()
		if code := window.LetterKey(r); code != window.KeyUnidentified {
			return window.Code(code)
		}
		if code := window.DigitKey(r); code != window.KeyUnidentified {
			return window.Code(code)
		}
		if code, ok := punctuation[r]; ok {
			return window.Code(code)
		}
		return window.Unidentified(uint32(r))
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return window.Code(window.KeyA + window.KeyCode(k-tcell.KeyCtrlA))
	}
	return window.Unidentified(nativeKeyBase + uint32(k))
}

// isInterrupt reports whether ev is the terminal's interrupt key, which
// stands in for the window close button.
func isInterrupt(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C')
}
