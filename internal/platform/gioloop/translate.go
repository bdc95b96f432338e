package gioloop

import (
	"hash/crc32"
	"strings"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"winrun/internal/window"
)

// namedKeys maps Gio key names that are not single letters, digits or
// function keys.
var namedKeys = map[key.Name]window.KeyCode{
	key.NameEscape:         window.KeyEscape,
	key.NameReturn:         window.KeyEnter,
	key.NameEnter:          window.KeyEnter,
	key.NameTab:            window.KeyTab,
	key.NameSpace:          window.KeySpace,
	key.NameDeleteBackward: window.KeyBackspace,
	key.NameDeleteForward:  window.KeyDelete,
	key.NameHome:           window.KeyHome,
	key.NameEnd:            window.KeyEnd,
	key.NamePageUp:         window.KeyPageUp,
	key.NamePageDown:       window.KeyPageDown,
	key.NameUpArrow:        window.KeyArrowUp,
	key.NameDownArrow:      window.KeyArrowDown,
	key.NameLeftArrow:      window.KeyArrowLeft,
	key.NameRightArrow:     window.KeyArrowRight,
	key.NameShift:          window.KeyShiftLeft,
	key.NameCtrl:           window.KeyControlLeft,
	key.NameAlt:            window.KeyAltLeft,
	key.NameSuper:          window.KeySuperLeft,
	key.NameCommand:        window.KeySuperLeft,
	"-":                    window.KeyMinus,
	"=":                    window.KeyEqual,
	"[":                    window.KeyBracketLeft,
	"]":                    window.KeyBracketRight,
	"\\":                   window.KeyBackslash,
	";":                    window.KeySemicolon,
	"'":                    window.KeyQuote,
	"`":                    window.KeyBackquote,
	",":                    window.KeyComma,
	".":                    window.KeyPeriod,
	"/":                    window.KeySlash,
}

// physicalKey converts a Gio key name. Gio reports names rather than
// scancodes, so unknown keys get a stable code derived from the name.
func physicalKey(name key.Name) window.PhysicalKey {
	if code, ok := namedKeys[name]; ok {
		return window.Code(code)
	}

	s := string(name)
	if len(s) == 1 {
		r := rune(s[0])
		if code := window.LetterKey(r); code != window.KeyUnidentified {
			return window.Code(code)
		}
		if code := window.DigitKey(r); code != window.KeyUnidentified {
			return window.Code(code)
		}
	}
	if strings.HasPrefix(s, "F") {
		if code, err := window.ParseKeyCode(s); err == nil && code >= window.KeyF1 && code <= window.KeyF12 {
			return window.Code(code)
		}
	}
	return window.Unidentified(crc32.ChecksumIEEE([]byte(s)))
}

func keyboardInput(e key.Event) window.KeyboardInput {
	state := window.Released
	if e.State == key.Press {
		state = window.Pressed
	}
	return window.KeyboardInput{State: state, Key: physicalKey(e.Name)}
}

var buttonOrder = []struct {
	gio    pointer.Buttons
	button window.MouseButton
}{
	{pointer.ButtonPrimary, window.MouseLeft},
	{pointer.ButtonSecondary, window.MouseRight},
	{pointer.ButtonTertiary, window.MouseMiddle},
	{pointer.ButtonQuaternary, window.MouseBack},
	{pointer.ButtonQuinary, window.MouseForward},
}

// pointerState turns Gio pointer events into raw window and device
// events. Gio has no raw motion source, so motion deltas are derived from
// successive mouse positions.
type pointerState struct {
	buttons  pointer.Buttons
	last     f32.Point
	hasLast  bool
	inWindow bool
}

// translated is the output of one pointer event: window events in
// delivery order, plus raw motion when the mouse moved.
type translated struct {
	events []window.WindowEvent
	motion *window.MouseMotion
}

func (p *pointerState) translate(e pointer.Event) translated {
	if e.Source == pointer.Touch {
		return p.touch(e)
	}

	var out translated
	switch e.Kind {
	case pointer.Enter:
		p.inWindow = true
		out.events = append(out.events, window.CursorEntered{})
		out.add(p.move(e.Position))
	case pointer.Leave:
		p.inWindow = false
		p.hasLast = false
		out.events = append(out.events, window.CursorLeft{})
	case pointer.Move, pointer.Drag:
		out.add(p.move(e.Position))
	case pointer.Press:
		out.add(p.move(e.Position))
		pressed := e.Buttons &^ p.buttons
		p.buttons |= pressed
		out.events = append(out.events, buttonEvents(pressed, window.Pressed)...)
	case pointer.Release:
		released := p.buttons &^ e.Buttons
		if released == 0 {
			// Some drivers report the released button instead of the
			// remaining ones.
			released = e.Buttons & p.buttons
		}
		p.buttons &^= released
		out.events = append(out.events, buttonEvents(released, window.Released)...)
	case pointer.Cancel:
		out.events = append(out.events, buttonEvents(p.buttons, window.Released)...)
		p.buttons = 0
	case pointer.Scroll:
		// Gio scrolls down for positive Y; handlers expect positive Y to
		// scroll up.
		out.events = append(out.events, window.MouseWheel{
			Delta: window.PixelDelta(float64(-e.Scroll.X), float64(-e.Scroll.Y)),
			Phase: window.TouchMoved,
		})
	}
	return out
}

func (t *translated) add(o translated) {
	t.events = append(t.events, o.events...)
	if o.motion != nil {
		t.motion = o.motion
	}
}

func (p *pointerState) move(pos f32.Point) translated {
	out := translated{events: []window.WindowEvent{
		window.CursorMoved{Position: window.PhysicalPosition{X: float64(pos.X), Y: float64(pos.Y)}},
	}}
	if p.hasLast && pos != p.last {
		out.motion = &window.MouseMotion{DX: float64(pos.X - p.last.X), DY: float64(pos.Y - p.last.Y)}
	}
	p.last = pos
	p.hasLast = true
	return out
}

func (p *pointerState) touch(e pointer.Event) translated {
	var phase window.TouchPhase
	switch e.Kind {
	case pointer.Press:
		phase = window.TouchStarted
	case pointer.Move, pointer.Drag:
		phase = window.TouchMoved
	case pointer.Release:
		phase = window.TouchEnded
	case pointer.Cancel:
		phase = window.TouchCancelled
	default:
		return translated{}
	}
	return translated{events: []window.WindowEvent{window.TouchInput{Touch: window.Touch{
		Phase:    phase,
		Location: window.PhysicalPosition{X: float64(e.Position.X), Y: float64(e.Position.Y)},
		Force:    -1,
		ID:       uint64(e.PointerID),
	}}}}
}

func buttonEvents(set pointer.Buttons, state window.ElementState) []window.WindowEvent {
	var out []window.WindowEvent
	for _, b := range buttonOrder {
		if set.Contain(b.gio) {
			out = append(out, window.MouseInput{State: state, Button: b.button})
		}
	}
	return out
}
