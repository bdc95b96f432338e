package termloop

import (
	"github.com/gdamore/tcell/v2"

	"winrun/internal/window"
)

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

var buttonOrder = []struct {
	mask   tcell.ButtonMask
	button window.MouseButton
}{
	{tcell.ButtonPrimary, window.MouseLeft},
	{tcell.ButtonSecondary, window.MouseRight},
	{tcell.ButtonMiddle, window.MouseMiddle},
	{tcell.Button4, window.MouseBack},
	{tcell.Button5, window.MouseForward},
}

// mouseState tracks the last reported position and buttons. Terminals
// report absolute cell positions only, so raw motion is the cell delta.
type mouseState struct {
	buttons tcell.ButtonMask
	x, y    int
	hasLast bool
}

type translated struct {
	events []window.WindowEvent
	motion *window.MouseMotion
}

func (m *mouseState) translate(ev *tcell.EventMouse) translated {
	var out translated
	x, y := ev.Position()

	if !m.hasLast || x != m.x || y != m.y {
		out.events = append(out.events, window.CursorMoved{
			Position: window.PhysicalPosition{X: float64(x), Y: float64(y)},
		})
		if m.hasLast {
			out.motion = &window.MouseMotion{DX: float64(x - m.x), DY: float64(y - m.y)}
		}
		m.x, m.y, m.hasLast = x, y, true
	}

	buttons := ev.Buttons() &^ wheelMask
	pressed := buttons &^ m.buttons
	released := m.buttons &^ buttons
	m.buttons = buttons

	for _, b := range buttonOrder {
		if released&b.mask != 0 {
			out.events = append(out.events, window.MouseInput{State: window.Released, Button: b.button})
		}
	}
	for _, b := range buttonOrder {
		if pressed&b.mask != 0 {
			out.events = append(out.events, window.MouseInput{State: window.Pressed, Button: b.button})
		}
	}

	if wheel := ev.Buttons() & wheelMask; wheel != 0 {
		var dx, dy float64
		if wheel&tcell.WheelUp != 0 {
			dy++
		}
		if wheel&tcell.WheelDown != 0 {
			dy--
		}
		if wheel&tcell.WheelLeft != 0 {
			dx--
		}
		if wheel&tcell.WheelRight != 0 {
			dx++
		}
		out.events = append(out.events, window.MouseWheel{Delta: window.LineDelta(dx, dy), Phase: window.TouchMoved})
	}
	return out
}
