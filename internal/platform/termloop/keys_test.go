package termloop

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"winrun/internal/window"
)

func TestPhysicalKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want window.PhysicalKey
	}{
		{"lower letter", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), window.Code(window.KeyQ)},
		{"upper letter", tcell.NewEventKey(tcell.KeyRune, 'C', tcell.ModShift), window.Code(window.KeyC)},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone), window.Code(window.Digit4)},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), window.Code(window.KeySpace)},
		{"shifted symbol", tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModShift), window.Code(window.KeySlash)},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), window.Code(window.KeyEscape)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), window.Code(window.KeyEnter)},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), window.Code(window.KeyArrowLeft)},
		{"function", tcell.NewEventKey(tcell.KeyF10, 0, tcell.ModNone), window.Code(window.KeyF10)},
		{"control letter", tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl), window.Code(window.KeyW)},
		{"non ascii rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), window.Unidentified('é')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, physicalKey(tt.ev))
		})
	}
}

func TestIsInterrupt(t *testing.T) {
	assert.True(t, isInterrupt(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, isInterrupt(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)))
}

func TestMouseTranslate(t *testing.T) {
	var m mouseState

	out := m.translate(tcell.NewEventMouse(3, 4, tcell.ButtonPrimary, tcell.ModNone))
	assert.Equal(t, []window.WindowEvent{
		window.CursorMoved{Position: window.PhysicalPosition{X: 3, Y: 4}},
		window.MouseInput{State: window.Pressed, Button: window.MouseLeft},
	}, out.events)
	assert.Nil(t, out.motion)

	out = m.translate(tcell.NewEventMouse(5, 1, tcell.ButtonPrimary, tcell.ModNone))
	assert.Equal(t, []window.WindowEvent{
		window.CursorMoved{Position: window.PhysicalPosition{X: 5, Y: 1}},
	}, out.events)
	if assert.NotNil(t, out.motion) {
		assert.Equal(t, window.MouseMotion{DX: 2, DY: -3}, *out.motion)
	}

	out = m.translate(tcell.NewEventMouse(5, 1, tcell.ButtonSecondary, tcell.ModNone))
	assert.Equal(t, []window.WindowEvent{
		window.MouseInput{State: window.Released, Button: window.MouseLeft},
		window.MouseInput{State: window.Pressed, Button: window.MouseRight},
	}, out.events)
	assert.Nil(t, out.motion)
}

func TestMouseWheel(t *testing.T) {
	var m mouseState
	m.translate(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))

	out := m.translate(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, []window.WindowEvent{
		window.MouseWheel{Delta: window.LineDelta(0, -1), Phase: window.TouchMoved},
	}, out.events)
	assert.Zero(t, m.buttons, "wheel bits are not buttons")
}
