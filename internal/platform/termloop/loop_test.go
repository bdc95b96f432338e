package termloop

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winrun/internal/metrics"
	"winrun/internal/window"
)

type scriptedHandler struct {
	window.NopHandler

	sim    tcell.SimulationScreen
	inject func(tcell.SimulationScreen)
	calls  []string
	quit   bool
	frames int
}

func (h *scriptedHandler) WindowCreated(w window.NativeWindow) {
	h.calls = append(h.calls, "window_created")
	h.inject(h.sim)
}

func (h *scriptedHandler) Redraw() bool {
	h.frames++
	return !h.quit
}

func (h *scriptedHandler) GotFocus()  { h.calls = append(h.calls, "got_focus") }
func (h *scriptedHandler) LostFocus() { h.calls = append(h.calls, "lost_focus") }

func (h *scriptedHandler) KeyboardInput(state window.ElementState, key window.PhysicalKey) {
	h.calls = append(h.calls, fmt.Sprintf("key(%s,%s)", state, key))
	if state == window.Released && key == window.Code(window.KeyQ) {
		h.quit = true
	}
}

func (h *scriptedHandler) CursorMoved(p window.PhysicalPosition) {
	h.calls = append(h.calls, "cursor_moved"+p.String())
}

func (h *scriptedHandler) MouseInput(state window.ElementState, b window.MouseButton) {
	h.calls = append(h.calls, fmt.Sprintf("mouse(%s,%s)", state, b))
}

func (h *scriptedHandler) MouseMotion(dx, dy float64) {
	h.calls = append(h.calls, fmt.Sprintf("motion(%g,%g)", dx, dy))
}

func runSimulated(t *testing.T, inject func(tcell.SimulationScreen)) *scriptedHandler {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	loop, err := New(
		WithScreen(sim),
		WithFrameInterval(time.Millisecond),
		WithSignals(false),
		WithLogger(quiet),
	)
	require.NoError(t, err)

	h := &scriptedHandler{sim: sim, inject: inject}
	done := make(chan error, 1)
	go func() {
		done <- window.Run(loop, h, "test",
			window.WithLogger(quiet),
			window.WithMetrics(metrics.NewSessionMetrics(metrics.NewRegistry("test", ""))),
		)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}
	return h
}

func TestSimulatedInputAndQuit(t *testing.T) {
	h := runSimulated(t, func(s tcell.SimulationScreen) {
		s.InjectMouse(5, 5, tcell.ButtonPrimary, tcell.ModNone)
		s.InjectMouse(6, 7, tcell.ButtonNone, tcell.ModNone)
		s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	})

	assert.Equal(t, []string{
		"window_created",
		"got_focus",
		"cursor_moved(5.0, 5.0)",
		"mouse(pressed,left)",
		"cursor_moved(6.0, 7.0)",
		"mouse(released,left)",
		"motion(1,2)",
		"key(pressed,Q)",
		"key(released,Q)",
	}, h.calls)
	assert.GreaterOrEqual(t, h.frames, 1)
}

func TestSimulatedInterruptCloses(t *testing.T) {
	h := runSimulated(t, func(s tcell.SimulationScreen) {
		s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	})

	assert.Equal(t, []string{"window_created", "got_focus"}, h.calls)
}

func TestSimulatedFocusLossGatesMotion(t *testing.T) {
	h := runSimulated(t, func(s tcell.SimulationScreen) {
		_ = s.PostEvent(tcell.NewEventFocus(false))
		s.InjectMouse(1, 1, tcell.ButtonNone, tcell.ModNone)
		s.InjectMouse(2, 2, tcell.ButtonNone, tcell.ModNone)
		s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	})

	assert.Equal(t, []string{
		"window_created",
		"got_focus",
		"lost_focus",
		"cursor_moved(1.0, 1.0)",
		"cursor_moved(2.0, 2.0)",
		"key(pressed,Q)",
		"key(released,Q)",
	}, h.calls)
}

func TestRequestInnerSizeUnsupported(t *testing.T) {
	w := &Window{}
	assert.ErrorIs(t, w.RequestInnerSize(window.PhysicalSize{Width: 800, Height: 500}), ErrResizeUnsupported)
	assert.Equal(t, 1.0, w.ScaleFactor())
}
