package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winrun/internal/config"
	"winrun/internal/metrics"
	"winrun/internal/platform/termloop"
	"winrun/internal/window"
)

type fakeSaver struct {
	inhibits []string
	releases int
}

func (s *fakeSaver) Inhibit(reason string) { s.inhibits = append(s.inhibits, reason) }
func (s *fakeSaver) Release()              { s.releases++ }

type fakeClicker struct {
	clicks  int
	paused  bool
	resumes int
}

func (c *fakeClicker) Click() { c.clicks++ }
func (c *fakeClicker) Pause() { c.paused = true }

func (c *fakeClicker) Resume() {
	c.paused = false
	c.resumes++
}

type sizeWriter struct {
	got []window.PhysicalSize
	err error
}

func (w *sizeWriter) RequestInnerSize(size window.PhysicalSize) error {
	w.got = append(w.got, size)
	return w.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T) *demoHandler {
	t.Helper()
	h, err := newDemoHandler("demo", config.DefaultConfig().Demo, quietLogger())
	require.NoError(t, err)
	return h
}

func TestNewDemoHandlerRejectsUnknownKeys(t *testing.T) {
	cfg := config.DefaultConfig().Demo
	cfg.QuitKey = "NotAKey"

	_, err := newDemoHandler("demo", cfg, quietLogger())
	assert.ErrorContains(t, err, "quit key")

	cfg = config.DefaultConfig().Demo
	cfg.ToggleCursorKey = "NotAKey"
	_, err = newDemoHandler("demo", cfg, quietLogger())
	assert.ErrorContains(t, err, "toggle cursor key")
}

func TestQuitKeyLatches(t *testing.T) {
	h := newTestHandler(t)
	assert.True(t, h.Redraw())

	h.KeyboardInput(window.Released, window.Code(window.KeyQ))
	assert.False(t, h.Redraw())

	// Later keys do not clear the request.
	h.KeyboardInput(window.Pressed, window.Code(window.KeyA))
	assert.False(t, h.Redraw())
}

func TestToggleKeyOnPressOnly(t *testing.T) {
	h := newTestHandler(t)
	require.True(t, h.CursorShouldBeVisible())

	h.KeyboardInput(window.Pressed, window.Code(window.KeyC))
	assert.False(t, h.CursorShouldBeVisible())

	h.KeyboardInput(window.Released, window.Code(window.KeyC))
	assert.False(t, h.CursorShouldBeVisible())

	h.KeyboardInput(window.Pressed, window.Code(window.KeyC))
	assert.True(t, h.CursorShouldBeVisible())
	assert.True(t, h.Redraw())
}

func TestSetCursorVisible(t *testing.T) {
	h := newTestHandler(t)

	h.SetCursorVisible(false)
	assert.False(t, h.CursorShouldBeVisible())

	h.SetCursorVisible(true)
	assert.True(t, h.CursorShouldBeVisible())
}

func TestScaleFactorChangedRequestsSize(t *testing.T) {
	h := newTestHandler(t)
	w := &sizeWriter{}

	h.ScaleFactorChanged(2, w)
	assert.Equal(t, []window.PhysicalSize{{Width: 800, Height: 500}}, w.got)
	assert.Equal(t, 2.0, h.st.scale)

	w.err = errors.New("not supported")
	assert.NotPanics(t, func() { h.ScaleFactorChanged(1.5, w) })
	assert.Len(t, w.got, 2)
}

func TestFocusDrivesSaverAndClicks(t *testing.T) {
	h := newTestHandler(t)
	saver := &fakeSaver{}
	clicks := &fakeClicker{}
	h.saver = saver
	h.saverReason = "demo running"
	h.clicks = clicks

	h.GotFocus()
	h.LostFocus()
	h.GotFocus()

	assert.Equal(t, []string{"demo running", "demo running"}, saver.inhibits)
	assert.Equal(t, 1, saver.releases)
	assert.Equal(t, 2, clicks.resumes)
	assert.False(t, clicks.paused)
	assert.True(t, h.st.focused)
}

func TestMousePressClicks(t *testing.T) {
	h := newTestHandler(t)
	clicks := &fakeClicker{}
	h.clicks = clicks

	h.MouseInput(window.Pressed, window.MouseLeft)
	h.MouseInput(window.Released, window.MouseLeft)

	assert.Equal(t, 1, clicks.clicks)
	assert.Equal(t, "released left", h.st.button)
}

func TestStatusRows(t *testing.T) {
	h := newTestHandler(t)
	h.Redraw()
	h.Resized(window.PhysicalSize{Width: 100, Height: 50})
	h.CursorEntered()
	h.CursorMoved(window.PhysicalPosition{X: 3, Y: 4})
	h.MouseMotion(2, -1)
	h.SetCursorVisible(false)

	s := h.status()
	assert.Equal(t, "demo", s.Title)
	assert.Equal(t, "Q quits, C toggles the cursor", s.Hint)

	rows := make(map[string]string, len(s.Rows))
	for _, r := range s.Rows {
		rows[r.Label] = r.Value
	}
	assert.Equal(t, "1", rows["frames"])
	assert.Equal(t, h.st.size.String(), rows["size"])
	assert.Equal(t, "hidden", rows["cursor"])
	assert.Equal(t, "(3.0, 4.0)", rows["pointer"])
	assert.Equal(t, "(2, -1)", rows["raw motion"])
	assert.Equal(t, "-", rows["last key"])

	h.CursorLeft()
	for _, r := range h.status().Rows {
		if r.Label == "pointer" {
			assert.Equal(t, "outside", r.Value)
		}
	}
}

// scripted injects terminal input once the window exists.
type scripted struct {
	*demoHandler
	sim    tcell.SimulationScreen
	inject func(tcell.SimulationScreen)
}

func (s *scripted) WindowCreated(w window.NativeWindow) {
	s.demoHandler.WindowCreated(w)
	s.inject(s.sim)
}

func TestTerminalSession(t *testing.T) {
	h := newTestHandler(t)
	clicks := &fakeClicker{}
	h.clicks = clicks

	sim := tcell.NewSimulationScreen("UTF-8")
	loop, err := termloop.New(
		termloop.WithScreen(sim),
		termloop.WithFrameInterval(time.Millisecond),
		termloop.WithSignals(false),
		termloop.WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	app := &scripted{demoHandler: h, sim: sim, inject: func(s tcell.SimulationScreen) {
		s.InjectKey(tcell.KeyRune, 'c', tcell.ModNone)
		s.InjectMouse(4, 2, tcell.ButtonPrimary, tcell.ModNone)
		s.InjectMouse(4, 2, tcell.ButtonNone, tcell.ModNone)
		s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	}}

	done := make(chan error, 1)
	go func() {
		done <- window.Run(loop, app, "demo",
			window.WithLogger(quietLogger()),
			window.WithMetrics(metrics.NewSessionMetrics(metrics.NewRegistry("test", ""))),
		)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}

	assert.False(t, h.CursorShouldBeVisible())
	assert.True(t, h.shouldQuit)
	assert.Positive(t, h.st.frames)
	assert.Equal(t, 1, clicks.clicks)
	assert.NotNil(t, h.term)
}
