package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"gioui.org/layout"
	"github.com/gdamore/tcell/v2"

	"winrun/cmd/winrun-demo/internal/hud"
	"winrun/cmd/winrun-demo/internal/theme"
	"winrun/internal/config"
	"winrun/internal/platform/gioloop"
	"winrun/internal/platform/termloop"
	"winrun/internal/window"
)

type screensaver interface {
	Inhibit(reason string)
	Release()
}

type clicker interface {
	Click()
	Pause()
	Resume()
}

// stats is what the demo shows about the events it has seen.
type stats struct {
	frames  uint64
	focused bool
	size    window.PhysicalSize
	scale   float64
	lastKey string
	pointer window.PhysicalPosition
	inside  bool
	button  string
	wheel   string
	motionX float64
	motionY float64
	touches int
}

// demoHandler logs every callback, quits on the quit key and toggles
// the cursor on the toggle key. It also shows a live status panel.
type demoHandler struct {
	log *slog.Logger

	title     string
	quitKey   window.PhysicalKey
	toggleKey window.PhysicalKey
	scaleSize window.PhysicalSize

	shouldQuit    bool
	cursorVisible atomic.Bool

	saver       screensaver
	saverReason string
	clicks      clicker

	native window.NativeWindow
	term   tcell.Screen
	st     stats
}

func newDemoHandler(title string, cfg config.DemoConfig, log *slog.Logger) (*demoHandler, error) {
	quit, err := window.ParseKeyCode(cfg.QuitKey)
	if err != nil {
		return nil, fmt.Errorf("quit key: %w", err)
	}
	toggle, err := window.ParseKeyCode(cfg.ToggleCursorKey)
	if err != nil {
		return nil, fmt.Errorf("toggle cursor key: %w", err)
	}

	h := &demoHandler{
		log:       log,
		title:     title,
		quitKey:   window.Code(quit),
		toggleKey: window.Code(toggle),
		scaleSize: window.PhysicalSize{Width: cfg.ScaleRequestWidth, Height: cfg.ScaleRequestHeight},
		st:        stats{scale: 1},
	}
	h.cursorVisible.Store(cfg.CursorVisible)
	return h, nil
}

// SetCursorVisible changes the desired cursor visibility. It may be
// called from any goroutine; the session applies it on the next redraw.
func (h *demoHandler) SetCursorVisible(visible bool) {
	h.cursorVisible.Store(visible)
	h.log.Info("cursor visibility set", "visible", visible)
}

func (h *demoHandler) toggleCursor() bool {
	for {
		old := h.cursorVisible.Load()
		if h.cursorVisible.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (h *demoHandler) MinSize() (uint16, uint16)   { return 640, 480 }
func (h *demoHandler) StartSize() (uint16, uint16) { return 640 * 2, 480 * 2 }
func (h *demoHandler) CursorShouldBeVisible() bool { return h.cursorVisible.Load() }

func (h *demoHandler) Redraw() bool {
	h.st.frames++
	if h.term != nil {
		drawTerminal(h.term, h.status())
	}
	return !h.shouldQuit
}

func (h *demoHandler) GotFocus() {
	h.log.Info("got focus")
	h.st.focused = true
	if h.saver != nil {
		h.saver.Inhibit(h.saverReason)
	}
	if h.clicks != nil {
		h.clicks.Resume()
	}
}

func (h *demoHandler) LostFocus() {
	h.log.Info("lost focus")
	h.st.focused = false
	if h.saver != nil {
		h.saver.Release()
	}
	if h.clicks != nil {
		h.clicks.Pause()
	}
}

func (h *demoHandler) WindowCreated(w window.NativeWindow) {
	h.log.Info("window was created", "id", w.ID(), "size", w.InnerSize(), "scale", w.ScaleFactor())
	h.native = w
	h.st.size = w.InnerSize()
	h.st.scale = w.ScaleFactor()

	switch nw := w.(type) {
	case *termloop.Window:
		h.term = nw.Screen()
	case *gioloop.Window:
		panel := hud.New(theme.New())
		nw.SetLayout(func(gtx layout.Context) layout.Dimensions {
			return panel.Layout(gtx, h.status())
		})
	}
}

func (h *demoHandler) Resized(size window.PhysicalSize) {
	h.log.Info("resized", "size", size)
	h.st.size = size
}

func (h *demoHandler) KeyboardInput(state window.ElementState, key window.PhysicalKey) {
	h.log.Info("keyboard_input", "state", state, "key", key)
	h.st.lastKey = state.String() + " " + key.String()

	if key == h.quitKey {
		h.shouldQuit = true
	}
	if state == window.Pressed && key == h.toggleKey {
		h.log.Info("toggle cursor", "visible", h.toggleCursor())
	}
}

func (h *demoHandler) CursorEntered() {
	h.log.Info("cursor entered")
	h.st.inside = true
}

func (h *demoHandler) CursorLeft() {
	h.log.Info("cursor left")
	h.st.inside = false
}

func (h *demoHandler) CursorMoved(pos window.PhysicalPosition) {
	h.log.Debug("cursor moved", "position", pos)
	h.st.pointer = pos
}

func (h *demoHandler) MouseInput(state window.ElementState, button window.MouseButton) {
	h.log.Info("mouse_input", "state", state, "button", button)
	h.st.button = state.String() + " " + button.String()
	if state == window.Pressed && h.clicks != nil {
		h.clicks.Click()
	}
}

func (h *demoHandler) MouseWheel(delta window.ScrollDelta, phase window.TouchPhase) {
	h.log.Info("mouse_wheel", "delta", delta, "phase", phase)
	h.st.wheel = delta.String()
}

func (h *demoHandler) MouseMotion(dx, dy float64) {
	h.log.Debug("mouse motion", "dx", dx, "dy", dy)
	h.st.motionX += dx
	h.st.motionY += dy
}

func (h *demoHandler) Touch(t window.Touch) {
	h.log.Info("touch", "touch", t)
	h.st.touches++
}

func (h *demoHandler) ScaleFactorChanged(scale float64, w window.SizeWriter) {
	h.log.Info("scale factor changed", "scale", scale)
	h.st.scale = scale
	if err := w.RequestInnerSize(h.scaleSize); err != nil {
		h.log.Warn("inner size request rejected", "size", h.scaleSize, "error", err)
	}
}

func (h *demoHandler) status() hud.Status {
	cursor := "visible"
	if !h.cursorVisible.Load() {
		cursor = "hidden"
	}
	pointer := "outside"
	if h.st.inside {
		pointer = h.st.pointer.String()
	}

	return hud.Status{
		Title:   h.title,
		Focused: h.st.focused,
		Rows: []hud.Row{
			{Label: "frames", Value: fmt.Sprint(h.st.frames)},
			{Label: "size", Value: h.st.size.String()},
			{Label: "scale", Value: fmt.Sprintf("%.2f", h.st.scale)},
			{Label: "cursor", Value: cursor},
			{Label: "pointer", Value: pointer},
			{Label: "last key", Value: orNone(h.st.lastKey)},
			{Label: "last button", Value: orNone(h.st.button)},
			{Label: "wheel", Value: orNone(h.st.wheel)},
			{Label: "raw motion", Value: fmt.Sprintf("(%.0f, %.0f)", h.st.motionX, h.st.motionY)},
			{Label: "touches", Value: fmt.Sprint(h.st.touches)},
		},
		Hint: fmt.Sprintf("%s quits, %s toggles the cursor", h.quitKey, h.toggleKey),
	}
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var _ window.Handler = (*demoHandler)(nil)
