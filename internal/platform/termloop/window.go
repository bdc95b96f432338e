package termloop

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"winrun/internal/window"
)

// ErrResizeUnsupported is returned by RequestInnerSize: a program cannot
// resize the terminal it runs in.
var ErrResizeUnsupported = errors.New("termloop: terminal size is controlled by the user")

// Window is the terminal screen seen through window.NativeWindow. Sizes
// and positions are in character cells.
type Window struct {
	id     window.WindowID
	screen tcell.Screen
	width  int
	height int

	redrawPending bool
	cursorVisible bool
	cursorX       int
	cursorY       int
}

// ID implements window.NativeWindow.
func (w *Window) ID() window.WindowID { return w.id }

// RequestRedraw marks the window for the next frame tick.
func (w *Window) RequestRedraw() { w.redrawPending = true }

// SetCursorVisible shows or hides the terminal cursor. A shown cursor
// follows the mouse.
func (w *Window) SetCursorVisible(visible bool) {
	w.cursorVisible = visible
	w.applyCursor()
}

func (w *Window) applyCursor() {
	if w.cursorVisible {
		w.screen.ShowCursor(w.cursorX, w.cursorY)
	} else {
		w.screen.HideCursor()
	}
}

func (w *Window) moveCursor(x, y int) {
	w.cursorX, w.cursorY = x, y
	if w.cursorVisible {
		w.screen.ShowCursor(x, y)
	}
}

// InnerSize returns the terminal size in cells.
func (w *Window) InnerSize() window.PhysicalSize {
	return window.PhysicalSize{Width: uint32(w.width), Height: uint32(w.height)}
}

// ScaleFactor is always 1: a cell is the terminal's pixel.
func (w *Window) ScaleFactor() float64 { return 1 }

// RequestInnerSize implements window.SizeWriter.
func (w *Window) RequestInnerSize(window.PhysicalSize) error {
	return ErrResizeUnsupported
}

// Screen returns the screen so the application can draw cells. The loop
// calls Show after every redraw.
func (w *Window) Screen() tcell.Screen { return w.screen }

var (
	_ window.NativeWindow = (*Window)(nil)
	_ window.SizeWriter   = (*Window)(nil)
)
