package gioloop

import (
	"errors"
	"image"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/unit"

	"winrun/internal/window"
)

// ErrWindowClosed is returned by size requests on a destroyed window.
var ErrWindowClosed = errors.New("gioloop: window closed")

// Window is a Gio window seen through window.NativeWindow.
type Window struct {
	id     window.WindowID
	w      *app.Window
	size   image.Point
	scale  float32
	closed bool

	cursorVisible bool
	layout        func(gtx layout.Context) layout.Dimensions
}

func newWindow(id window.WindowID, attrs window.Attributes) *Window {
	w := new(app.Window)
	opts := []app.Option{
		app.Title(attrs.Title),
		app.Size(unit.Dp(attrs.InnerSize.Width), unit.Dp(attrs.InnerSize.Height)),
		app.MinSize(unit.Dp(attrs.MinInnerSize.Width), unit.Dp(attrs.MinInnerSize.Height)),
	}
	if !attrs.Resizable {
		opts = append(opts, app.MaxSize(unit.Dp(attrs.InnerSize.Width), unit.Dp(attrs.InnerSize.Height)))
	}
	w.Option(opts...)

	return &Window{
		id:            id,
		w:             w,
		size:          image.Pt(int(attrs.InnerSize.Width), int(attrs.InnerSize.Height)),
		scale:         1,
		cursorVisible: true,
	}
}

// ID implements window.NativeWindow.
func (w *Window) ID() window.WindowID { return w.id }

// RequestRedraw schedules another frame.
func (w *Window) RequestRedraw() {
	if !w.closed {
		w.w.Invalidate()
	}
}

// SetCursorVisible takes effect with the next frame.
func (w *Window) SetCursorVisible(visible bool) {
	w.cursorVisible = visible
}

// InnerSize returns the size of the last frame in pixels.
func (w *Window) InnerSize() window.PhysicalSize {
	return window.PhysicalSize{Width: uint32(w.size.X), Height: uint32(w.size.Y)}
}

// ScaleFactor returns pixels per Dp.
func (w *Window) ScaleFactor() float64 { return float64(w.scale) }

// RequestInnerSize implements window.SizeWriter.
func (w *Window) RequestInnerSize(size window.PhysicalSize) error {
	if w.closed {
		return ErrWindowClosed
	}
	w.w.Option(app.Size(
		unit.Dp(float32(size.Width)/w.scale),
		unit.Dp(float32(size.Height)/w.scale),
	))
	return nil
}

// SetLayout sets the function that paints each frame. It is called on
// the event loop goroutine after the handler's Redraw.
func (w *Window) SetLayout(fn func(gtx layout.Context) layout.Dimensions) {
	w.layout = fn
}

var (
	_ window.NativeWindow = (*Window)(nil)
	_ window.SizeWriter   = (*Window)(nil)
)
