// Package gioloop runs a window.Application on a Gio window.
//
// Gio needs the main goroutine on most platforms: call Run from another
// goroutine and park the main goroutine in app.Main.
package gioloop

import (
	"fmt"
	"image"
	"log/slog"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/op/clip"

	"winrun/internal/logging"
	"winrun/internal/window"
)

// Loop is a window.EventLoop backed by a single Gio window.
type Loop struct {
	log *slog.Logger

	win      *Window
	app      window.Application
	exiting  bool
	sawFrame bool
	focused  bool
	pointer  pointerState
	ops      op.Ops
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.log = l }
}

// New returns a Gio event loop, or ErrNoDisplay.
func New(opts ...Option) (*Loop, error) {
	if !displayAvailable() {
		return nil, ErrNoDisplay
	}

	l := &Loop{}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logging.Component("gioloop")
	}
	return l, nil
}

// CreateWindow implements window.ActiveLoop. Only one window is supported.
func (l *Loop) CreateWindow(attrs window.Attributes) (window.NativeWindow, error) {
	if l.win != nil {
		return nil, fmt.Errorf("gioloop: window already created")
	}
	l.win = newWindow(1, attrs)
	l.log.Debug("window options applied", "title", attrs.Title, "size", attrs.InnerSize)
	return l.win, nil
}

// Exit closes the window. Events are still drained until Gio reports the
// window destroyed, but none reach the application.
func (l *Loop) Exit() {
	if l.exiting {
		return
	}
	l.exiting = true
	if l.win != nil && !l.win.closed {
		l.win.w.Perform(system.ActionClose)
	}
}

// Run implements window.EventLoop.
func (l *Loop) Run(application window.Application) error {
	l.app = application
	defer application.Exiting(l)

	application.Resumed(l)
	if l.win == nil {
		return nil
	}

	for {
		done, err := l.handle(l.win.w.Event())
		if done {
			return err
		}
	}
}

func (l *Loop) handle(e event.Event) (bool, error) {
	switch e := e.(type) {
	case app.DestroyEvent:
		l.win.closed = true
		if l.exiting {
			return true, nil
		}
		if e.Err != nil {
			if !l.sawFrame {
				return true, fmt.Errorf("open window: %w", e.Err)
			}
			l.log.Error("window destroyed", "error", e.Err)
		}
		l.dispatch(window.CloseRequested{})
		return true, e.Err

	case app.ConfigEvent:
		if l.exiting {
			return false, nil
		}
		if e.Config.Focused != l.focused {
			l.focused = e.Config.Focused
			l.dispatch(window.Focused{Focused: l.focused})
		}
		l.resize(e.Config.Size)

	case app.FrameEvent:
		l.frame(e)
	}
	return false, nil
}

func (l *Loop) frame(e app.FrameEvent) {
	l.sawFrame = true
	gtx := app.NewContext(&l.ops, e)
	if l.exiting {
		e.Frame(gtx.Ops)
		return
	}

	if scale := e.Metric.PxPerDp; scale != l.win.scale && scale > 0 {
		l.win.scale = scale
		l.dispatch(window.ScaleFactorChanged{ScaleFactor: float64(scale), Writer: l.win})
	}
	l.resize(e.Size)

	for !l.exiting {
		ev, ok := gtx.Event(
			key.Filter{},
			pointer.Filter{
				Target:  l.win,
				Kinds:   pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Enter | pointer.Leave | pointer.Scroll | pointer.Cancel,
				ScrollX: pointer.ScrollRange{Min: -1 << 20, Max: 1 << 20},
				ScrollY: pointer.ScrollRange{Min: -1 << 20, Max: 1 << 20},
			},
		)
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case key.Event:
			l.dispatch(keyboardInput(ev))
		case pointer.Event:
			out := l.pointer.translate(ev)
			for _, we := range out.events {
				l.dispatch(we)
			}
			if out.motion != nil && !l.exiting {
				l.app.DeviceEvent(l, 0, *out.motion)
			}
		}
	}

	if !l.exiting {
		l.dispatch(window.RedrawRequested{})
	}

	area := clip.Rect(image.Rectangle{Max: e.Size}).Push(gtx.Ops)
	event.Op(gtx.Ops, l.win)
	if !l.win.cursorVisible {
		pointer.CursorNone.Add(gtx.Ops)
	}
	if l.win.layout != nil && !l.exiting {
		l.win.layout(gtx)
	}
	area.Pop()
	e.Frame(gtx.Ops)
}

func (l *Loop) resize(size image.Point) {
	if size == l.win.size || size.X <= 0 || size.Y <= 0 {
		return
	}
	l.win.size = size
	l.dispatch(window.Resized{Size: l.win.InnerSize()})
}

func (l *Loop) dispatch(ev window.WindowEvent) {
	if l.exiting {
		return
	}
	l.app.WindowEvent(l, l.win.id, ev)
}

var (
	_ window.EventLoop  = (*Loop)(nil)
	_ window.ActiveLoop = (*Loop)(nil)
)
