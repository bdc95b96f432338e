// Package termloop runs a window.Application in a terminal using tcell.
// The terminal screen plays the part of the window: sizes are in cells,
// focus comes from terminal focus reporting and Ctrl-C or SIGTERM request
// a close.
package termloop

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"winrun/internal/logging"
	"winrun/internal/window"
)

// DefaultFrameInterval paces redraw ticks at about 60 per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop is a window.EventLoop on a tcell screen.
type Loop struct {
	log           *slog.Logger
	screen        tcell.Screen
	frameInterval time.Duration
	assumeFocus   bool
	signals       bool

	app     window.Application
	win     *Window
	mouse   mouseState
	exiting bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithScreen uses s instead of the terminal, e.g. a tcell simulation
// screen.
func WithScreen(s tcell.Screen) Option {
	return func(l *Loop) { l.screen = s }
}

// WithFrameInterval sets the redraw tick interval.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithLogger sets the loop's logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// WithAssumeFocus controls whether the window reports focus right after
// creation. Terminals only report focus changes, so without it raw
// motion stays gated until the user refocuses the terminal.
func WithAssumeFocus(assume bool) Option {
	return func(l *Loop) { l.assumeFocus = assume }
}

// WithSignals controls whether SIGINT and SIGTERM request a close.
func WithSignals(enabled bool) Option {
	return func(l *Loop) { l.signals = enabled }
}

// New returns a terminal loop. The screen is initialised when the
// window is created.
func New(opts ...Option) (*Loop, error) {
	l := &Loop{
		frameInterval: DefaultFrameInterval,
		assumeFocus:   true,
		signals:       true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logging.Component("termloop")
	}
	if l.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		l.screen = s
	}
	return l, nil
}

// CreateWindow initialises the screen.
func (l *Loop) CreateWindow(attrs window.Attributes) (window.NativeWindow, error) {
	if l.win != nil {
		return nil, fmt.Errorf("termloop: window already created")
	}
	if err := l.screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	l.screen.EnableMouse(tcell.MouseMotionEvents)
	l.screen.EnableFocus()
	l.screen.SetTitle(attrs.Title)
	l.screen.HideCursor()
	l.screen.Clear()

	width, height := l.screen.Size()
	if minSize := attrs.MinInnerSize; uint32(width) < minSize.Width || uint32(height) < minSize.Height {
		l.log.Debug("terminal smaller than minimum size", "cols", width, "rows", height, "min", minSize)
	}

	l.win = &Window{
		id:            1,
		screen:        l.screen,
		width:         width,
		height:        height,
		redrawPending: true,
		cursorVisible: true,
	}
	return l.win, nil
}

// Exit stops the loop after the current event.
func (l *Loop) Exit() { l.exiting = true }

// Run implements window.EventLoop.
func (l *Loop) Run(application window.Application) error {
	l.app = application
	defer application.Exiting(l)

	application.Resumed(l)
	if l.win == nil || l.exiting {
		if l.win != nil {
			l.screen.Fini()
		}
		return nil
	}
	defer l.screen.Fini()

	if l.assumeFocus {
		l.dispatch(window.Focused{Focused: true})
	}

	quit := make(chan struct{})
	defer close(quit)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	var sig chan os.Signal
	if l.signals {
		sig = make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
	}

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for !l.exiting {
		select {
		case ev := <-events:
			l.handle(ev)
		case s := <-sig:
			l.log.Info("signal received", "signal", s)
			l.dispatch(window.CloseRequested{})
		case <-ticker.C:
			if l.win.redrawPending {
				l.win.redrawPending = false
				l.dispatch(window.RedrawRequested{})
				if !l.exiting {
					l.screen.Show()
				}
			}
		}
	}
	return nil
}

func (l *Loop) handle(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		width, height := e.Size()
		if width == l.win.width && height == l.win.height {
			return
		}
		l.win.width, l.win.height = width, height
		l.screen.Sync()
		l.dispatch(window.Resized{Size: l.win.InnerSize()})

	case *tcell.EventFocus:
		l.dispatch(window.Focused{Focused: e.Focused})

	case *tcell.EventKey:
		if isInterrupt(e) {
			l.dispatch(window.CloseRequested{})
			return
		}
		key := physicalKey(e)
		l.dispatch(window.KeyboardInput{State: window.Pressed, Key: key})
		l.dispatch(window.KeyboardInput{State: window.Released, Key: key, Synthetic: true})

	case *tcell.EventMouse:
		out := l.mouse.translate(e)
		l.win.moveCursor(l.mouse.x, l.mouse.y)
		for _, we := range out.events {
			l.dispatch(we)
		}
		if out.motion != nil && !l.exiting {
			l.app.DeviceEvent(l, 0, *out.motion)
		}
	}
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
