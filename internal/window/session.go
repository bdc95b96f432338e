package window

import (
	"log/slog"
	"time"

	"winrun/internal/logging"
	"winrun/internal/metrics"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateUninitialized means no native window exists yet.
	StateUninitialized State = iota
	// StateActive means the native window exists and events are dispatched.
	StateActive
	// StateExited means the run loop was asked to stop. Nothing is
	// dispatched any more.
	StateExited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Session translates raw platform events into Handler callbacks for a
// single window. It implements Application and must only be driven from
// the event loop goroutine.
type Session struct {
	handler Handler
	attrs   Attributes

	window          NativeWindow
	isFocused       bool
	cursorIsVisible bool
	state           State
	exitReason      string
	err             error

	log     *slog.Logger
	metrics *metrics.SessionMetrics
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics the session reports to.
func WithMetrics(m *metrics.SessionMetrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewSession asks the handler for its sizes and returns a session that
// will create a window with them on the first Resumed.
func NewSession(h Handler, title string, opts ...Option) *Session {
	minW, minH := h.MinSize()
	startW, startH := h.StartSize()

	s := &Session{
		handler: h,
		attrs: Attributes{
			Title:        title,
			Resizable:    true,
			InnerSize:    PhysicalSize{Width: uint32(startW), Height: uint32(startH)},
			MinInnerSize: PhysicalSize{Width: uint32(minW), Height: uint32(minH)},
		},
		cursorIsVisible: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Component("window")
	}
	if s.metrics == nil {
		s.metrics = metrics.NewSessionMetrics(nil)
	}
	return s
}

// Attributes returns the attributes the window is created with.
func (s *Session) Attributes() Attributes { return s.attrs }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Focused reports whether the window has keyboard focus.
func (s *Session) Focused() bool { return s.isFocused }

// CursorVisible reports the cursor visibility last applied to the platform.
func (s *Session) CursorVisible() bool { return s.cursorIsVisible }

// Window returns the native window, or nil before creation and after exit.
func (s *Session) Window() NativeWindow { return s.window }

// Err returns the window creation error, if any.
func (s *Session) Err() error { return s.err }

// ExitReason describes why the session exited, or "" while running.
func (s *Session) ExitReason() string { return s.exitReason }

// Resumed creates the window the first time it is called.
func (s *Session) Resumed(loop ActiveLoop) {
	if s.window != nil || s.state == StateExited {
		s.log.Debug("resumed with existing window", "state", s.state)
		return
	}

	s.log.Info("creating new window",
		"title", s.attrs.Title,
		"size", s.attrs.InnerSize,
		"min_size", s.attrs.MinInnerSize,
	)

	w, err := loop.CreateWindow(s.attrs)
	if err != nil {
		s.err = err
		s.log.Error("window creation failed", "error", err)
		s.exit(loop, "window creation failed")
		return
	}

	s.window = w
	s.state = StateActive
	s.metrics.WindowsCreated.Inc()
	s.log.Info("created the window", "id", w.ID())

	s.handler.WindowCreated(w)
}

// Suspended is logged only. The window is kept.
func (s *Session) Suspended(ActiveLoop) {
	s.log.Debug("suspended")
}

// WindowEvent dispatches one window event.
func (s *Session) WindowEvent(loop ActiveLoop, id WindowID, ev WindowEvent) {
	name := EventName(ev)
	s.metrics.RecordEvent(name)

	if s.state != StateActive || s.window == nil || id != s.window.ID() {
		s.metrics.EventsDiscarded.Inc()
		s.log.Debug("discarding window event", "event", name, "id", id, "state", s.state)
		return
	}

	switch e := ev.(type) {
	case CloseRequested:
		s.exit(loop, "close requested")

	case Resized:
		s.handler.Resized(e.Size)
		s.window.RequestRedraw()

	case RedrawRequested:
		s.redrawTick(loop)

	case Focused:
		s.isFocused = e.Focused
		s.metrics.Focused.SetBool(e.Focused)
		if e.Focused {
			s.handler.GotFocus()
		} else {
			s.handler.LostFocus()
		}

	case KeyboardInput:
		s.handler.KeyboardInput(e.State, e.Key)

	case CursorMoved:
		if !s.cursorIsVisible {
			s.metrics.CursorMovedSuppressed.Inc()
			return
		}
		s.handler.CursorMoved(e.Position)

	case CursorEntered:
		s.handler.CursorEntered()

	case CursorLeft:
		s.handler.CursorLeft()

	case MouseWheel:
		s.handler.MouseWheel(e.Delta, e.Phase)

	case MouseInput:
		s.handler.MouseInput(e.State, e.Button)

	case TouchInput:
		s.handler.Touch(e.Touch)

	case ScaleFactorChanged:
		s.handler.ScaleFactorChanged(e.ScaleFactor, e.Writer)
	}
}

// redrawTick re-requests a redraw, reconciles the cursor and calls Redraw,
// in that order.
func (s *Session) redrawTick(loop ActiveLoop) {
	s.window.RequestRedraw()

	if visible := s.handler.CursorShouldBeVisible(); visible != s.cursorIsVisible {
		s.window.SetCursorVisible(visible)
		s.cursorIsVisible = visible
		s.metrics.SetCursorVisible(visible)
		s.log.Debug("cursor visibility changed", "visible", visible)
	}

	start := time.Now()
	keepGoing := s.handler.Redraw()
	s.metrics.RecordRedraw(time.Since(start))

	if !keepGoing {
		s.exit(loop, "redraw returned false")
	}
}

// DeviceEvent dispatches raw device input. Motion is forwarded only while
// the window has focus.
func (s *Session) DeviceEvent(_ ActiveLoop, dev DeviceID, ev DeviceEvent) {
	name := EventName(ev)
	s.metrics.RecordEvent(name)

	if s.state != StateActive || s.window == nil {
		s.metrics.EventsDiscarded.Inc()
		return
	}

	if e, ok := ev.(MouseMotion); ok {
		if !s.isFocused {
			s.metrics.MotionSuppressed.Inc()
			return
		}
		s.handler.MouseMotion(e.DX, e.DY)
	}
}

// Exiting releases the window. It is the last call the session receives.
func (s *Session) Exiting(ActiveLoop) {
	if s.state != StateExited {
		s.state = StateExited
		if s.exitReason == "" {
			s.exitReason = "event loop exited"
		}
		s.log.Info("event loop exiting", "reason", s.exitReason)
	}
	s.window = nil
}

func (s *Session) exit(loop ActiveLoop, reason string) {
	s.state = StateExited
	s.exitReason = reason
	s.log.Info("exiting", "reason", reason)
	loop.Exit()
}

var _ Application = (*Session)(nil)
