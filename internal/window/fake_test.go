package window

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"winrun/internal/metrics"
)

// calls is the ordered log of platform and handler calls shared by the
// fakes below.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeWindow struct {
	id  WindowID
	log *calls
}

func (w *fakeWindow) ID() WindowID                  { return w.id }
func (w *fakeWindow) RequestRedraw()                { w.log.add("platform:request_redraw") }
func (w *fakeWindow) SetCursorVisible(visible bool) { w.log.add("platform:set_cursor_visible(%t)", visible) }
func (w *fakeWindow) InnerSize() PhysicalSize       { return PhysicalSize{Width: 640, Height: 480} }
func (w *fakeWindow) ScaleFactor() float64          { return 1 }

// step is one scripted raw event. Exactly one field is set.
type step struct {
	resumed   bool
	suspended bool
	window    WindowEvent
	windowID  WindowID
	device    DeviceEvent
}

func resumed() step                          { return step{resumed: true} }
func win(ev WindowEvent) step                { return step{window: ev, windowID: 1} }
func winID(id WindowID, ev WindowEvent) step { return step{window: ev, windowID: id} }
func dev(ev DeviceEvent) step                { return step{device: ev} }

// fakeLoop plays a script into an Application, stopping once Exit is
// called, like a poll loop that drains after the current event.
type fakeLoop struct {
	script    []step
	log       *calls
	createErr error
	runErr    error

	created   []Attributes
	exited    bool
	delivered int
}

func newFakeLoop(log *calls, script ...step) *fakeLoop {
	return &fakeLoop{script: script, log: log}
}

func (l *fakeLoop) CreateWindow(attrs Attributes) (NativeWindow, error) {
	l.log.add("platform:create_window")
	if l.createErr != nil {
		return nil, l.createErr
	}
	l.created = append(l.created, attrs)
	return &fakeWindow{id: 1, log: l.log}, nil
}

func (l *fakeLoop) Exit() {
	l.log.add("platform:exit")
	l.exited = true
}

func (l *fakeLoop) Run(app Application) error {
	if l.runErr != nil {
		return l.runErr
	}
	for _, s := range l.script {
		if l.exited {
			break
		}
		l.delivered++
		switch {
		case s.resumed:
			app.Resumed(l)
		case s.suspended:
			app.Suspended(l)
		case s.window != nil:
			app.WindowEvent(l, s.windowID, s.window)
		case s.device != nil:
			app.DeviceEvent(l, 0, s.device)
		}
	}
	app.Exiting(l)
	return nil
}

// recordingHandler logs every callback into the shared call log.
type recordingHandler struct {
	log *calls

	minW, minH     uint16
	startW, startH uint16
	cursorVisible  bool
	redrawsLeft    int // Redraw returns false once this reaches zero; negative means forever
	onRedraw       func()
	window         NativeWindow
}

func newRecordingHandler(log *calls) *recordingHandler {
	return &recordingHandler{
		log:           log,
		minW:          640,
		minH:          480,
		startW:        640,
		startH:        480,
		cursorVisible: true,
		redrawsLeft:   -1,
	}
}

func (h *recordingHandler) MinSize() (uint16, uint16)   { return h.minW, h.minH }
func (h *recordingHandler) StartSize() (uint16, uint16) { return h.startW, h.startH }
func (h *recordingHandler) CursorShouldBeVisible() bool { return h.cursorVisible }

func (h *recordingHandler) Redraw() bool {
	h.log.add("handler:redraw")
	if h.onRedraw != nil {
		h.onRedraw()
	}
	if h.redrawsLeft < 0 {
		return true
	}
	if h.redrawsLeft == 0 {
		return false
	}
	h.redrawsLeft--
	return true
}

func (h *recordingHandler) GotFocus()  { h.log.add("handler:got_focus") }
func (h *recordingHandler) LostFocus() { h.log.add("handler:lost_focus") }

func (h *recordingHandler) WindowCreated(w NativeWindow) {
	h.window = w
	h.log.add("handler:window_created")
}

func (h *recordingHandler) Resized(size PhysicalSize) { h.log.add("handler:resized(%s)", size) }

func (h *recordingHandler) KeyboardInput(state ElementState, key PhysicalKey) {
	h.log.add("handler:keyboard_input(%s,%s)", state, key)
}

func (h *recordingHandler) CursorEntered() { h.log.add("handler:cursor_entered") }
func (h *recordingHandler) CursorLeft()    { h.log.add("handler:cursor_left") }

func (h *recordingHandler) CursorMoved(p PhysicalPosition) {
	h.log.add("handler:cursor_moved(%s)", p)
}

func (h *recordingHandler) MouseInput(state ElementState, button MouseButton) {
	h.log.add("handler:mouse_input(%s,%s)", state, button)
}

func (h *recordingHandler) MouseWheel(delta ScrollDelta, phase TouchPhase) {
	h.log.add("handler:mouse_wheel(%s,%s)", delta, phase)
}

func (h *recordingHandler) MouseMotion(dx, dy float64) {
	h.log.add("handler:mouse_motion(%g,%g)", dx, dy)
}

func (h *recordingHandler) Touch(t Touch) { h.log.add("handler:touch(%s)", t) }

func (h *recordingHandler) ScaleFactorChanged(f float64, w SizeWriter) {
	h.log.add("handler:scale_factor_changed(%g)", f)
	if w != nil {
		if err := w.RequestInnerSize(PhysicalSize{Width: 800, Height: 500}); err != nil {
			h.log.add("handler:request_inner_size_failed")
		}
	}
}

var _ Handler = (*recordingHandler)(nil)

type fakeSizeWriter struct {
	log *calls
	err error
}

func (w fakeSizeWriter) RequestInnerSize(size PhysicalSize) error {
	w.log.add("platform:request_inner_size(%s)", size)
	return w.err
}

var errNoWindow = errors.New("no window for you")

func quietOptions() []Option {
	return []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.NewSessionMetrics(metrics.NewRegistry("test", ""))),
	}
}

// handlerCalls filters the log down to handler callbacks.
func handlerCalls(log calls) []string {
	var out []string
	for _, c := range log {
		if len(c) > 8 && c[:8] == "handler:" {
			out = append(out, c)
		}
	}
	return out
}
