package journal

import (
	"fmt"
	"log/slog"
	"time"

	"winrun/internal/logging"
	"winrun/internal/window"
)

// Replay is a window.EventLoop that plays a recorded run back into an
// application.
type Replay struct {
	entries  []Entry
	windows  []window.WindowID
	realtime bool
	log      *slog.Logger

	exiting bool
	created int
	win     *ReplayWindow
}

// ReplayOption configures a Replay.
type ReplayOption func(*Replay)

// WithRealtime sleeps between entries to reproduce the recorded timing.
func WithRealtime(enabled bool) ReplayOption {
	return func(r *Replay) { r.realtime = enabled }
}

// WithReplayLogger sets the replay logger.
func WithReplayLogger(l *slog.Logger) ReplayOption {
	return func(r *Replay) { r.log = l }
}

// NewReplay loads a run for replay.
func NewReplay(store *Store, runID int64, opts ...ReplayOption) (*Replay, error) {
	entries, err := store.Entries(runID)
	if err != nil {
		return nil, err
	}

	r := &Replay{entries: entries}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.Component("journal")
	}
	for _, e := range entries {
		if e.Kind == KindCreateWindow {
			r.windows = append(r.windows, window.WindowID(e.Target))
		}
	}
	return r, nil
}

// Window returns the replayed window, or nil before it is created.
func (r *Replay) Window() *ReplayWindow { return r.win }

// CreateWindow returns a window with the next recorded window id.
func (r *Replay) CreateWindow(attrs window.Attributes) (window.NativeWindow, error) {
	if r.created >= len(r.windows) {
		return nil, fmt.Errorf("replay: run recorded %d window creations", len(r.windows))
	}
	r.win = &ReplayWindow{
		id:            r.windows[r.created],
		size:          attrs.InnerSize,
		cursorVisible: true,
		log:           r.log,
	}
	r.created++
	return r.win, nil
}

// Exit stops the replay after the current entry.
func (r *Replay) Exit() { r.exiting = true }

// Run implements window.EventLoop.
func (r *Replay) Run(app window.Application) error {
	defer app.Exiting(r)

	var last time.Duration
	for i := range r.entries {
		if r.exiting {
			return nil
		}
		e := &r.entries[i]

		if r.realtime && e.Offset > last {
			time.Sleep(e.Offset - last)
		}
		last = e.Offset

		switch e.Kind {
		case KindResumed:
			app.Resumed(r)
		case KindSuspended:
			app.Suspended(r)
		case KindWindowEvent:
			ev, err := DecodeWindowEvent(e.Name, e.Payload, r.sizeWriter())
			if err != nil {
				return fmt.Errorf("replay seq %d: %w", e.Seq, err)
			}
			if rs, ok := ev.(window.Resized); ok && r.win != nil {
				r.win.size = rs.Size
			}
			app.WindowEvent(r, window.WindowID(e.Target), ev)
		case KindDeviceEvent:
			ev, err := DecodeDeviceEvent(e.Name, e.Payload)
			if err != nil {
				return fmt.Errorf("replay seq %d: %w", e.Seq, err)
			}
			app.DeviceEvent(r, window.DeviceID(e.Target), ev)
		case KindCreateWindow, KindExiting:
			// Window creation is driven by the application; Exiting is
			// sent by the deferred call.
		}
	}
	return nil
}

func (r *Replay) sizeWriter() window.SizeWriter {
	if r.win == nil {
		return discardSizeWriter{r.log}
	}
	return r.win
}

// ReplayWindow stands in for the recorded window.
type ReplayWindow struct {
	id            window.WindowID
	size          window.PhysicalSize
	cursorVisible bool
	log           *slog.Logger

	Redraws       int
	CursorChanges int
	SizeRequests  []window.PhysicalSize
}

func (w *ReplayWindow) ID() window.WindowID { return w.id }

func (w *ReplayWindow) RequestRedraw() { w.Redraws++ }

func (w *ReplayWindow) SetCursorVisible(visible bool) {
	w.cursorVisible = visible
	w.CursorChanges++
}

// CursorVisible reports the last visibility the application applied.
func (w *ReplayWindow) CursorVisible() bool { return w.cursorVisible }

func (w *ReplayWindow) InnerSize() window.PhysicalSize { return w.size }

func (w *ReplayWindow) ScaleFactor() float64 { return 1 }

// RequestInnerSize records the request and accepts it.
func (w *ReplayWindow) RequestInnerSize(size window.PhysicalSize) error {
	w.log.Debug("replay size request", "size", size)
	w.SizeRequests = append(w.SizeRequests, size)
	return nil
}

type discardSizeWriter struct{ log *slog.Logger }

func (d discardSizeWriter) RequestInnerSize(size window.PhysicalSize) error {
	d.log.Debug("size request before window creation", "size", size)
	return nil
}

var (
	_ window.EventLoop    = (*Replay)(nil)
	_ window.ActiveLoop   = (*Replay)(nil)
	_ window.NativeWindow = (*ReplayWindow)(nil)
)
