package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"winrun/internal/logging"
	"winrun/internal/window"
)

// Recorder is a window.EventLoop that stores every call the wrapped loop
// makes into the application before forwarding it. Storage errors never
// change what the application sees; the first one is kept in Err.
type Recorder struct {
	loop  window.EventLoop
	store *Store
	name  string
	log   *slog.Logger

	app   window.Application
	runID int64
	start time.Time
	err   error
}

// Record wraps loop so that its events are stored under a new run named
// name.
func Record(loop window.EventLoop, store *Store, name string) *Recorder {
	return &Recorder{
		loop:  loop,
		store: store,
		name:  name,
		log:   logging.Component("journal"),
	}
}

// RunID returns the id of the run being recorded, or 0 before Run.
func (r *Recorder) RunID() int64 { return r.runID }

// Err returns the first storage error.
func (r *Recorder) Err() error { return r.err }

// Run implements window.EventLoop.
func (r *Recorder) Run(app window.Application) error {
	r.start = time.Now()
	id, err := r.store.BeginRun(r.name, r.start)
	if err != nil {
		return fmt.Errorf("begin journal run: %w", err)
	}
	r.runID = id
	r.app = app
	r.log.Info("recording run", "run_id", id, "name", r.name)

	runErr := r.loop.Run(recordingApp{r})

	if err := r.store.EndRun(id, time.Now()); err != nil {
		r.fail(err)
	}
	return runErr
}

func (r *Recorder) append(kind Kind, target uint64, name string, payload []byte) {
	e := &Entry{
		RunID:   r.runID,
		Offset:  time.Since(r.start),
		Kind:    kind,
		Target:  target,
		Name:    name,
		Payload: payload,
	}
	if err := r.store.Append(e); err != nil {
		r.fail(err)
	}
}

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
		r.log.Error("journal write failed, recording continues best effort", "error", err)
	}
}

// recordingApp sits between the wrapped loop and the application.
type recordingApp struct{ r *Recorder }

func (a recordingApp) Resumed(loop window.ActiveLoop) {
	a.r.append(KindResumed, 0, "", nil)
	a.r.app.Resumed(recordingLoop{loop, a.r})
}

func (a recordingApp) Suspended(loop window.ActiveLoop) {
	a.r.append(KindSuspended, 0, "", nil)
	a.r.app.Suspended(recordingLoop{loop, a.r})
}

func (a recordingApp) WindowEvent(loop window.ActiveLoop, id window.WindowID, ev window.WindowEvent) {
	name, payload, err := EncodeWindowEvent(ev)
	if err != nil {
		a.r.fail(err)
	} else {
		a.r.append(KindWindowEvent, uint64(id), name, payload)
	}
	a.r.app.WindowEvent(recordingLoop{loop, a.r}, id, ev)
}

func (a recordingApp) DeviceEvent(loop window.ActiveLoop, dev window.DeviceID, ev window.DeviceEvent) {
	name, payload, err := EncodeDeviceEvent(ev)
	if err != nil {
		a.r.fail(err)
	} else {
		a.r.append(KindDeviceEvent, uint64(dev), name, payload)
	}
	a.r.app.DeviceEvent(recordingLoop{loop, a.r}, dev, ev)
}

func (a recordingApp) Exiting(loop window.ActiveLoop) {
	a.r.append(KindExiting, 0, "", nil)
	a.r.app.Exiting(recordingLoop{loop, a.r})
}

// recordingLoop records the id of each created window so replays can
// hand out the same id.
type recordingLoop struct {
	window.ActiveLoop
	r *Recorder
}

func (l recordingLoop) CreateWindow(attrs window.Attributes) (window.NativeWindow, error) {
	w, err := l.ActiveLoop.CreateWindow(attrs)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(attrs)
	l.r.append(KindCreateWindow, uint64(w.ID()), "", payload)
	return w, nil
}
