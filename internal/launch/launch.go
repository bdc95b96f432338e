// Package launch picks an event loop backend and runs a handler on it.
package launch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gioui.org/app"

	"winrun/internal/journal"
	"winrun/internal/logging"
	"winrun/internal/metrics"
	"winrun/internal/platform/gioloop"
	"winrun/internal/platform/termloop"
	"winrun/internal/window"
)

// Backend names an event loop implementation.
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendGio      Backend = "gio"
	BackendTerminal Backend = "terminal"
	BackendReplay   Backend = "replay"
)

// ErrNoBackend is returned when auto selection finds neither a display
// nor a terminal.
var ErrNoBackend = errors.New("launch: no display and no terminal available")

// ParseBackend parses a backend name. The empty string means auto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendGio, BackendTerminal, BackendReplay:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q", s)
	}
}

// Options configure Run.
type Options struct {
	Backend       Backend
	FrameInterval time.Duration // terminal backend only

	// JournalPath, when set, records the run into that SQLite journal.
	// With BackendReplay it is the journal to replay from.
	JournalPath string
	// ReplayRun is the run to replay; zero selects the latest.
	ReplayRun int64
	// ReplayRealtime reproduces recorded timing during replay.
	ReplayRealtime bool

	Logger  *slog.Logger
	Metrics *metrics.SessionMetrics

	// OnLoop is called with the event loop once it is built.
	OnLoop func(window.EventLoop)
}

// Resolve turns BackendAuto into a concrete backend.
func Resolve(b Backend) (Backend, error) {
	if b != BackendAuto && b != "" {
		return b, nil
	}
	if _, err := gioloop.New(); err == nil {
		return BackendGio, nil
	}
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return BackendTerminal, nil
	}
	return "", ErrNoBackend
}

// Run is the application entry point: it builds the event loop and runs
// h until the window closes. Loop construction failures are returned as
// a *window.RunError with Op "create event loop".
func Run(h window.Handler, title string, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logging.Component("launch")
	}

	loop, cleanup, err := NewLoop(title, opts)
	if err != nil {
		return &window.RunError{Op: "create event loop", Err: err}
	}
	defer cleanup()

	if opts.OnLoop != nil {
		opts.OnLoop(loop)
	}

	sessionOpts := []window.Option{window.WithLogger(opts.Logger), window.WithMetrics(opts.Metrics)}
	err = window.Run(loop, h, title, sessionOpts...)

	if rec, ok := loop.(*journal.Recorder); ok {
		if jerr := rec.Err(); jerr != nil {
			log.Warn("journal incomplete", "run_id", rec.RunID(), "error", jerr)
		} else {
			log.Info("journal recorded", "run_id", rec.RunID(), "path", opts.JournalPath)
		}
	}
	return err
}

// NewLoop builds the event loop Run would use. The returned cleanup
// closes the journal, if any.
func NewLoop(title string, opts Options) (window.EventLoop, func(), error) {
	noop := func() {}

	backend, err := Resolve(opts.Backend)
	if err != nil {
		return nil, noop, err
	}

	if backend == BackendReplay {
		return newReplay(opts)
	}

	var loop window.EventLoop
	switch backend {
	case BackendGio:
		loop, err = gioloop.New(gioloop.WithLogger(opts.Logger))
	case BackendTerminal:
		loop, err = termloop.New(
			termloop.WithFrameInterval(opts.FrameInterval),
			termloop.WithLogger(opts.Logger),
		)
	default:
		err = fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, noop, err
	}

	if opts.JournalPath == "" {
		return loop, noop, nil
	}
	store, err := journal.Open(opts.JournalPath)
	if err != nil {
		return nil, noop, err
	}
	return journal.Record(loop, store, title), func() { store.Close() }, nil
}

func newReplay(opts Options) (window.EventLoop, func(), error) {
	noop := func() {}
	if opts.JournalPath == "" {
		return nil, noop, errors.New("replay needs a journal path")
	}

	store, err := journal.Open(opts.JournalPath)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() { store.Close() }

	runID := opts.ReplayRun
	if runID == 0 {
		if runID, err = store.LatestRun(); err != nil {
			cleanup()
			return nil, noop, err
		}
	}
	if err := store.Verify(runID); err != nil {
		cleanup()
		return nil, noop, err
	}

	replay, err := journal.NewReplay(store, runID,
		journal.WithRealtime(opts.ReplayRealtime),
		journal.WithReplayLogger(opts.Logger),
	)
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return replay, cleanup, nil
}

// Main runs fn and exits the process with its return code. With the Gio
// backend fn runs on a new goroutine while the main goroutine serves the
// platform in app.Main.
func Main(backend Backend, fn func() int) {
	if backend != BackendGio {
		os.Exit(fn())
	}

	go func() {
		os.Exit(fn())
	}()
	app.Main()
}
