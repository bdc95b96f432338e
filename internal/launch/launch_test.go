package launch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winrun/internal/journal"
	"winrun/internal/window"
)

type stubWindow struct{}

func (stubWindow) ID() window.WindowID            { return 3 }
func (stubWindow) RequestRedraw()                 {}
func (stubWindow) SetCursorVisible(bool)          {}
func (stubWindow) InnerSize() window.PhysicalSize { return window.PhysicalSize{Width: 640, Height: 480} }
func (stubWindow) ScaleFactor() float64           { return 1 }

type stubLoop struct {
	events  []window.WindowEvent
	exiting bool
}

func (l *stubLoop) CreateWindow(window.Attributes) (window.NativeWindow, error) {
	return stubWindow{}, nil
}

func (l *stubLoop) Exit() { l.exiting = true }

func (l *stubLoop) Run(app window.Application) error {
	defer app.Exiting(l)
	app.Resumed(l)
	for _, ev := range l.events {
		if l.exiting {
			return nil
		}
		app.WindowEvent(l, 3, ev)
	}
	return nil
}

// quitOnQ counts redraws and quits on the Q key.
type quitOnQ struct {
	window.NopHandler
	redraws int
	keys    []string
	quit    bool
}

func (h *quitOnQ) Redraw() bool {
	h.redraws++
	return !h.quit
}

func (h *quitOnQ) KeyboardInput(state window.ElementState, key window.PhysicalKey) {
	h.keys = append(h.keys, state.String()+" "+key.String())
	if state == window.Pressed && key == window.Code(window.KeyQ) {
		h.quit = true
	}
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{
		"":          BackendAuto,
		"auto":      BackendAuto,
		"GIO":       BackendGio,
		" terminal": BackendTerminal,
		"replay":    BackendReplay,
	} {
		got, err := ParseBackend(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBackend("wayland")
	assert.Error(t, err)
}

func TestResolveKeepsExplicitBackend(t *testing.T) {
	for _, b := range []Backend{BackendGio, BackendTerminal, BackendReplay} {
		got, err := Resolve(b)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
}

func TestReplayWithoutJournalIsLoopError(t *testing.T) {
	err := Run(&quitOnQ{}, "test", Options{Backend: BackendReplay})

	var runErr *window.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "create event loop", runErr.Op)
}

func TestReplayUnknownRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = Run(&quitOnQ{}, "test", Options{Backend: BackendReplay, JournalPath: path})
	assert.ErrorIs(t, err, journal.ErrRunNotFound)
	assert.True(t, window.IsRunError(err))
}

func TestReplayLatestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	require.NoError(t, err)

	q := window.Code(window.KeyQ)
	loop := &stubLoop{events: []window.WindowEvent{
		window.RedrawRequested{},
		window.KeyboardInput{State: window.Pressed, Key: window.Code(window.KeyA)},
		window.RedrawRequested{},
		window.KeyboardInput{State: window.Pressed, Key: q},
		window.RedrawRequested{},
		window.RedrawRequested{},
	}}
	recorded := &quitOnQ{}
	rec := journal.Record(loop, store, "test")
	require.NoError(t, window.Run(rec, recorded, "test"))
	require.NoError(t, rec.Err())
	require.NoError(t, store.Close())

	replayed := &quitOnQ{}
	var built window.EventLoop
	err = Run(replayed, "test", Options{
		Backend:     BackendReplay,
		JournalPath: path,
		OnLoop:      func(l window.EventLoop) { built = l },
	})
	require.NoError(t, err)

	assert.IsType(t, &journal.Replay{}, built)
	assert.Equal(t, recorded.keys, replayed.keys)
	assert.Equal(t, recorded.redraws, replayed.redraws)
	assert.Equal(t, 3, replayed.redraws)
}
