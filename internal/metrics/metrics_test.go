package metrics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCounter("events_total", "help", nil)
	c.Inc()
	c.Add(4)
	assert.EqualValues(t, 5, c.Value())
	assert.Equal(t, "events_total", c.name)
}

func TestGauge(t *testing.T) {
	g := NewGauge("focused", "help", nil)
	g.SetBool(true)
	assert.EqualValues(t, 1, g.Value())
	g.SetBool(false)
	assert.EqualValues(t, 0, g.Value())
	g.Set(7)
	assert.EqualValues(t, 7, g.Value())
}

func TestHistogramBuckets(t *testing.T) {
	h := NewHistogram("redraw", "help", nil, []float64{1, 0.1, 0.5})
	h.Observe(0.05)
	h.Observe(0.3)
	h.Observe(2)

	assert.EqualValues(t, 3, h.Count())
	assert.InDelta(t, 2.35, h.Sum(), 1e-9)

	h.mu.Lock()
	cum := h.cumulative()
	h.mu.Unlock()
	assert.Equal(t, []uint64{1, 2, 2, 3}, cum)
}

func TestHistogramDefaultsToFrameBuckets(t *testing.T) {
	h := NewHistogram("t", "help", nil, nil)
	h.ObserveDuration(10 * time.Millisecond)

	assert.Equal(t, FrameBuckets, h.bounds)
	assert.EqualValues(t, 1, h.Count())
}

func TestNamePrefix(t *testing.T) {
	assert.Equal(t, "a_b_x", NewRegistry("a", "b").RegisterGauge("x", "", nil).name)
	assert.Equal(t, "b_x", NewRegistry("", "b").RegisterGauge("x", "", nil).name)
	assert.Equal(t, "x", NewRegistry("", "").RegisterGauge("x", "", nil).name)
}

func TestRegistryDeduplicatesByLabels(t *testing.T) {
	r := NewRegistry("winrun", "")

	a := r.RegisterCounter("events_total", "help", Labels{"event": "resized"})
	b := r.RegisterCounter("events_total", "help", Labels{"event": "resized"})
	c := r.RegisterCounter("events_total", "help", Labels{"event": "focused"})

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "winrun_events_total", a.name)
}

func TestWritePrometheus(t *testing.T) {
	r := NewRegistry("winrun", "")
	r.RegisterCounter("events_total", "Raw platform events received", Labels{"event": "resized"}).Add(2)
	r.RegisterCounter("events_total", "Raw platform events received", Labels{"event": "focused"}).Inc()
	r.RegisterGauge("focused", "Focus", nil).Set(1)
	r.RegisterHistogram("redraw_duration_seconds", "Redraw", nil, []float64{0.01}).Observe(0.001)

	var buf bytes.Buffer
	require.NoError(t, r.WritePrometheus(&buf))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "# TYPE winrun_events_total counter"))
	assert.Contains(t, out, `winrun_events_total{event="resized"} 2`)
	assert.Contains(t, out, `winrun_events_total{event="focused"} 1`)
	assert.Contains(t, out, "winrun_focused 1")
	assert.Contains(t, out, `winrun_redraw_duration_seconds_bucket{le="0.01"} 1`)
	assert.Contains(t, out, `winrun_redraw_duration_seconds_bucket{le="+Inf"} 1`)
	assert.Contains(t, out, "winrun_redraw_duration_seconds_count 1")
}

func TestHTTPHandlerJSON(t *testing.T) {
	r := NewRegistry("winrun", "")
	r.RegisterCounter("windows_created_total", "help", nil).Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	r.HTTPHandler().ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.EqualValues(t, 1, snap["winrun_windows_created_total"])
}

func TestSessionMetrics(t *testing.T) {
	r := NewRegistry("winrun", "")
	m := NewSessionMetrics(r)

	assert.EqualValues(t, 1, m.CursorVisible.Value())

	m.RecordEvent("resized")
	m.RecordEvent("resized")
	m.RecordEvent("focused")
	m.RecordRedraw(2 * time.Millisecond)
	m.SetCursorVisible(false)

	snap := r.Snapshot()
	assert.EqualValues(t, 2, snap[`winrun_events_total{event="resized"}`])
	assert.EqualValues(t, 1, snap[`winrun_events_total{event="focused"}`])
	assert.EqualValues(t, 1, m.RedrawTicks.Value())
	assert.EqualValues(t, 1, m.RedrawDuration.Count())
	assert.EqualValues(t, 0, m.CursorVisible.Value())
	assert.EqualValues(t, 1, m.CursorVisibilityChange.Value())
}
