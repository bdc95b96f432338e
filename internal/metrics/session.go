package metrics

import "time"

// SessionMetrics holds the window session's metrics. Methods are called
// from the event loop goroutine only; reads through the registry are safe
// from any goroutine.
type SessionMetrics struct {
	registry *Registry

	events map[string]*Counter

	EventsDiscarded        *Counter
	RedrawTicks            *Counter
	CursorVisibilityChange *Counter
	CursorMovedSuppressed  *Counter
	MotionSuppressed       *Counter
	WindowsCreated         *Counter

	Focused       *Gauge
	CursorVisible *Gauge

	RedrawDuration *Histogram
}

// NewSessionMetrics registers the session metrics in registry, or in the
// default registry when nil.
func NewSessionMetrics(registry *Registry) *SessionMetrics {
	if registry == nil {
		registry = Default()
	}

	m := &SessionMetrics{
		registry: registry,
		events:   make(map[string]*Counter),

		EventsDiscarded: registry.RegisterCounter(
			"events_discarded_total",
			"Raw events dropped because no window exists, the window id did not match, or the loop already exited",
			nil,
		),
		RedrawTicks: registry.RegisterCounter(
			"redraw_ticks_total",
			"Redraw ticks processed",
			nil,
		),
		CursorVisibilityChange: registry.RegisterCounter(
			"cursor_visibility_changes_total",
			"Cursor visibility changes applied to the platform",
			nil,
		),
		CursorMovedSuppressed: registry.RegisterCounter(
			"cursor_moved_suppressed_total",
			"Cursor movements not forwarded because the cursor was hidden",
			nil,
		),
		MotionSuppressed: registry.RegisterCounter(
			"mouse_motion_suppressed_total",
			"Raw mouse motion not forwarded because the window was not focused",
			nil,
		),
		WindowsCreated: registry.RegisterCounter(
			"windows_created_total",
			"Native windows created",
			nil,
		),
		Focused: registry.RegisterGauge(
			"focused",
			"1 while the window has keyboard focus",
			nil,
		),
		CursorVisible: registry.RegisterGauge(
			"cursor_visible",
			"1 while the platform cursor is shown",
			nil,
		),
		RedrawDuration: registry.RegisterHistogram(
			"redraw_duration_seconds",
			"Time spent in the handler's redraw callback",
			nil,
			FrameBuckets,
		),
	}
	m.CursorVisible.Set(1)
	return m
}

// RecordEvent counts a raw event by name.
func (m *SessionMetrics) RecordEvent(name string) {
	c, ok := m.events[name]
	if !ok {
		c = m.registry.RegisterCounter("events_total", "Raw platform events received", Labels{"event": name})
		m.events[name] = c
	}
	c.Inc()
}

// RecordRedraw records one redraw tick and the time the handler spent in it.
func (m *SessionMetrics) RecordRedraw(d time.Duration) {
	m.RedrawTicks.Inc()
	m.RedrawDuration.ObserveDuration(d)
}

// SetCursorVisible records a cursor visibility change.
func (m *SessionMetrics) SetCursorVisible(visible bool) {
	m.CursorVisibilityChange.Inc()
	m.CursorVisible.SetBool(visible)
}
