// Package metrics counts what the window session does and exposes it in
// the Prometheus text format or as JSON.
//
// Counters and gauges are lock-free. Histograms take a mutex per
// observation, which is fine at frame rate.
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Labels are constant label pairs attached to one series.
type Labels map[string]string

// String renders labels as {k="v",...} with keys sorted, or "" when empty.
func (l Labels) String() string {
	if len(l) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range sortedKeys(l) {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", k, l[k])
	}
	b.WriteByte('}')
	return b.String()
}

func (l Labels) plus(key, value string) Labels {
	out := make(Labels, len(l)+1)
	for k, v := range l {
		out[k] = v
	}
	out[key] = value
	return out
}

// series is the identity shared by every metric kind.
type series struct {
	name   string
	help   string
	labels Labels
}

func (s series) id() string { return s.name + s.labels.String() }

// Counter only goes up.
type Counter struct {
	series
	n atomic.Uint64
}

// NewCounter returns an unregistered counter.
func NewCounter(name, help string, labels Labels) *Counter {
	return &Counter{series: series{name, help, labels}}
}

func (c *Counter) Inc()          { c.n.Add(1) }
func (c *Counter) Add(v uint64)  { c.n.Add(v) }
func (c *Counter) Value() uint64 { return c.n.Load() }

// Gauge holds the latest value of something that can go down.
type Gauge struct {
	series
	v atomic.Int64
}

// NewGauge returns an unregistered gauge.
func NewGauge(name, help string, labels Labels) *Gauge {
	return &Gauge{series: series{name, help, labels}}
}

func (g *Gauge) Set(v int64)  { g.v.Store(v) }
func (g *Gauge) Value() int64 { return g.v.Load() }

// SetBool stores 1 for true and 0 for false.
func (g *Gauge) SetBool(b bool) {
	var v int64
	if b {
		v = 1
	}
	g.v.Store(v)
}

// FrameBuckets are upper bounds in seconds for per-frame callback time,
// spaced around the common 60Hz and 30Hz frame budgets.
var FrameBuckets = []float64{
	0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25, 1,
}

// Histogram buckets observations by upper bound.
type Histogram struct {
	series
	bounds []float64

	mu    sync.Mutex
	hits  []uint64 // per bound, then +Inf
	sum   float64
	count uint64
}

// NewHistogram returns an unregistered histogram. Bounds are sorted; nil
// means FrameBuckets.
func NewHistogram(name, help string, labels Labels, bounds []float64) *Histogram {
	if bounds == nil {
		bounds = FrameBuckets
	}
	bounds = slices.Clone(bounds)
	slices.Sort(bounds)

	return &Histogram{
		series: series{name, help, labels},
		bounds: bounds,
		hits:   make([]uint64, len(bounds)+1),
	}
}

// Observe adds one sample.
func (h *Histogram) Observe(v float64) {
	i, _ := slices.BinarySearch(h.bounds, v)

	h.mu.Lock()
	h.hits[i]++
	h.sum += v
	h.count++
	h.mu.Unlock()
}

// ObserveDuration adds d in seconds.
func (h *Histogram) ObserveDuration(d time.Duration) { h.Observe(d.Seconds()) }

// Count is the number of samples.
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Sum is the total of all samples.
func (h *Histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// cumulative returns running totals over h.hits. Callers must hold h.mu.
func (h *Histogram) cumulative() []uint64 {
	out := make([]uint64, len(h.hits))
	var total uint64
	for i, n := range h.hits {
		total += n
		out[i] = total
	}
	return out
}

// Registry owns a set of named series. Registering the same name and
// labels twice returns the first metric.
type Registry struct {
	prefix string

	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

// NewRegistry returns an empty registry. Non-empty namespace and
// subsystem are prepended to every name, joined by underscores.
func NewRegistry(namespace, subsystem string) *Registry {
	var parts []string
	for _, p := range []string{namespace, subsystem} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	prefix := strings.Join(parts, "_")
	if prefix != "" {
		prefix += "_"
	}

	return &Registry{
		prefix:     prefix,
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

func register[M any](r *Registry, m map[string]*M, s series, build func(series) *M) *M {
	s.name = r.prefix + s.name
	id := s.id()

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := m[id]; ok {
		return existing
	}
	created := build(s)
	m[id] = created
	return created
}

// RegisterCounter returns the counter for name and labels, creating it
// on first use.
func (r *Registry) RegisterCounter(name, help string, labels Labels) *Counter {
	return register(r, r.counters, series{name, help, labels}, func(s series) *Counter {
		return &Counter{series: s}
	})
}

// RegisterGauge returns the gauge for name and labels.
func (r *Registry) RegisterGauge(name, help string, labels Labels) *Gauge {
	return register(r, r.gauges, series{name, help, labels}, func(s series) *Gauge {
		return &Gauge{series: s}
	})
}

// RegisterHistogram returns the histogram for name and labels. Bounds
// only apply when the histogram is created.
func (r *Registry) RegisterHistogram(name, help string, labels Labels, bounds []float64) *Histogram {
	return register(r, r.histograms, series{name, help, labels}, func(s series) *Histogram {
		return NewHistogram(s.name, s.help, s.labels, bounds)
	})
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WritePrometheus writes every series in text exposition format 0.0.4.
// HELP and TYPE lines are written once per name.
func (r *Registry) WritePrometheus(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ew := &errWriter{w: w}
	described := make(map[string]bool)
	describe := func(s series, kind string) {
		if !described[s.name] {
			described[s.name] = true
			ew.printf("# HELP %s %s\n# TYPE %s %s\n", s.name, s.help, s.name, kind)
		}
	}

	for _, id := range sortedKeys(r.counters) {
		c := r.counters[id]
		describe(c.series, "counter")
		ew.printf("%s %d\n", id, c.Value())
	}
	for _, id := range sortedKeys(r.gauges) {
		g := r.gauges[id]
		describe(g.series, "gauge")
		ew.printf("%s %d\n", id, g.Value())
	}
	for _, id := range sortedKeys(r.histograms) {
		h := r.histograms[id]
		describe(h.series, "histogram")

		h.mu.Lock()
		cum := h.cumulative()
		for i, bound := range h.bounds {
			ew.printf("%s_bucket%s %d\n", h.name, h.labels.plus("le", fmt.Sprintf("%g", bound)), cum[i])
		}
		ew.printf("%s_bucket%s %d\n", h.name, h.labels.plus("le", "+Inf"), cum[len(cum)-1])
		ew.printf("%s_sum%s %g\n", h.name, h.labels, h.sum)
		ew.printf("%s_count%s %d\n", h.name, h.labels, h.count)
		h.mu.Unlock()
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, args...)
	}
}

// Snapshot maps each series id to its value. Histograms contribute
// their _sum and _count.
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.counters)+len(r.gauges)+2*len(r.histograms))
	for id, c := range r.counters {
		out[id] = c.Value()
	}
	for id, g := range r.gauges {
		out[id] = g.Value()
	}
	for _, h := range r.histograms {
		out[h.name+"_sum"+h.labels.String()] = h.Sum()
		out[h.name+"_count"+h.labels.String()] = h.Count()
	}
	return out
}

// HTTPHandler serves the registry. Clients that accept application/json
// get Snapshot; everyone else gets the text format.
func (r *Registry) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.Header.Get("Accept"), "application/json") {
			w.Header().Set("Content-Type", "application/json")
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			_ = enc.Encode(r.Snapshot())
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_ = r.WritePrometheus(w)
	})
}

var defaultRegistry = NewRegistry("winrun", "")

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }
