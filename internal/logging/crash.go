package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// CrashReport describes a panic that escaped the run loop.
type CrashReport struct {
	Timestamp    time.Time      `json:"timestamp"`
	Version      string         `json:"version,omitempty"`
	GOOS         string         `json:"goos"`
	GOARCH       string         `json:"goarch"`
	NumGoroutine int            `json:"num_goroutine"`
	PanicValue   string         `json:"panic_value"`
	StackTrace   string         `json:"stack_trace"`
	Component    string         `json:"component,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
}

// CrashHandler writes crash reports for panics raised by application
// callbacks. It never swallows a panic: after the report is written the
// panic continues to unwind.
type CrashHandler struct {
	mu        sync.Mutex
	crashDir  string
	version   string
	component string
	onCrash   func(CrashReport)
}

// CrashHandlerConfig configures a CrashHandler. Version and Component
// are copied into every report. OnCrash runs after the report is on disk
// and before the panic resumes.
type CrashHandlerConfig struct {
	CrashDir  string
	Version   string
	Component string
	OnCrash   func(CrashReport)
}

// DefaultCrashDir is a "crashes" directory next to the default log file.
func DefaultCrashDir() string {
	return filepath.Join(filepath.Dir(DefaultLogPath()), "crashes")
}

// NewCrashHandler returns a handler writing to cfg.CrashDir, or to
// DefaultCrashDir when that is empty.
func NewCrashHandler(cfg *CrashHandlerConfig) *CrashHandler {
	h := &CrashHandler{crashDir: DefaultCrashDir()}
	if cfg == nil {
		return h
	}
	if cfg.CrashDir != "" {
		h.crashDir = cfg.CrashDir
	}
	h.version = cfg.Version
	h.component = cfg.Component
	h.onCrash = cfg.OnCrash
	return h
}

// Guard runs fn. If fn panics, a crash report is written and the panic
// is re-raised with its original value.
func (h *CrashHandler) Guard(context map[string]any, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.Report(r, context)
			panic(r)
		}
	}()
	fn()
}

// Report builds a crash report for panicValue, writes it to the crash
// directory and returns it.
func (h *CrashHandler) Report(panicValue any, context map[string]any) CrashReport {
	h.mu.Lock()
	defer h.mu.Unlock()

	report := CrashReport{
		Timestamp:    time.Now().UTC(),
		Version:      h.version,
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		NumGoroutine: runtime.NumGoroutine(),
		PanicValue:   fmt.Sprintf("%v", panicValue),
		StackTrace:   string(debug.Stack()),
		Component:    h.component,
		Context:      context,
	}

	if err := h.write(report); err != nil {
		fmt.Fprintf(os.Stderr, "write crash report: %v\n", err)
	}
	if h.onCrash != nil {
		h.onCrash(report)
	}
	return report
}

func (h *CrashHandler) write(report CrashReport) error {
	if err := os.MkdirAll(h.crashDir, 0750); err != nil {
		return err
	}

	name := fmt.Sprintf("crash-%s-%s.json", report.Component, report.Timestamp.Format("20060102-150405.000"))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal crash report: %w", err)
	}
	return os.WriteFile(filepath.Join(h.crashDir, name), data, 0640)
}

// Reports reads back every report in the crash directory. Unreadable
// files are skipped.
func (h *CrashHandler) Reports() ([]CrashReport, error) {
	paths, err := filepath.Glob(filepath.Join(h.crashDir, "crash-*.json"))
	if err != nil {
		return nil, err
	}

	var out []CrashReport
	for _, p := range paths {
		var r CrashReport
		if data, err := os.ReadFile(p); err == nil && json.Unmarshal(data, &r) == nil {
			out = append(out, r)
		}
	}
	return out, nil
}
