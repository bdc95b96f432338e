// Package logging sets up the slog loggers used across winrun.
//
// A Logger writes text or JSON to stdout, stderr, a rotating file, or
// stderr and the file together. Every entry carries a component
// attribute, and attributes whose keys look like credentials are
// replaced before they are written.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Level is a slog level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the slog handler.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Config describes where and how a Logger writes.
type Config struct {
	Level  Level
	Format Format

	// Output is "stdout", "stderr", "file" or "both" (stderr and file).
	// Unknown values mean stderr.
	Output string

	// FilePath is the log file used by the "file" and "both" outputs.
	FilePath string

	// Rotation. MaxSize is in megabytes, MaxAge in days. Zero disables
	// the corresponding limit.
	MaxSize    int64
	MaxAge     int
	MaxBackups int
	Compress   bool

	AddSource bool

	// Component is attached to every entry as "component".
	Component string

	// Writer overrides Output when set.
	Writer io.Writer
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Format:     FormatText,
		Output:     "stderr",
		FilePath:   DefaultLogPath(),
		MaxSize:    20,
		MaxAge:     14,
		MaxBackups: 3,
		Compress:   true,
		Component:  "winrun",
	}
}

// DefaultLogPath is winrun.log in the platform's per-user log location:
// ~/Library/Logs on macOS, %LOCALAPPDATA% on Windows and
// $XDG_STATE_HOME elsewhere.
func DefaultLogPath() string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "winrun", "winrun.log")
	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = os.Getenv("APPDATA")
		}
		return filepath.Join(base, "winrun", "logs", "winrun.log")
	}

	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "winrun", "winrun.log")
}

// Logger is a slog.Logger that also owns its log file.
type Logger struct {
	*slog.Logger

	config  *Config
	rotator *FileRotator
	mu      sync.Mutex
}

var (
	std     *Logger
	stdOnce sync.Once
	stdMu   sync.RWMutex
)

// Default returns the process logger, creating one from DefaultConfig on
// first use.
func Default() *Logger {
	stdOnce.Do(func() {
		l, err := New(DefaultConfig())
		if err != nil {
			l = &Logger{Logger: slog.Default(), config: DefaultConfig()}
		}
		stdMu.Lock()
		if std == nil {
			std = l
		}
		stdMu.Unlock()
	})

	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// SetDefault replaces the process logger and slog's default.
func SetDefault(l *Logger) {
	stdOnce.Do(func() {})
	stdMu.Lock()
	std = l
	stdMu.Unlock()
	slog.SetDefault(l.Logger)
}

// Component is shorthand for Default().WithComponent(name).Logger.
func Component(name string) *slog.Logger {
	return Default().WithComponent(name).Logger
}

// New builds a Logger from cfg, or from DefaultConfig when cfg is nil.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Logger{config: cfg}

	w, err := l.output()
	if err != nil {
		return nil, fmt.Errorf("open log output: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level:       cfg.Level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: redact,
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	if cfg.Component != "" {
		h = h.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}

	l.Logger = slog.New(h)
	return l, nil
}

func (l *Logger) output() (io.Writer, error) {
	if l.config.Writer != nil {
		return l.config.Writer, nil
	}

	out := strings.ToLower(l.config.Output)
	switch out {
	case "stdout":
		return os.Stdout, nil
	case "file", "both":
	default:
		return os.Stderr, nil
	}

	rotator, err := NewFileRotator(l.config)
	if err != nil {
		return nil, err
	}
	l.rotator = rotator
	if out == "both" {
		return io.MultiWriter(os.Stderr, rotator), nil
	}
	return rotator, nil
}

var sensitiveKeys = []string{"password", "secret", "token", "credential", "cookie"}

func shouldRedact(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if shouldRedact(a.Key) {
		a.Value = slog.StringValue("[REDACTED]")
	}
	return a
}

// WithComponent returns a logger whose entries carry component=name.
// It shares l's output; closing either closes the file for both.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(slog.String("component", name)),
		config:  l.config,
		rotator: l.rotator,
	}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// Sync flushes the log file, if any.
func (l *Logger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Sync()
}

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (Level, error) {
	levels := map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	if lvl, ok := levels[strings.ToLower(s)]; ok {
		return lvl, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat accepts "text", "json" or "" (text).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}
