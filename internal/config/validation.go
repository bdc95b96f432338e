package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"

	"winrun/internal/window"
)

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidConfig) true for validation failures.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Fields returns the names of the invalid fields.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, err := range e {
		fields = append(fields, err.Field)
	}
	return fields
}

// Backends lists the accepted window.backend values.
var Backends = []string{"auto", "gio", "terminal", "replay"}

// ValidateConfig validates every section of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateWindow(&c.Window)...)
	errs = append(errs, validateLogging(&c.Logging)...)
	errs = append(errs, validateJournal(&c.Journal, c.Window.Backend)...)
	errs = append(errs, validateMetrics(&c.Metrics)...)
	errs = append(errs, validateDemo(&c.Demo)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateWindow(w *WindowConfig) ValidationErrors {
	var errs ValidationErrors

	if !slices.Contains(Backends, w.Backend) {
		errs = append(errs, ValidationError{
			Field:   "window.backend",
			Message: fmt.Sprintf("invalid backend: %s (valid: %s)", w.Backend, strings.Join(Backends, ", ")),
		})
	}

	if w.FrameIntervalMs < 1 || w.FrameIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "window.frame_interval_ms",
			Message: "frame interval must be between 1 and 1000 ms",
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is '%s'", l.Output),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	if l.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size must be at least 1 MB",
		})
	}
	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}
	if l.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_age_days",
			Message: "max age cannot be negative",
		})
	}

	return errs
}

func validateJournal(j *JournalConfig, backend string) ValidationErrors {
	var errs ValidationErrors

	if (j.Enabled || backend == "replay") && j.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "journal.path",
			Message: "journal path is required when recording or replaying",
		})
	}
	if j.ReplayRun < 0 {
		errs = append(errs, ValidationError{
			Field:   "journal.replay_run",
			Message: "replay run cannot be negative",
		})
	}

	return errs
}

func validateMetrics(m *MetricsConfig) ValidationErrors {
	var errs ValidationErrors

	if m.Enabled {
		if _, _, err := net.SplitHostPort(m.ListenAddr); err != nil {
			errs = append(errs, ValidationError{
				Field:   "metrics.listen_addr",
				Message: fmt.Sprintf("invalid listen address: %v", err),
			})
		}
	}

	return errs
}

func validateDemo(d *DemoConfig) ValidationErrors {
	var errs ValidationErrors

	for field, name := range map[string]string{
		"demo.quit_key":          d.QuitKey,
		"demo.toggle_cursor_key": d.ToggleCursorKey,
	} {
		if _, err := window.ParseKeyCode(name); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
	}
	if d.QuitKey != "" && strings.EqualFold(d.QuitKey, d.ToggleCursorKey) {
		errs = append(errs, ValidationError{
			Field:   "demo.toggle_cursor_key",
			Message: "toggle key must differ from the quit key",
		})
	}

	if d.ScaleRequestWidth == 0 || d.ScaleRequestHeight == 0 {
		errs = append(errs, ValidationError{
			Field:   "demo.scale_request_width",
			Message: "scale request size must be non-zero",
		})
	}

	if d.Audio && (d.ToneHz < 20 || d.ToneHz > 20000) {
		errs = append(errs, ValidationError{
			Field:   "demo.tone_hz",
			Message: "tone must be between 20 and 20000 Hz",
		})
	}

	return errs
}
