// Package config handles configuration loading, validation, and hot
// reloading for winrun.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"winrun/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete application configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Window configures the window and the event loop backend.
	Window WindowConfig `toml:"window" json:"window" yaml:"window"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Journal configures event recording and replay.
	Journal JournalConfig `toml:"journal" json:"journal" yaml:"journal"`

	// Metrics configures the metrics endpoint.
	Metrics MetricsConfig `toml:"metrics" json:"metrics" yaml:"metrics"`

	// Demo configures the sample application.
	Demo DemoConfig `toml:"demo" json:"demo" yaml:"demo"`

	// Inhibit configures screensaver inhibition while focused.
	Inhibit InhibitConfig `toml:"inhibit" json:"inhibit" yaml:"inhibit"`
}

// WindowConfig holds window and backend settings.
type WindowConfig struct {
	// Title is the window title.
	Title string `toml:"title" json:"title" yaml:"title"`

	// Backend is "auto", "gio", "terminal" or "replay".
	Backend string `toml:"backend" json:"backend" yaml:"backend"`

	// FrameIntervalMs paces redraws on the terminal backend.
	FrameIntervalMs int `toml:"frame_interval_ms" json:"frame_interval_ms" yaml:"frame_interval_ms"`
}

// FrameInterval returns FrameIntervalMs as a duration.
func (w WindowConfig) FrameInterval() time.Duration {
	return time.Duration(w.FrameIntervalMs) * time.Millisecond
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the output format: text or json.
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the destination: stdout, stderr, file, or both.
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file used when Output is file or both.
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is the maximum age of rotated files.
	MaxAgeDays int `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `toml:"compress" json:"compress" yaml:"compress"`
}

// JournalConfig holds event journal settings.
type JournalConfig struct {
	// Enabled records every run into Path.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the SQLite journal file.
	Path string `toml:"path" json:"path" yaml:"path"`

	// ReplayRun selects the run replayed by the replay backend.
	// Zero means the latest run.
	ReplayRun int64 `toml:"replay_run" json:"replay_run" yaml:"replay_run"`

	// Realtime reproduces the recorded timing during replay.
	Realtime bool `toml:"realtime" json:"realtime" yaml:"realtime"`
}

// MetricsConfig holds metrics endpoint settings.
type MetricsConfig struct {
	// Enabled serves metrics over HTTP.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// ListenAddr is the HTTP listen address.
	ListenAddr string `toml:"listen_addr" json:"listen_addr" yaml:"listen_addr"`
}

// DemoConfig holds settings for the sample application.
type DemoConfig struct {
	// CursorVisible is the desired cursor visibility at start.
	CursorVisible bool `toml:"cursor_visible" json:"cursor_visible" yaml:"cursor_visible"`

	// QuitKey names the key that ends the run, e.g. "Q" or "Escape".
	QuitKey string `toml:"quit_key" json:"quit_key" yaml:"quit_key"`

	// ToggleCursorKey names the key that toggles the cursor.
	ToggleCursorKey string `toml:"toggle_cursor_key" json:"toggle_cursor_key" yaml:"toggle_cursor_key"`

	// ScaleRequestWidth and ScaleRequestHeight are requested when the
	// scale factor changes.
	ScaleRequestWidth  uint32 `toml:"scale_request_width" json:"scale_request_width" yaml:"scale_request_width"`
	ScaleRequestHeight uint32 `toml:"scale_request_height" json:"scale_request_height" yaml:"scale_request_height"`

	// Audio plays a click on mouse presses.
	Audio bool `toml:"audio" json:"audio" yaml:"audio"`

	// ToneHz is the click frequency.
	ToneHz float64 `toml:"tone_hz" json:"tone_hz" yaml:"tone_hz"`

	// Volume is the click volume in beep's exponential units (0 is unity).
	Volume float64 `toml:"volume" json:"volume" yaml:"volume"`
}

// InhibitConfig holds screensaver inhibition settings.
type InhibitConfig struct {
	// Screensaver inhibits the screensaver while the window is focused.
	Screensaver bool `toml:"screensaver" json:"screensaver" yaml:"screensaver"`

	// Reason is shown by the desktop in its inhibitor list.
	Reason string `toml:"reason" json:"reason" yaml:"reason"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := DataDir()

	return &Config{
		Version: Version,
		Window: WindowConfig{
			Title:           "winrun",
			Backend:         "auto",
			FrameIntervalMs: 16,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   filepath.Join(PlatformLogDir(), "winrun.log"),
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    filepath.Join(dir, "journal.db"),
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9464",
		},
		Demo: DemoConfig{
			CursorVisible:      true,
			QuitKey:            "Q",
			ToggleCursorKey:    "C",
			ScaleRequestWidth:  800,
			ScaleRequestHeight: 500,
			Audio:              false,
			ToneHz:             880,
			Volume:             -2,
		},
		Inhibit: InhibitConfig{
			Screensaver: true,
			Reason:      "winrun window is focused",
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// Load reads configuration from path. A missing file yields the
// defaults. The format follows the file extension: TOML, JSON or YAML.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the directories the configuration writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Journal.Path),
	}
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides. Variables
// are prefixed with WINRUN_. Malformed boolean values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("WINRUN_TITLE"); v != "" {
		c.Window.Title = v
	}
	if v := os.Getenv("WINRUN_BACKEND"); v != "" {
		c.Window.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("WINRUN_FRAME_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Window.FrameIntervalMs = ms
		}
	}

	if v := os.Getenv("WINRUN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("WINRUN_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("WINRUN_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}

	if v := os.Getenv("WINRUN_JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
		c.Journal.Enabled = true
	}

	if v := os.Getenv("WINRUN_METRICS_ADDR"); v != "" {
		c.Metrics.ListenAddr = v
		c.Metrics.Enabled = true
	}

	if b, ok := envBool("WINRUN_CURSOR_VISIBLE"); ok {
		c.Demo.CursorVisible = b
	}
	if b, ok := envBool("WINRUN_AUDIO"); ok {
		c.Demo.Audio = b
	}
	if b, ok := envBool("WINRUN_INHIBIT_SCREENSAVER"); ok {
		c.Inhibit.Screensaver = b
	}
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// LoggingOptions converts the logging section into logging.Config.
// Unparseable values fall back to the logging defaults.
func (c *Config) LoggingOptions() *logging.Config {
	out := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		out.Level = level
	}
	if format, err := logging.ParseFormat(c.Logging.Format); err == nil {
		out.Format = format
	}
	if c.Logging.Output != "" {
		out.Output = c.Logging.Output
	}
	if c.Logging.FilePath != "" {
		out.FilePath = c.Logging.FilePath
	}
	out.MaxSize = int64(c.Logging.MaxSizeMB)
	out.MaxBackups = c.Logging.MaxBackups
	out.MaxAge = c.Logging.MaxAgeDays
	out.Compress = c.Logging.Compress
	return out
}
