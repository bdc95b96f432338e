package logging

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		hasError bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			level, err := ParseLevel(test.input)
			if test.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.expected, level)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestLoggerUnknownOutputUsesStderr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "nowhere"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, l.rotator)
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Sync())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.Equal(t, "winrun", cfg.Component)
	assert.Positive(t, cfg.MaxSize)
	assert.Positive(t, cfg.MaxBackups)
	assert.True(t, strings.HasSuffix(cfg.FilePath, "winrun.log"))
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	cfg.Writer = &buf

	logger, err := New(cfg)
	require.NoError(t, err)
	defer logger.Close()

	logger.WithComponent("window").Info("created the window", "width", 640)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created the window", entry["msg"])
	assert.Equal(t, "window", entry["component"])
	assert.EqualValues(t, 640, entry["width"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = LevelWarn
	cfg.Writer = &buf

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestShouldRedact(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"password", true},
		{"PASSWORD", true},
		{"auth_token", true},
		{"secret", true},
		{"cookie", true},
		{"title", false},
		{"width", false},
		{"event", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, shouldRedact(test.key))
		})
	}
}

func TestLoggerRedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Writer = &buf

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("connect", "token", "abc123")
	assert.NotContains(t, buf.String(), "abc123")
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestLoggerFileOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.FilePath = filepath.Join(t.TempDir(), "logs", "winrun.log")

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, logger.Sync())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestFileRotatorRotatesBySize(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(dir, "winrun.log")
	cfg.MaxSize = 1
	cfg.Compress = false
	cfg.MaxBackups = 5

	r, err := NewFileRotator(cfg)
	require.NoError(t, err)

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	_, err = r.Write(chunk)
	require.NoError(t, err)
	_, err = r.Write(chunk)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	backups, err := r.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	info, err := os.Stat(cfg.FilePath)
	require.NoError(t, err)
	assert.EqualValues(t, len(chunk), info.Size())
}

func TestFileRotatorCompressesBackups(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(dir, "winrun.log")
	cfg.MaxSize = 1
	cfg.Compress = true

	r, err := NewFileRotator(cfg)
	require.NoError(t, err)

	chunk := bytes.Repeat([]byte("y"), 700*1024)
	_, err = r.Write(chunk)
	require.NoError(t, err)
	_, err = r.Write(chunk)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	backups, err := r.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	require.True(t, strings.HasSuffix(backups[0], ".gz"))

	f, err := os.Open(backups[0])
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Len(t, data, len(chunk))
}

func TestFileRotatorCleanupKeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(dir, "winrun.log")
	cfg.MaxBackups = 2
	cfg.MaxAge = 0

	for i, name := range []string{"a", "b", "c", "d"} {
		p := filepath.Join(dir, "winrun-"+name+".log")
		require.NoError(t, os.WriteFile(p, []byte(name), 0640))
		mod := time.Now().Add(-time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(p, mod, mod))
	}

	r := &FileRotator{config: cfg}
	r.cleanup()

	backups, err := r.Backups()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
	assert.FileExists(t, filepath.Join(dir, "winrun-a.log"))
	assert.FileExists(t, filepath.Join(dir, "winrun-b.log"))
}

func TestCrashHandlerGuardRepanics(t *testing.T) {
	dir := t.TempDir()
	var got CrashReport
	h := NewCrashHandler(&CrashHandlerConfig{
		CrashDir:  dir,
		Version:   "test",
		Component: "demo",
		OnCrash:   func(r CrashReport) { got = r },
	})

	assert.PanicsWithValue(t, "boom", func() {
		h.Guard(map[string]any{"event": "redraw_requested"}, func() {
			panic("boom")
		})
	})

	assert.Equal(t, "boom", got.PanicValue)
	assert.Equal(t, "demo", got.Component)
	assert.NotEmpty(t, got.StackTrace)

	reports, err := h.Reports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "redraw_requested", reports[0].Context["event"])
}

func TestCrashHandlerGuardNoPanic(t *testing.T) {
	dir := t.TempDir()
	h := NewCrashHandler(&CrashHandlerConfig{CrashDir: dir})

	ran := false
	h.Guard(nil, func() { ran = true })
	assert.True(t, ran)

	reports, err := h.Reports()
	require.NoError(t, err)
	assert.Empty(t, reports)
}
