package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer l.Close()

	l.Info("hidden")
	l.Warn("shown", "column", "Amount")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "column=Amount")
}

func TestNew_SplitsInfoAndErrorFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer

	l, err := New(Options{Level: "debug", Dir: dir, Output: &buf})
	require.NoError(t, err)

	l.Debug("debug record")
	l.Info("info record")
	l.Error("error record")
	require.NoError(t, l.Close())

	info, err := os.ReadFile(filepath.Join(dir, infoFileName))
	require.NoError(t, err)
	errs, err := os.ReadFile(filepath.Join(dir, errorFileName))
	require.NoError(t, err)

	assert.NotContains(t, string(info), "debug record")
	assert.Contains(t, string(info), "info record")
	assert.Contains(t, string(info), "error record")

	assert.NotContains(t, string(errs), "info record")
	assert.Contains(t, string(errs), "error record")

	// console still sees everything at debug
	assert.Equal(t, 3, strings.Count(buf.String(), "record"))
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Format: "json", Output: &buf})
	require.NoError(t, err)
	defer l.Close()

	l.With("run_id", "r1").Info("done")
	assert.Contains(t, buf.String(), `"run_id":"r1"`)
}
