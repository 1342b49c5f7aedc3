package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"":       zapcore.InfoLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, "level %q", in)
		assert.Equal(t, want, got, "level %q", in)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, "verbose")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	l, err := New("loud", FileConfig{}, false)
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNew_CreatesLogDirectory(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "nested", "viewer.log")
	l, err := New("info", DefaultFileConfig(logFile), false)
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, l.Sync())
	assert.FileExists(t, logFile)
}

func TestNew_LogDirectoryBlockedByFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := New("info", DefaultFileConfig(filepath.Join(blocker, "viewer.log")), false)
	assert.ErrorContains(t, err, "create log directory")
}

func TestFileOutputIsJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "viewer.log")
	cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}

	l, err := New("debug", cfg, false)
	require.NoError(t, err)

	l.Named("state").Info("render state ready", zap.Int("width", 800))
	l.Debug("frame skipped")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "state", entry["logger"])
	assert.Equal(t, "render state ready", entry["msg"])
	assert.EqualValues(t, 800, entry["width"])
}

func TestLevelFiltersFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "viewer.log")
	l, err := New("warn", DefaultFileConfig(logFile), false)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
