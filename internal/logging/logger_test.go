package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, Options{Writer: &buf})

	logger.Debug("hidden")
	logger.Info("visible", "error", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=visible")
	assert.Contains(t, out, "err=boom", "error key should be renamed")
}

func TestNew_FanOutToFile(t *testing.T) {
	var text, file bytes.Buffer
	logger := New(slog.LevelDebug, Options{Writer: &text, File: &file})

	logger.Debug("joke saved", "joke_id", "abc")

	assert.Contains(t, text.String(), "joke_id=abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(file.Bytes()), &record))
	assert.Equal(t, "joke saved", record["msg"])
	assert.Equal(t, "abc", record["joke_id"])
	assert.Equal(t, "DEBUG", record["level"])
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchline.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	logger := New(slog.LevelInfo, Options{Writer: &strings.Builder{}, File: f})
	logger.Info("written")
	require.NoError(t, f.Sync())
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("ignored") })
}
