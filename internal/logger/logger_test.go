package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewSlog_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "info", Format: "json", Output: &buf})

	log.Debug("hidden")
	log.Info("search completed", "query", "cats")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search completed", entry["msg"])
	assert.Equal(t, "cats", entry["query"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNewSlog_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "debug", Format: "text", Output: &buf})

	log.Debug("outbound request", "page", 2)
	assert.Contains(t, buf.String(), "msg=\"outbound request\"")
	assert.Contains(t, buf.String(), "page=2")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcde...vwxyz", MaskSecret("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "*****", MaskSecret("short"))
	assert.Equal(t, "*****", MaskSecret(""))
}
