package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandler_WritesMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.With("component", "auth").WithGroup("http").Info("request", "status", 201)

	out := buf.String()
	assert.Contains(t, out, "request")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "http.status")
	assert.Contains(t, out, "201")
}

func TestPrettyHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Debug("hidden too")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyHandler_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.Info("login", "username", "ann", "password", "secret1", "refresh_token", "eyJhbGciOi")

	out := buf.String()
	assert.Contains(t, out, "ann")
	assert.NotContains(t, out, "secret1")
	assert.NotContains(t, out, "eyJhbGciOi")
	assert.Contains(t, out, redacted)
}

func TestNew_JSONRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, false)

	log.Info("login", "username", "ann", "Authorization", "Bearer abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ann", entry["username"])
	assert.Equal(t, redacted, entry["Authorization"])
}
