package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.Log{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("ship", "Aurora").Msg("skipping ship document")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Aurora", entry["ship"])
	assert.Equal(t, "skipping ship document", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.Log{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug().Str("row", "add-ship").Msg("edit")
	assert.Contains(t, buf.String(), "edit")
	assert.Contains(t, buf.String(), "row=")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud", Format: "json"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portplan.log")
	w, f, err := File(path)
	require.NoError(t, err)

	logger, err := New(config.Log{Level: "info", Format: "json"}, w)
	require.NoError(t, err)
	logger.Info().Msg("fleet loaded")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fleet loaded")
}
