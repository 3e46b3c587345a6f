package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger, err := Init(&buf, "info", true)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("terrain", "flat").Msg("run started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run started", entry["message"])
	assert.Equal(t, "flat", entry["terrain"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitConsole(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger, err := Init(&buf, "debug", false)
	require.NoError(t, err)

	logger.Debug().Msg("snapped")
	assert.Contains(t, buf.String(), "snapped")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitBadLevel(t *testing.T) {
	_, err := Init(&bytes.Buffer{}, "loud", false)
	assert.Error(t, err)
}
