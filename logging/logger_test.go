package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestJSONOutputCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	logger = WithComponent(WithGameID(logger, "1700000000000-ab12cd34"), "studio")

	logger.Info().Msg("game iterated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "game iterated", entry["message"])
	assert.Equal(t, "1700000000000-ab12cd34", entry["game_id"])
	assert.Equal(t, "studio", entry["component"])
	assert.Contains(t, entry["caller"], "logging/logger_test.go:")
}
