package observability_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/gusheet/internal/config"
	"github.com/cory-johannsen/gusheet/internal/observability"
)

func TestNewLogger_AcceptsEveryValidCombination(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			logger, err := observability.NewLogger(config.LoggingConfig{Level: level, Format: format})
			require.NoError(t, err, "%s/%s", level, format)
			assert.NotNil(t, logger)
		}
	}
}

func TestNewLogger_RejectsInvalidSettings(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
	_, err = observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLoggerTo_JSONCarriesAppAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := observability.NewLoggerTo(config.LoggingConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("damage taken", zap.String("op", "Damage"), zap.Int("hp", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gusheet", entry["app"])
	assert.Equal(t, "Damage", entry["op"])
	assert.Equal(t, "damage taken", entry["msg"])
	assert.EqualValues(t, 3, entry["hp"])
}

func TestNewLoggerTo_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := observability.NewLoggerTo(config.LoggingConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
