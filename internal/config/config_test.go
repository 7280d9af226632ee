package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pillmate/pill-helper/internal/logger"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("PLACES_NEARBY_RADIUS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 2000, cfg.Places.NearbyRadius)
	assert.Equal(t, 5000, cfg.Places.BiasRadius)
	assert.Equal(t, 45, cfg.UserProfile.Age)
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("BACKEND_URL", "http://10.0.0.5:8000")
	t.Setenv("PLACES_NEARBY_RADIUS", "3000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 3000, cfg.Places.NearbyRadius)
	assert.Equal(t, logger.LevelDebug, cfg.Logger.Level)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, logger.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, logger.LevelError, parseLogLevel("error"))
	assert.Equal(t, logger.LevelInfo, parseLogLevel("unknown"))
}
