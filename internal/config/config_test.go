package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "5000")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 5, cfg.TopContributors)
	assert.Equal(t, 24*time.Hour, cfg.ReminderTTL)
	assert.NotNil(t, cfg.Location)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("TOP_CONTRIBUTORS", "10")
	t.Setenv("REMINDER_TTL", "12h")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SKIP_AUTH", "true")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.TopContributors)
	assert.Equal(t, 12*time.Hour, cfg.ReminderTTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.SkipAuth)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOP_CONTRIBUTORS", "-3")
	t.Setenv("ANALYTICS_CACHE_TTL", "soon")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TopContributors)
	assert.Equal(t, 2*time.Minute, cfg.AnalyticsCacheTTL)
	assert.Equal(t, time.Local, cfg.Location)
}
