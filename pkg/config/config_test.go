package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/carrymon_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 10.0, cfg.Quote.RateLimit)
	assert.Equal(t, "data/stocks_futures.csv", cfg.Universe.Path)
	assert.Equal(t, "0 */5 * * * *", cfg.Capture.Schedule)
	assert.Equal(t, 1, cfg.Capture.Workers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/carrymon_test")
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_VIEW_TTL", "2m")
	t.Setenv("QUOTE_RATE_LIMIT", "2.5")
	t.Setenv("CAPTURE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 2.5, cfg.Quote.RateLimit)
	assert.Equal(t, 8, cfg.Capture.Workers)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/carrymon_test")

	t.Run("unknown env", func(t *testing.T) {
		t.Setenv("ENV", "sandbox")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Setenv("CAPTURE_WORKERS", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed int falls back to default", func(t *testing.T) {
		t.Setenv("CAPTURE_WORKERS", "many")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Capture.Workers)
	})
}
