package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 60, cfg.AccessTTLMin)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.NotContains(t, cfg.String(), "secret")
}

func TestLoadReportsAllMissing(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoadRejectsBadInt(t *testing.T) {
	setRequired(t)
	t.Setenv("BCRYPT_COST", "ten")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestLoadRejectsAdminWithoutPassword(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadBookingConfigClampsValues(t *testing.T) {
	t.Setenv("BOOKING_LOCK", "zookeeper")
	t.Setenv("BOOKING_MAX_RETRIES", "0")
	t.Setenv("BOOKING_RETRY_BACKOFF", "25ms")

	c := LoadBookingConfig()
	assert.Equal(t, LockLocal, c.Lock)
	assert.Equal(t, 1, c.MaxRetries)
	assert.Equal(t, 25*time.Millisecond, c.RetryBackoff)
}

func TestLoadRateLimitConfigMinimumTTL(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	assert.Equal(t, time.Minute, c.RefillInterval)
	assert.Equal(t, 5*time.Minute, c.TTL)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")

	c := LoadCacheConfig()
	assert.True(t, c.Methods["GET"])
	assert.True(t, c.Methods["HEAD"])
	assert.False(t, c.Methods["POST"])
}
