package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")

	cfg := Load()
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiry)
	assert.True(t, cfg.CookieSecure)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CORS_ORIGIN", "http://a.test, ,http://b.test")

	cfg := Load()
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_EXPIRY", "ten days")
	assert.Equal(t, 240*time.Hour, Load().RefreshTokenExpiry)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	assert.ErrorContains(t, cfg.Validate(), "must differ")

	cfg = Load()
	cfg.AccessTokenExpiry = 0
	assert.ErrorContains(t, cfg.Validate(), "positive")

	cfg = Load()
	cfg.StoreDriver = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")
}
