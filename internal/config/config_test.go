package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "* * * * *", cfg.Worker.ExpiryCron)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 72*time.Hour, cfg.JWT.RefreshTokenExpiry)
	assert.Equal(t, 24*time.Hour, cfg.Limits.MomentWindow)
	assert.Equal(t, 20, cfg.Feed.DefaultLimit)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Database.MaxConnLifetime)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_EXPIRY_CRON", "*/5 * * * *")
	t.Setenv("LIMIT_APPLY_WINDOW", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "*/5 * * * *", cfg.Worker.ExpiryCron)
	assert.Equal(t, 30*time.Minute, cfg.Limits.ApplyWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.RetryDelay)
}

func TestLoad_RejectsBadCron(t *testing.T) {
	t.Setenv("WORKER_EXPIRY_CRON", "every minute")

	_, err := Load()
	assert.ErrorContains(t, err, "WORKER_EXPIRY_CRON")
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_CONNECT_TIMEOUT")
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "pw")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
