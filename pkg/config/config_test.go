package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.True(t, cfg.Database.AllowDegradedReads)
	assert.Equal(t, "app_session_id", cfg.Session.CookieName)
	assert.Equal(t, []string{"openid", "profile", "email"}, cfg.OAuth.Scopes)
	assert.Equal(t, "*/15 * * * *", cfg.Worker.OverdueCron)
	assert.Equal(t, 24*365*time.Hour, cfg.Session.Expiry())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_ALLOW_DEGRADED_READS", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("OWNER_EXTERNAL_ID", "owner-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.False(t, cfg.Database.AllowDegradedReads)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "owner-123", cfg.OAuth.OwnerExternalID)
}

func TestDatabaseConfig_Enabled(t *testing.T) {
	assert.True(t, (&DatabaseConfig{Driver: DriverPostgres}).Enabled())
	assert.False(t, (&DatabaseConfig{Driver: DriverNone}).Enabled())
	assert.False(t, (&DatabaseConfig{}).Enabled())
}

func TestOAuthConfig_Enabled(t *testing.T) {
	assert.False(t, (&OAuthConfig{}).Enabled())
	assert.True(t, (&OAuthConfig{ClientID: "id", AuthURL: "https://a", TokenURL: "https://t"}).Enabled())
}
