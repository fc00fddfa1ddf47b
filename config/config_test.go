package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CONFIG_FILE", "PORT", "DATABASE_URL", "ENVIRONMENT", "LOG_LEVEL", "LOG_PRETTY",
	"API_KEY", "API_HOST", "PROVIDER_TIMEOUT_SECONDS", "PROVIDER_MAX_RETRIES",
	"PROVIDER_REQUESTS_PER_SEC", "RATE_LIMIT_PER_MINUTE", "WRITE_API_KEY_HASH",
	"ADMIN_JWT_SECRET", "CORS_ALLOWED_ORIGINS", "TRUST_PROXY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "predictions.db", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "v3.football.api-sports.io", cfg.Provider.Host)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
	assert.Equal(t, 5, cfg.Provider.RequestsPerSec)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.TrustProxy)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/predictions")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("WRITE_API_KEY_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PROVIDER_MAX_RETRIES", "5")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/predictions", cfg.DatabaseURL)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.LogPretty)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, "secret", cfg.Provider.APIKey)
	assert.Equal(t, 5, cfg.Provider.MaxRetries)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
log_level: debug
provider:
  host: api.example.test
  timeout_seconds: 4
rate_limit_per_minute: 120
trust_proxy: true
cors_allowed_origins:
  - https://dashboard.example
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	// environment wins over the file
	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "api.example.test", cfg.Provider.Host)
	assert.Equal(t, 4*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, []string{"https://dashboard.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadBadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Provider.TimeoutSeconds = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RateLimitPerMinute = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Environment = "Production"
	assert.ErrorContains(t, cfg.Validate(), "WRITE_API_KEY_HASH")
	cfg.WriteAPIKeyHash = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, cfg.Validate())
}
