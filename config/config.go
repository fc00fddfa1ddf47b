// Package config loads service settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogPretty   bool   `yaml:"log_pretty"`

	Provider ProviderConfig `yaml:"provider"`

	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	TrustProxy         bool     `yaml:"trust_proxy"` // key rate limits by X-Forwarded-For
	WriteAPIKeyHash    string   `yaml:"write_api_key_hash"` // bcrypt, empty disables the check
	AdminJWTSecret     string   `yaml:"admin_jwt_secret"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// ProviderConfig configures the sports-data provider client
type ProviderConfig struct {
	APIKey         string `yaml:"api_key"`
	Host           string `yaml:"host"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
	RequestsPerSec int    `yaml:"requests_per_sec"`
}

func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:        "8080",
		DatabaseURL: "predictions.db",
		Environment: "development",
		LogLevel:    "info",
		Provider: ProviderConfig{
			Host:           "v3.football.api-sports.io",
			TimeoutSeconds: 10,
			MaxRetries:     3,
			RequestsPerSec: 5,
		},
		RateLimitPerMinute: 60,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load initializes configuration. A .env file is read when present and
// CONFIG_FILE may point at a YAML file; environment variables win over both.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvWithDefault("PORT", c.Port)
	c.DatabaseURL = getEnvWithDefault("DATABASE_URL", c.DatabaseURL)
	c.Environment = getEnvWithDefault("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	c.LogPretty = getEnvBoolWithDefault("LOG_PRETTY", c.LogPretty)

	c.Provider.APIKey = getEnvWithDefault("API_KEY", c.Provider.APIKey)
	c.Provider.Host = getEnvWithDefault("API_HOST", c.Provider.Host)
	c.Provider.TimeoutSeconds = getEnvIntWithDefault("PROVIDER_TIMEOUT_SECONDS", c.Provider.TimeoutSeconds)
	c.Provider.MaxRetries = getEnvIntWithDefault("PROVIDER_MAX_RETRIES", c.Provider.MaxRetries)
	c.Provider.RequestsPerSec = getEnvIntWithDefault("PROVIDER_REQUESTS_PER_SEC", c.Provider.RequestsPerSec)

	c.RateLimitPerMinute = getEnvIntWithDefault("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.TrustProxy = getEnvBoolWithDefault("TRUST_PROXY", c.TrustProxy)
	c.WriteAPIKeyHash = getEnvWithDefault("WRITE_API_KEY_HASH", c.WriteAPIKeyHash)
	c.AdminJWTSecret = getEnvWithDefault("ADMIN_JWT_SECRET", c.AdminJWTSecret)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive")
	}
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative")
	}
	if c.IsProduction() && c.WriteAPIKeyHash == "" {
		return fmt.Errorf("WRITE_API_KEY_HASH is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-numeric setting")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
