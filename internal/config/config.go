// Package config loads loom configuration from loom.yaml and LOOM_
// environment variables via viper, with fail-fast validation.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the loom configuration.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Server    ServerConfig    `mapstructure:"server"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Log       LogConfig       `mapstructure:"log"`
}

// CatalogConfig selects the catalog snapshot to load.
type CatalogConfig struct {
	// Path to a JSON or YAML snapshot. Empty uses the embedded default.
	Path string `mapstructure:"path"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// BaseURL prefixes remote file references in urls-mode scaffolds.
	BaseURL string     `mapstructure:"base_url"`
	Auth    AuthConfig `mapstructure:"auth"`
}

// AuthConfig represents bearer auth configuration.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	// APIKeyHashes are bcrypt hashes of accepted static API keys.
	APIKeyHashes []string `mapstructure:"api_key_hashes"`
}

// AnalyticsConfig selects and configures the analytics backend.
type AnalyticsConfig struct {
	// Backend is one of memory, redis, sqlite, postgres, none.
	Backend  string                  `mapstructure:"backend"`
	Redis    RedisAnalyticsConfig    `mapstructure:"redis"`
	SQLite   SQLiteAnalyticsConfig   `mapstructure:"sqlite"`
	Postgres PostgresAnalyticsConfig `mapstructure:"postgres"`
}

// RedisAnalyticsConfig represents the redis analytics backend.
type RedisAnalyticsConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SQLiteAnalyticsConfig represents the sqlite analytics backend.
type SQLiteAnalyticsConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresAnalyticsConfig represents the postgres analytics backend.
type PostgresAnalyticsConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var validBackends = []string{"memory", "redis", "sqlite", "postgres", "none"}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Load loads the configuration from the given file, or from loom.yaml in
// the current directory when path is empty. LOOM_-prefixed environment
// variables override file values (LOOM_SERVER_PORT=8080).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("catalog.path", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 7420)
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.auth.enabled", false)
	v.SetDefault("analytics.backend", "memory")
	v.SetDefault("analytics.sqlite.path", "loom-analytics.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("loom")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file - defaults plus environment.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}

	if cfg.Server.BaseURL != "" && !strings.HasPrefix(cfg.Server.BaseURL, "http://") && !strings.HasPrefix(cfg.Server.BaseURL, "https://") {
		return fmt.Errorf("server.base_url must start with http:// or https://, got: %s", cfg.Server.BaseURL)
	}

	if cfg.Server.Auth.Enabled && cfg.Server.Auth.Secret == "" && len(cfg.Server.Auth.APIKeyHashes) == 0 {
		return fmt.Errorf("server.auth.enabled requires server.auth.secret or server.auth.api_key_hashes")
	}

	if !contains(validBackends, cfg.Analytics.Backend) {
		return fmt.Errorf("analytics.backend must be one of %s, got: %s",
			strings.Join(validBackends, ", "), cfg.Analytics.Backend)
	}
	if cfg.Analytics.Backend == "redis" && cfg.Analytics.Redis.Addr == "" {
		return fmt.Errorf("analytics.backend redis requires analytics.redis.addr")
	}
	if cfg.Analytics.Backend == "sqlite" && cfg.Analytics.SQLite.Path == "" {
		return fmt.Errorf("analytics.backend sqlite requires analytics.sqlite.path")
	}
	if cfg.Analytics.Backend == "postgres" && cfg.Analytics.Postgres.URL == "" {
		return fmt.Errorf("analytics.backend postgres requires analytics.postgres.url")
	}

	if !contains(validLogLevels, cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of %s, got: %s",
			strings.Join(validLogLevels, ", "), cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got: %s", cfg.Log.Format)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
