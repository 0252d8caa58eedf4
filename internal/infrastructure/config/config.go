// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for relations configuration.
	DefaultConfigDir = ".relations"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default ledger database file name.
	DefaultDatabaseFile = "relations.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	NATS   NATSConfig   `yaml:"nats,omitempty"`
	Redis  RedisConfig  `yaml:"redis,omitempty"`
	Verify VerifyConfig `yaml:"verify,omitempty"`
}

// SQLiteConfig holds configuration for the assertion store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// NATSConfig holds configuration for the change-event publisher. An empty
// URL disables the JetStream notifier; events are then only logged.
type NATSConfig struct {
	URL    string `yaml:"url,omitempty"`
	Stream string `yaml:"stream,omitempty"`
}

// RedisConfig holds configuration for the aggregate-view cache. An empty
// address disables caching.
type RedisConfig struct {
	Addr       string `yaml:"addr,omitempty"`
	Password   string `yaml:"password,omitempty"`
	DB         int    `yaml:"db,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds,omitempty"`
}

// TTL returns the cache entry lifetime.
func (c RedisConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// VerifyConfig holds configuration for resource-existence checks.
type VerifyConfig struct {
	// Disabled turns off all existence checks (useful for bulk imports).
	Disabled bool `yaml:"disabled,omitempty"`
	// TimeoutSeconds bounds a single check attempt.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	// MaxRetries bounds retry attempts before reporting unreachable.
	MaxRetries int `yaml:"max_retries,omitempty"`
	// DOIBaseURL is the resolver used for DOI checks.
	DOIBaseURL string `yaml:"doi_base_url,omitempty"`
}

// Timeout returns the per-attempt timeout.
func (c VerifyConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Retries returns the bounded retry count.
func (c VerifyConfig) Retries() int {
	if c.MaxRetries <= 0 {
		return 2
	}
	return c.MaxRetries
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			Stream: "RELATIONS",
		},
		Redis: RedisConfig{
			TTLSeconds: 300,
		},
		Verify: VerifyConfig{
			TimeoutSeconds: 10,
			MaxRetries:     2,
			DOIBaseURL:     "https://doi.org",
		},
	}
}

// Load loads configuration from the .relations directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'relations init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DatabasePath(basePath)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// DatabasePath returns the default ledger database location under basePath.
func DatabasePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RELATIONS_DB_PATH"); v != "" {
		c.SQLite.Path = v
	}
	if v := os.Getenv("RELATIONS_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("RELATIONS_NATS_STREAM"); v != "" {
		c.NATS.Stream = v
	}
	if v := os.Getenv("RELATIONS_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("RELATIONS_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RELATIONS_VERIFY_DISABLED"); v != "" {
		if disabled, err := strconv.ParseBool(v); err == nil {
			c.Verify.Disabled = disabled
		}
	}
}
