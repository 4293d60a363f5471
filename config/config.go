// Package config provides configuration loading and management for the
// Clarity client tooling.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete client configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Retry  RetryConfig  `yaml:"retry"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the Clarity server connection
type ServerConfig struct {
	// BaseURI is the API root, e.g. "https://lims.example.com/api/v2"
	BaseURI string `yaml:"base_uri"`
	// Username is the API account name
	Username string `yaml:"username"`
	// Password is the API account password
	Password string `yaml:"password"`
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig configures retry behavior for transient server failures
type RetryConfig struct {
	// MaxAttempts is the total number of tries per request (default: 3)
	MaxAttempts int `yaml:"max_attempts"`
	// BackoffBase is the wait before the first retry
	BackoffBase time.Duration `yaml:"backoff_base"`
	// BackoffMultiplier grows the wait between successive retries
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	// MaxBackoff caps the wait between retries
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// LogConfig configures logging output
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error" (default: "info")
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Timeout: 60 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			BackoffBase:       500 * time.Millisecond,
			BackoffMultiplier: 2.0,
			MaxBackoff:        10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.BaseURI == "" {
		return fmt.Errorf("server.base_uri is required")
	}
	if _, err := url.ParseRequestURI(c.Server.BaseURI); err != nil {
		return fmt.Errorf("server.base_uri is not a valid URL: %w", err)
	}
	if c.Server.Username == "" {
		return fmt.Errorf("server.username is required")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.BackoffMultiplier < 1 {
		return fmt.Errorf("retry.backoff_multiplier must be at least 1")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file can carry credentials, so keep it private to the owner.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.BaseURI != "" {
		c.Server.BaseURI = other.Server.BaseURI
	}
	if other.Server.Username != "" {
		c.Server.Username = other.Server.Username
	}
	if other.Server.Password != "" {
		c.Server.Password = other.Server.Password
	}
	if other.Server.Timeout != 0 {
		c.Server.Timeout = other.Server.Timeout
	}

	// Retry
	if other.Retry.MaxAttempts != 0 {
		c.Retry.MaxAttempts = other.Retry.MaxAttempts
	}
	if other.Retry.BackoffBase != 0 {
		c.Retry.BackoffBase = other.Retry.BackoffBase
	}
	if other.Retry.BackoffMultiplier != 0 {
		c.Retry.BackoffMultiplier = other.Retry.BackoffMultiplier
	}
	if other.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = other.Retry.MaxBackoff
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
