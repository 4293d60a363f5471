package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validConfig is a default config completed with the required connection
// settings.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Server.BaseURI = "https://lims.example.com/api/v2"
	cfg.Server.Username = "apiuser"
	cfg.Server.Password = "apipass"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Timeout != 60*time.Second {
		t.Errorf("expected default timeout 60s, got %v", cfg.Server.Timeout)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BackoffMultiplier != 2.0 {
		t.Errorf("expected default backoff multiplier 2.0, got %f", cfg.Retry.BackoffMultiplier)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "complete config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing base URI",
			modify:  func(c *Config) { c.Server.BaseURI = "" },
			wantErr: true,
		},
		{
			name:    "malformed base URI",
			modify:  func(c *Config) { c.Server.BaseURI = "not a url" },
			wantErr: true,
		},
		{
			name:    "missing username",
			modify:  func(c *Config) { c.Server.Username = "" },
			wantErr: true,
		},
		{
			name:    "zero max attempts",
			modify:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "shrinking backoff",
			modify:  func(c *Config) { c.Retry.BackoffMultiplier = 0.5 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  base_uri: "https://lims.test/api/v2"
  username: "robot"
  password: "secret"
  timeout: 90s
retry:
  max_attempts: 5
  backoff_base: 250ms
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Server.BaseURI != "https://lims.test/api/v2" {
		t.Errorf("expected base URI https://lims.test/api/v2, got %s", cfg.Server.BaseURI)
	}
	if cfg.Server.Username != "robot" {
		t.Errorf("expected username robot, got %s", cfg.Server.Username)
	}
	if cfg.Server.Timeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", cfg.Server.Timeout)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected 5 max attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BackoffBase != 250*time.Millisecond {
		t.Errorf("expected backoff base 250ms, got %v", cfg.Retry.BackoffBase)
	}
	// Unset fields keep their defaults
	if cfg.Retry.MaxBackoff != 10*time.Second {
		t.Errorf("expected default max backoff 10s, got %v", cfg.Retry.MaxBackoff)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadFromFileMissingFileIsNotExist(t *testing.T) {
	// The wrap must keep the not-exist sentinel reachable so the loader
	// can stay quiet about a simply-absent optional config file.
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected error to match os.ErrNotExist, got %v", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := validConfig()
	override := &Config{
		Server: ServerConfig{
			BaseURI: "https://other.example.com/api/v2",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}

	base.Merge(override)

	if base.Server.BaseURI != "https://other.example.com/api/v2" {
		t.Errorf("expected overridden base URI, got %s", base.Server.BaseURI)
	}
	// Username should remain from base since override didn't set it
	if base.Server.Username != "apiuser" {
		t.Errorf("expected username to remain apiuser, got %s", base.Server.Username)
	}
	if base.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", base.Log.Level)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := validConfig()
	cfg.Log.Level = "error"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Log.Level != "error" {
		t.Errorf("expected log level error, got %s", loaded.Log.Level)
	}
}

func TestEnvOverridesWinOverFiles(t *testing.T) {
	t.Setenv(EnvBaseURI, "https://env.example.com/api/v2")
	t.Setenv(EnvUsername, "envuser")
	t.Setenv(EnvPassword, "envpass")

	loader := NewLoader(nil)
	cfg := validConfig()
	loader.applyEnv(cfg)

	if cfg.Server.BaseURI != "https://env.example.com/api/v2" {
		t.Errorf("expected env base URI, got %s", cfg.Server.BaseURI)
	}
	if cfg.Server.Username != "envuser" {
		t.Errorf("expected env username, got %s", cfg.Server.Username)
	}
	if cfg.Server.Password != "envpass" {
		t.Errorf("expected env password, got %s", cfg.Server.Password)
	}
}
