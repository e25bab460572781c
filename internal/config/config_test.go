package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8081,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Media: MediaConfig{
			Secret:   "secret",
			TokenTTL: 4 * time.Hour,
		},
		Room: RoomConfig{
			EventBufferSize: 64,
			MaxNameLength:   64,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestServerAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:8081", cfg.Server.Addr())
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, "shutdown_timeout"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"empty secret", func(c *Config) { c.Media.Secret = "" }, "media.secret"},
		{"zero ttl", func(c *Config) { c.Media.TokenTTL = 0 }, "media.token_ttl"},
		{"zero buffer", func(c *Config) { c.Room.EventBufferSize = 0 }, "event_buffer_size"},
		{"zero name length", func(c *Config) { c.Room.MaxNameLength = 0 }, "max_name_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_JoinsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Media.Secret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "media.secret")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9090
logging:
  level: debug
  format: console
media:
  secret: file-secret
  token_ttl: 1h
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "file-secret", cfg.Media.Secret)
	assert.Equal(t, time.Hour, cfg.Media.TokenTTL)
	// Unset sections fall back to defaults.
	assert.Equal(t, 64, cfg.Room.EventBufferSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: shout
`), 0o600)
	require.NoError(t, err)

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
}
