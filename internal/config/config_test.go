package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load()
	req.NoError(err)

	req.Equal("0.0.0.0", cfg.Host)
	req.Equal(5000, cfg.Port)
	req.Equal(500, cfg.MaxMessageLength)
	req.Equal("chat.db", cfg.DatabasePath)
	req.Equal(50, cfg.HistoryLimit)
	req.Equal("info", cfg.LogLevel)
	req.Equal(30*time.Second, cfg.ShutdownTimeout)
	req.Equal("0.0.0.0:5000", cfg.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("MAX_MESSAGE_LENGTH", "120")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("HISTORY_LIMIT", "25")

	cfg, err := Load()
	req.NoError(err)

	req.Equal("127.0.0.1:8080", cfg.Addr())
	req.Equal(120, cfg.MaxMessageLength)
	req.Equal("/tmp/other.db", cfg.DatabasePath)
	req.Equal(25, cfg.HistoryLimit)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.Host = "" }},
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero max message length", func(c *Config) { c.MaxMessageLength = 0 }},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }},
		{"zero history limit", func(c *Config) { c.HistoryLimit = 0 }},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("PORT", "0")

	_, err := Load()
	require.Error(t, err)
}
