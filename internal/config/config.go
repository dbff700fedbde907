package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, populated from the environment.
// Variable names match the original deployment surface (HOST, PORT,
// MAX_MESSAGE_LENGTH) so existing env files keep working.
type Config struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"5000"`

	// MaxMessageLength is measured in runes, not bytes.
	MaxMessageLength int `envconfig:"MAX_MESSAGE_LENGTH" default:"500"`

	DatabasePath string `envconfig:"DATABASE_PATH" default:"chat.db"`

	// HistoryLimit caps how many stored messages are replayed to a joiner.
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"50"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"14"`

	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads configuration from the environment with defaults applied.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would fail at runtime.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max message length must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
