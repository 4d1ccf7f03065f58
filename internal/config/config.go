// Package config provides environment-driven configuration with defaults,
// validated on startup so misconfiguration fails fast.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Sources SourcesConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        // SERVER_HOST, default 0.0.0.0
	Port            int           // SERVER_PORT, default 8080
	ReadTimeout     time.Duration // SERVER_READ_TIMEOUT, default 15s
	WriteTimeout    time.Duration // SERVER_WRITE_TIMEOUT, default 30s
	IdleTimeout     time.Duration // SERVER_IDLE_TIMEOUT, default 60s
	RequestTimeout  time.Duration // SERVER_REQUEST_TIMEOUT, default 60s
	ShutdownTimeout time.Duration // SERVER_SHUTDOWN_TIMEOUT, default 30s
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SourcesConfig holds the three feed locations. Primary is required; the
// supplemental and item feeds are optional.
type SourcesConfig struct {
	PrimaryURL      string        // PRIMARY_CSV_URL (required)
	SupplementalURL string        // SUPPLEMENTAL_CSV_URL
	ItemsURL        string        // ITEMS_CSV_URL
	RefreshInterval time.Duration // REFRESH_INTERVAL, default 5m, 0 disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string // LOG_LEVEL: debug, info, warn, error (default info)
	Format string // LOG_FORMAT: json or console (default json)
}

// Load reads configuration from environment variables, applies defaults,
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Server.Host = stringEnv("SERVER_HOST", "0.0.0.0")
	if cfg.Server.Port, err = intEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = durationEnv("SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = durationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = durationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.RequestTimeout, err = durationEnv("SERVER_REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.ShutdownTimeout, err = durationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.Sources.PrimaryURL = os.Getenv("PRIMARY_CSV_URL")
	cfg.Sources.SupplementalURL = os.Getenv("SUPPLEMENTAL_CSV_URL")
	cfg.Sources.ItemsURL = os.Getenv("ITEMS_CSV_URL")
	if cfg.Sources.RefreshInterval, err = durationEnv("REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")
	cfg.Logging.Format = stringEnv("LOG_FORMAT", "json")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.Sources.PrimaryURL == "" {
		return fmt.Errorf("PRIMARY_CSV_URL is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port)
	}
	if c.Sources.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	return nil
}

func stringEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func intEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s=%q: %w", name, v, err)
	}
	return i, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s=%q: %w", name, v, err)
	}
	return d, nil
}
