// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port              string
	OutputDir         string
	DBPath            string
	AllowedOrigin     string
	RelayPingInterval time.Duration
	SessionIndex      bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "5001"),
		OutputDir:         getEnv("OUTPUT_DIR", "./test_sessions"),
		DBPath:            getEnv("DB_PATH", "./data/eyenav.db"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "*"),
		RelayPingInterval: getEnvDuration("RELAY_PING_INTERVAL", 30*time.Second),
		SessionIndex:      getEnvBool("SESSION_INDEX_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR cannot be empty")
	}
	if c.SessionIndex && c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty when the session index is enabled")
	}
	if c.RelayPingInterval <= 0 {
		return fmt.Errorf("RELAY_PING_INTERVAL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env == "development"
	}
	return c.AllowedOrigin == "*" ||
		strings.Contains(c.AllowedOrigin, "localhost") ||
		strings.Contains(c.AllowedOrigin, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
		return d
	}
	return fallback
}
