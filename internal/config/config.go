package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"purchase-sale-backend/internal/logger"
)

const (
	defaultCORSOrigins = "http://localhost:5173"
	minJWTSecretLength = 32
)

type Config struct {
	HTTPPort             string
	DatabaseDSN          string // empty: bills go to the log persister
	JWTSecret            string
	CORSOrigins          string
	OperatorPasswordHash string // bcrypt; empty disables the password check
	SessionTTL           time.Duration
	AddRowKey            string

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:          getEnv("DATABASE_DSN", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		AddRowKey:            getEnv("ADD_ROW_KEY", "F2"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:            getEnv("LOG_OUTPUT", "stdout"),
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.SessionTTL = ttl

	return cfg, nil
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	return nil
}

// Warnings lists settings that are fine for development but not production.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDSN == "" {
		out = append(out, "DATABASE_DSN is not set, saved bills are only logged")
	}
	if c.OperatorPasswordHash == "" {
		out = append(out, "OPERATOR_PASSWORD_HASH is not set, login accepts any password")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	return out
}

// AllowedOrigins returns the trimmed CORS origin list.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
