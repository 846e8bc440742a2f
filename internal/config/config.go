// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultWebhookTimeout bounds the outbound chat webhook call when
// CHAT_WEBHOOK_TIMEOUT_MS is not set.
const defaultWebhookTimeout = 15000 * time.Millisecond

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (Expo dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// ChatWebhookURL is the endpoint that produces chatbot replies.
	// Optional: when empty, sending a chat message yields a local
	// configuration-warning reply instead of a network call.
	ChatWebhookURL string

	// ChatWebhookTimeout bounds each outbound webhook call. Set
	// CHAT_WEBHOOK_TIMEOUT_MS (milliseconds) to override; defaults to 15s.
	ChatWebhookTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081")),
		ChatWebhookURL:     os.Getenv("CHAT_WEBHOOK_URL"),
		ChatWebhookTimeout: defaultWebhookTimeout,
	}

	if raw := os.Getenv("CHAT_WEBHOOK_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("CHAT_WEBHOOK_TIMEOUT_MS must be a positive integer, got %q", raw)
		}
		cfg.ChatWebhookTimeout = time.Duration(ms) * time.Millisecond
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
