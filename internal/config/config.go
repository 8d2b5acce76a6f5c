// Package config loads server configuration from environment variables.
//
// TWELVE-FACTOR CONFIG:
// Everything configurable lives in env vars with sensible local-dev defaults,
// so the same binary runs unchanged on a laptop and in production. For local
// development a .env file in the working directory is honoured (godotenv) —
// it is optional, and real environment variables always win because godotenv
// never overwrites a variable that is already set.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port           int
	DataDir        string     // directory holding users.json and the per-user bundles
	StaticDir      string     // UI shell files, served as-is ("" disables static serving)
	AllowedOrigins []string   // CORS allow-list for the separately-served frontend
	LogLevel       slog.Level
}

// Load reads the configuration, consulting an optional .env file first.
func Load() *Config {
	// Missing .env is the normal case outside local dev — ignore the error.
	_ = godotenv.Load()

	return &Config{
		Port:           getInt("PORT", 8080),
		DataDir:        getEnv("DATA_DIR", "data"),
		StaticDir:      getEnv("STATIC_DIR", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
