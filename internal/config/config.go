package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	// SaveDir is where file-backed saves live.
	SaveDir string

	// RedisURL enables the Redis save backend when non-empty.
	RedisURL string

	// GameFile is the default adventure database to load.
	GameFile string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		SaveDir:     getEnv("SAVE_DIR", "."),
		RedisURL:    getEnv("REDIS_URL", ""),
		GameFile:    getEnv("GAME_FILE", ""),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
