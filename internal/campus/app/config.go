package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer    string        // Issuer claim for access tokens
	TokenTTL  time.Duration // Access token lifetime (default: 24h)
	TokenSeed string        // Optional: hex-encoded 32-byte ed25519 seed; empty means an ephemeral key

	DatabaseFile string // Path to SQLite database file (default: ./campus.db)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Event lifecycle sweep interval (default: 1m)
}

func LoadConfig() Config {
	// A .env file is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:               getEnvOrDefault("CAMPUS_ISSUER", "campushub"),
		TokenTTL:             getEnvDurationOrDefault("CAMPUS_TOKEN_TTL", 24*time.Hour),
		TokenSeed:            os.Getenv("CAMPUS_TOKEN_SEED"),
		DatabaseFile:         getEnvOrDefault("CAMPUS_DATABASE_FILE", "campus.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
