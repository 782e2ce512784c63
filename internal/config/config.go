package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Server
	Port        string
	FrontendURL string

	// Redis event mirror (optional; empty disables it)
	RedisURL string

	// Game settings
	DisconnectGraceSeconds int
	GraceSweepSeconds      int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		RedisURL: getEnv("REDIS_URL", ""),

		DisconnectGraceSeconds: getEnvInt("DISCONNECT_GRACE_PERIOD_SECONDS", 30),
		GraceSweepSeconds:      getEnvInt("GRACE_SWEEP_SECONDS", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
