// Package config loads application settings from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"financeai/internal/logger"
)

// Config holds the application-level settings. Database connection
// parameters live in the database package.
type Config struct {
	Env       string
	Port      string
	JWTSecret string
}

var appConfig *Config

// Load reads settings from the environment, loading .env first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug("no .env file found, using process environment")
	}

	appConfig = &Config{
		Env:       getEnv("ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}
	return appConfig, nil
}

// Get returns the loaded configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		appConfig, _ = Load()
	}
	return appConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
