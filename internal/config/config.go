package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	MongoURI        string
	MongoDatabase   string
	SecretKey       string
	Host            string
	Port            string
	SessionDuration time.Duration
	LogLevel        string
	Env             string
}

func Load() *Config {
	cfg := &Config{
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "gearbay"),
		SecretKey:       getEnv("SECRET_KEY", "your-secret-key-change-this-in-production"),
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "8080"),
		SessionDuration: getDurationEnv("SESSION_DURATION", 168*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		Env:             getEnv("ENV", "production"),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
