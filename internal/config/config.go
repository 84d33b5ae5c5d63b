package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	ServerPort       string
	FrontendURL      string
	OpenAIKey        string
	AIProvider       string
	AIModel          string
	AIBaseURL        string
	RedisURL         string
	RabbitMQURL      string
	RateLimit        string
	EnableHSTS       bool
	ServerDebugMode  bool
	WorkerDebugMode  bool
	WorkerStatusPort string
	OTELEnabled      bool
	OTELEndpoint     string

	// Automation loop tuning
	SyncHour           int // hour of day the nightly sync aligns to (0 = midnight)
	UrgentItemsPerSync int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		AIProvider:         getEnv("AI_PROVIDER", "openai"),
		AIModel:            getEnv("AI_MODEL", ""),
		AIBaseURL:          getEnv("AI_BASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RateLimit:          getEnv("RATE_LIMIT", "5-S"),
		EnableHSTS:         getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode:    getEnvBool("SERVER_DEBUG_MODE", false),
		WorkerDebugMode:    getEnvBool("WORKER_DEBUG_MODE", false),
		WorkerStatusPort:   getEnv("WORKER_STATUS_PORT", "8090"),
		OTELEnabled:        getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SyncHour:           getEnvInt("SYNC_HOUR", 0),
		UrgentItemsPerSync: getEnvInt("URGENT_ITEMS_PER_SYNC", 3),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for manual sync triggers")
	}

	if cfg.SyncHour < 0 || cfg.SyncHour > 23 {
		return nil, fmt.Errorf("SYNC_HOUR must be between 0 and 23, got %d", cfg.SyncHour)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
