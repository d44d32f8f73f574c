// Package config provides environment configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the runtime configuration for the SnapBoard server.
type Config struct {
	Port         int
	PublicURL    string
	DatabaseURL  string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	SessionTTL   time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	if err := ValidateEnv([]string{"DATABASE_URL"}); err != nil {
		return nil, err
	}

	port, _ := strconv.Atoi(GetEnvOrDefault("PORT", "8080"))
	redisDB, _ := strconv.Atoi(GetEnvOrDefault("REDIS_DB", "0"))

	return &Config{
		Port:         port,
		PublicURL:    GetEnvOrDefault("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", port)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:      redisDB,
		SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}, nil
}

// ValidateEnv validates that all required environment variables are set
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
