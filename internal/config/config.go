// internal/config/config.go
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"bithero/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config
	RedisURL   string // Optional; empty disables the availability rate limiter
	JWTSecret  string
	// AvailabilityRateLimitPerMinute caps username availability checks per
	// caller per minute. Zero disables limiting.
	AvailabilityRateLimitPerMinute int
}

// LoadConfig loads configuration from environment variables, with an
// optional .env file in the working directory for local development.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "bithero")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AVAILABILITY_RATE_LIMIT_PER_MINUTE", 30)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No .env file is fine; environment variables still apply.
	}

	cfg := &AppConfig{
		ServerPort: v.GetString("SERVER_PORT"),
		DB: db.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RedisURL:                       v.GetString("REDIS_URL"),
		JWTSecret:                      v.GetString("JWT_SECRET"),
		AvailabilityRateLimitPerMinute: v.GetInt("AVAILABILITY_RATE_LIMIT_PER_MINUTE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}
