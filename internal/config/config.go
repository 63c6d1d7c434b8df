package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration for the API.
type Config struct {
	Port string
	Env  string

	DatabaseURL string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	BcryptCost int

	AllowedOrigins []string
	LogLevel       string
}

const minSecretLength = 32

// Load reads configuration from environment variables. DATABASE_URL,
// JWT_SECRET and JWT_REFRESH_SECRET are required; everything else has a
// development default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "3001"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters long", minSecretLength)
	}

	cfg.JWTRefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
	if len(cfg.JWTRefreshSecret) < minSecretLength {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET must be at least %d characters long", minSecretLength)
	}

	var err error

	if cfg.AccessTokenTTL, err = time.ParseDuration(getEnv("JWT_EXPIRES_IN", "15m")); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}

	if cfg.RefreshTokenTTL, err = time.ParseDuration(getEnv("JWT_REFRESH_EXPIRES_IN", "168h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRES_IN: %w", err)
	}

	if cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "12")); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	// ALLOWED_ORIGINS replaces the development defaults entirely, so a
	// production deployment never keeps accepting localhost.
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
