// Package config loads server settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mmynk/splitty/internal/exchange"
)

// Config holds the server settings.
type Config struct {
	Port      int
	DBPath    string
	RedisAddr string
	RatesURL  string
	RatesTTL  time.Duration

	JWTSecret     string
	AdminPassword string
	TokenTTL      time.Duration

	LogLevel  string
	LogFormat string

	// GeneratedPassword is set when AdminPassword was not configured and had to be generated.
	GeneratedPassword bool
}

// PasswordGenerator produces an admin password when none is configured.
type PasswordGenerator func() (string, error)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the configuration from environment variables.
func Load(generate PasswordGenerator) (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "./data/splitty.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RatesURL:      getEnv("RATES_URL", exchange.DefaultRatesURL),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	if cfg.RatesTTL, err = duration("RATES_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = duration("TOKEN_TTL", "12h"); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(secret)
	}

	if cfg.AdminPassword == "" {
		password, err := generate()
		if err != nil {
			return nil, err
		}
		cfg.AdminPassword = password
		cfg.GeneratedPassword = true
	}

	return cfg, nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func duration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
