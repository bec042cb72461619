package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSessionSecret = "dev-secret-change-in-production"

type Config struct {
	Port            string
	Env             string
	StoreDriver     string
	DatabaseDSN     string
	SessionSecret   string
	SessionTTL      time.Duration
	MockDelay       time.Duration
	MockFailureRate float64
	RateLimitRPS    float64
	RateLimitBurst  int
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		StoreDriver:     getEnv("STORE_DRIVER", "sqlite"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "passkeep.db"),
		SessionSecret:   getEnv("SESSION_SECRET", devSessionSecret),
		SessionTTL:      getDuration("SESSION_TTL", 12*time.Hour),
		MockDelay:       getDuration("MOCK_DELAY", 1500*time.Millisecond),
		MockFailureRate: getFloat("MOCK_FAILURE_RATE", 0.5),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.Env == "production" && cfg.SessionSecret == devSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}
