package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/taxsim-backend/internal/domain"
)

const (
	defaultGRPCAddr        = ":8080"
	defaultAPIToken        = "dev-token"
	defaultLogLevel        = "info"
	defaultRateLimitRPS    = 10
	defaultRateLimitBurst  = 20
	defaultCacheTTLSeconds = 300
)

// Config keeps the runtime configuration for the simulation server.
type Config struct {
	GRPCAddr  string
	APIToken  string
	LogLevel  logrus.Level
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Defaults  domain.SimulationConfig
}

// RateLimitConfig controls the token bucket shared by all RPCs.
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// CacheConfig stores result cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

// TTL renders the configured lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoadDotEnv seeds the environment from a .env file in the working directory or its parent.
// A missing file is not an error; variables already set are never overwritten.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil {
		err = godotenv.Load("../.env")
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	level, err := logrus.ParseLevel(getString("LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	rps, err := getInt("RATE_LIMIT_RPS", defaultRateLimitRPS)
	if err != nil {
		return nil, fmt.Errorf("parse RATE_LIMIT_RPS: %w", err)
	}
	burst, err := getInt("RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return nil, fmt.Errorf("parse RATE_LIMIT_BURST: %w", err)
	}
	if rps <= 0 || burst <= 0 {
		return nil, errors.New("rate limit values must be positive")
	}

	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}
	if cacheTTL <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}

	initialValue, err := getDecimal("DEFAULT_INITIAL_VALUE", domain.DefaultInitialValue)
	if err != nil {
		return nil, fmt.Errorf("parse DEFAULT_INITIAL_VALUE: %w", err)
	}
	days, err := getInt("DEFAULT_DAYS", domain.DefaultDays)
	if err != nil {
		return nil, fmt.Errorf("parse DEFAULT_DAYS: %w", err)
	}
	taxRate, err := getDecimal("DEFAULT_TAX_RATE", domain.DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("parse DEFAULT_TAX_RATE: %w", err)
	}

	defaults := domain.SimulationConfig{InitialValue: initialValue, Days: days, TaxRate: taxRate}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation defaults: %w", err)
	}

	return &Config{
		GRPCAddr:  getString("GRPC_ADDR", defaultGRPCAddr),
		APIToken:  getString("API_TOKEN", defaultAPIToken),
		LogLevel:  level,
		RateLimit: RateLimitConfig{RPS: rps, Burst: burst},
		Cache:     CacheConfig{TTLSeconds: cacheTTL},
		Defaults:  defaults,
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert %s value %q to decimal: %w", key, value, err)
	}
	return parsed, nil
}
