package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcharge/backend/libs/config"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Port            string        `yaml:"port" env:"BOOKING_HTTP_PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"BOOKING_HTTP_SHUTDOWN_TIMEOUT"`
}

// LiveFeedConfig holds websocket feed settings. An empty origin list accepts any origin.
type LiveFeedConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins" env:"BOOKING_WS_ALLOWED_ORIGINS"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend   string `yaml:"backend" env:"BOOKING_STORE_BACKEND"`
	KeyPrefix string `yaml:"keyPrefix" env:"BOOKING_STORE_KEY_PREFIX"`
	Seed      bool   `yaml:"seed" env:"BOOKING_STORE_SEED"`
}

// DatabaseConfig holds the Postgres connection.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" env:"BOOKING_POSTGRES_DSN"`
	MaxOpenConns int    `yaml:"maxOpenConns" env:"BOOKING_POSTGRES_MAX_OPEN_CONNS"`
}

// RedisConfig holds the Redis connection.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"BOOKING_REDIS_ADDR"`
	Password string `yaml:"password" env:"BOOKING_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"BOOKING_REDIS_DB"`
}

// AuthConfig holds session token and demo login settings.
type AuthConfig struct {
	JWTSecret        string `yaml:"jwtSecret" env:"BOOKING_JWT_SECRET"`
	ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"BOOKING_JWT_EXPIRES_MINUTES"`
	DemoPassword     string `yaml:"demoPassword" env:"BOOKING_DEMO_PASSWORD"`
}

// BookingConfig holds the cost model and lifecycle timings.
type BookingConfig struct {
	KWhPerHour           float64 `yaml:"kwhPerHour" env:"BOOKING_KWH_PER_HOUR"`
	FallbackPricePerKWh  float64 `yaml:"fallbackPricePerKwh" env:"BOOKING_FALLBACK_PRICE_PER_KWH"`
	PaymentDelayMillis   int     `yaml:"paymentDelayMillis" env:"BOOKING_PAYMENT_DELAY_MS"`
	SweepIntervalSeconds int     `yaml:"sweepIntervalSeconds" env:"BOOKING_SWEEP_INTERVAL_SECONDS"`
}

// Config represents booking service configuration loaded from YAML/env.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
	LiveFeed LiveFeedConfig `yaml:"liveFeed"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		HTTP:  HTTPConfig{Port: "8085", ShutdownTimeout: 10 * time.Second},
		Store: StoreConfig{Backend: StoreMemory, KeyPrefix: "", Seed: true},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Auth: AuthConfig{
			JWTSecret:        "evcharge-dev-secret",
			ExpiresInMinutes: 60,
			DemoPassword:     "password",
		},
		Booking: BookingConfig{
			KWhPerHour:           40,
			FallbackPricePerKWh:  0.89,
			PaymentDelayMillis:   2000,
			SweepIntervalSeconds: 60,
		},
	}
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend requirements and numeric ranges.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "":
		c.Store.Backend = StoreMemory
	case StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("config: redis addr is required for the redis store")
		}
	case StorePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("config: database DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.Auth.DemoPassword == "" {
		return errors.New("config: demo password is required")
	}
	if c.Booking.KWhPerHour <= 0 {
		return errors.New("config: kwh per hour must be positive")
	}
	if c.Booking.FallbackPricePerKWh <= 0 {
		return errors.New("config: fallback price must be positive")
	}
	if c.Booking.PaymentDelayMillis < 0 {
		return errors.New("config: payment delay cannot be negative")
	}
	if c.Auth.ExpiresInMinutes <= 0 {
		c.Auth.ExpiresInMinutes = 60
	}
	if c.Booking.SweepIntervalSeconds <= 0 {
		c.Booking.SweepIntervalSeconds = 60
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8085"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.Auth.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.ExpiresInMinutes) * time.Minute
}

// PaymentDelay returns the simulated gateway delay.
func (c *Config) PaymentDelay() time.Duration {
	return time.Duration(c.Booking.PaymentDelayMillis) * time.Millisecond
}

// SweepInterval returns the completion sweeper period.
func (c *Config) SweepInterval() time.Duration {
	if c.Booking.SweepIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Booking.SweepIntervalSeconds) * time.Second
}
