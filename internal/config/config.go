package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/storefront/internal/favorites/slot"
	"github.com/tair/storefront/pkg/logger"
)

// CatalogConfig holds configuration for the remote product catalog
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

// RateLimitConfig holds the per-client API rate limit. An empty RedisAddr
// disables it.
type RateLimitConfig struct {
	RedisAddr   string
	MaxRequests int
	Window      time.Duration
}

// LoginConfig holds the placeholder login credentials
type LoginConfig struct {
	Email    string
	Password string
}

// Config holds the storefront service configuration
type Config struct {
	ServiceName  string
	Environment  string
	LogLevel     string
	HTTPPort     string
	Slot         slot.Config
	Catalog      CatalogConfig
	Tracing      TracingConfig
	KafkaBrokers []string
	RateLimit    RateLimitConfig
	Login        LoginConfig
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront-service"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8081"),
		Slot: slot.Config{
			Kind:          getEnv("FAVORITES_SLOT", slot.KindBolt),
			Path:          getEnv("FAVORITES_PATH", "./data/favorites.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
			Timeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:        getEnvBool("TRACING_ENABLED", true),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		RateLimit: RateLimitConfig{
			RedisAddr:   getEnv("RATE_LIMIT_REDIS_ADDR", ""),
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
			Window:      getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Login: LoginConfig{
			Email:    getEnv("LOGIN_EMAIL", "admin@admin"),
			Password: getEnv("LOGIN_PASSWORD", "123456"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean, using default")
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
