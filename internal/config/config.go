package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port        int
	LogLevel    string
	HTTPTimeout time.Duration

	// Database
	DBDriver         string // sqlite or postgres
	DatabaseURL      string
	SQLitePath       string
	DBMaxConcurrency int
	DBConnectRetries int
	DBConnectBackoff time.Duration

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Events
	AMQPURL      string
	AMQPExchange string

	// API protection
	JWTSecret          string
	CORSAllowedOrigins []string
}

var defaults = map[string]any{
	"PORT":                        8080,
	"LOG_LEVEL":                   "info",
	"HTTP_TIMEOUT":                "15s",
	"DB_DRIVER":                   "sqlite",
	"DATABASE_URL":                "",
	"SQLITE_PATH":                 "expenses.db",
	"DB_MAX_CONCURRENCY":          16,
	"DB_CONNECT_RETRIES":          5,
	"DB_CONNECT_BACKOFF":          "200ms",
	"CACHE_TTL":                   "1m",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"AMQP_URL":                    "",
	"AMQP_EXCHANGE":               "expenses.events",
	"JWT_SECRET":                  "",
	"CORS_ALLOWED_ORIGINS":        "*",
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return &Config{
		Port:        v.GetInt("PORT"),
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),
		HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),

		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		DBMaxConcurrency: v.GetInt("DB_MAX_CONCURRENCY"),
		DBConnectRetries: v.GetInt("DB_CONNECT_RETRIES"),
		DBConnectBackoff: v.GetDuration("DB_CONNECT_BACKOFF"),

		CacheTTL: v.GetDuration("CACHE_TTL"),

		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),

		JWTSecret:          v.GetString("JWT_SECRET"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if c.DBMaxConcurrency < 1 {
		errs = append(errs, errors.New("DB_MAX_CONCURRENCY must be at least 1"))
	}
	if c.DBConnectRetries < 0 {
		errs = append(errs, errors.New("DB_CONNECT_RETRIES must not be negative"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
