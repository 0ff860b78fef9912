package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds the runtime settings of the reservation programs
type Config struct {
	DataDir           string
	StoreBackend      string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	SearchCacheTTL    time.Duration
	APIPort           string
	Environment       string
	LogLevel          string
	SeedSampleFlights bool
}

// LoadConfig reads the configuration from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DataDir:       getEnvWithDefault("DATA_DIR", "."),
		StoreBackend:  strings.ToLower(getEnvWithDefault("STORE_BACKEND", BackendFile)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		APIPort:       getEnvWithDefault("API_PORT", "8080"),
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(getEnvWithDefault("SEARCH_CACHE_TTL", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL: %w", err)
	}
	cfg.SearchCacheTTL = ttl

	seed, err := strconv.ParseBool(getEnvWithDefault("SEED_SAMPLE_FLIGHTS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_SAMPLE_FLIGHTS: %w", err)
	}
	cfg.SeedSampleFlights = seed

	// Validate required fields
	switch cfg.StoreBackend {
	case BackendFile:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CacheEnabled reports whether search results go through Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Level parses LogLevel, falling back to info
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the application logger: JSON in production, text otherwise
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.Level(),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: cfg.Level(),
		})
	}

	return slog.New(handler)
}
