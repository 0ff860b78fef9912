package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DATA_DIR", "STORE_BACKEND", "DATABASE_URL", "REDIS_ADDR", "SEARCH_CACHE_TTL", "API_PORT", "ENVIRONMENT", "LOG_LEVEL", "SEED_SAMPLE_FLIGHTS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, 2*time.Hour, cfg.SearchCacheTTL)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.SeedSampleFlights)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/airline")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/airline?sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SEARCH_CACHE_TTL", "15m")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED_SAMPLE_FLIGHTS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 15*time.Minute, cfg.SearchCacheTTL)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CacheEnabled())
	assert.False(t, cfg.SeedSampleFlights)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres", "DATABASE_URL": ""}},
		{"unknown backend", map[string]string{"STORE_BACKEND": "mongo"}},
		{"bad ttl", map[string]string{"STORE_BACKEND": "", "SEARCH_CACHE_TTL": "soon"}},
		{"bad seed flag", map[string]string{"STORE_BACKEND": "", "SEARCH_CACHE_TTL": "", "SEED_SAMPLE_FLIGHTS": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Environment: "production", LogLevel: "info"}, &buf)

	logger.Debug("hidden")
	logger.Info("seat booked", "flight", "AI101")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"flight":"AI101"`)
}
