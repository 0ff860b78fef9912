package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by GetJSON when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

const searchKeyPrefix = "flight_search:"

// RedisClient represents the Redis client
type RedisClient struct {
	*redis.Client
	logger *slog.Logger
}

// NewRedisClient creates a new Redis client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, logger *slog.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0, // use default DB
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("connected to Redis", "addr", addr)
	return &RedisClient{Client: client, logger: logger}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.Client.Close()
}

// SetJSON sets a JSON value in Redis with expiration
func (rc *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return rc.Set(ctx, key, jsonData, expiration).Err()
}

// GetJSON gets a JSON value from Redis
func (rc *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrCacheMiss, key)
		}
		return fmt.Errorf("failed to get from Redis: %w", err)
	}

	return json.Unmarshal(data, dest)
}

// Delete removes keys from Redis
func (rc *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rc.Del(ctx, keys...).Err()
}

// InvalidateSearches drops every cached search result
func (rc *RedisClient) InvalidateSearches(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := rc.Scan(ctx, cursor, searchKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan search keys: %w", err)
		}
		if err := rc.Delete(ctx, keys...); err != nil {
			return fmt.Errorf("failed to delete search keys: %w", err)
		}
		removed += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	rc.logger.Debug("search cache invalidated", "keys", removed)
	return nil
}

// GenerateSearchCacheKey generates a cache key for flight search results (origin, destination, date).
// Each part is query-escaped so ':' and glob characters never appear inside a part.
func GenerateSearchCacheKey(origin, destination, date string) string {
	return fmt.Sprintf("%s%s:%s:%s", searchKeyPrefix,
		url.QueryEscape(origin), url.QueryEscape(destination), url.QueryEscape(date))
}
