package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"airline_reservation/internal/config"
	"airline_reservation/internal/database"
	"airline_reservation/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger  *slog.Logger
	Config  *config.Config
	Service *services.ReservationService
	// Optional search cache
	cache *database.RedisClient
}

// NewContainer opens the configured store, loads the ledger and seeds the
// sample schedule when enabled.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{Logger: logger, Config: cfg}

	var opts []services.Option
	if cfg.CacheEnabled() {
		cache, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Warn("search cache disabled", "error", err)
		} else {
			c.cache = cache
			opts = append(opts, services.WithSearchCache(cache, cfg.SearchCacheTTL))
		}
	}

	c.Service = services.NewReservationService(database.NewLedger(store, logger), logger, opts...)
	if err := c.Service.Load(ctx); err != nil {
		store.Close()
		c.closeCache()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	if cfg.SeedSampleFlights {
		if n, err := c.Service.SeedSampleFlights(ctx); err != nil {
			logger.Error("failed to save sample flights", "error", err)
		} else if n > 0 {
			logger.Info("sample flights added", "flights", n)
		}
	}

	return c, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.RecordStore, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		store, err := database.NewPostgresStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, nil
	default:
		store, err := database.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Info("using file ledger store", "dir", cfg.DataDir)
		return store, nil
	}
}

func (c *Container) closeCache() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// Close saves the ledger and releases every connection
func (c *Container) Close(ctx context.Context) error {
	err := c.Service.Close(ctx)
	if cacheErr := c.closeCache(); cacheErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close Redis: %w", cacheErr))
	}
	return err
}
