package container

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"airline_reservation/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer_FileBackendSeedsAndSaves(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataDir: dir, StoreBackend: config.BackendFile, SeedSampleFlights: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	c, err := NewContainer(ctx, cfg, logger)
	require.NoError(t, err)
	assert.Len(t, c.Service.ListFlights(ctx), 5)
	require.NoError(t, c.Close(ctx))

	for _, name := range []string{"admins.txt", "flights.txt", "passengers.txt", "bookings.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// A second start keeps the existing schedule.
	c, err = NewContainer(ctx, cfg, logger)
	require.NoError(t, err)
	assert.Len(t, c.Service.ListFlights(ctx), 5)
	require.NoError(t, c.Close(ctx))
}

func TestNewContainer_MalformedLedgerFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flights.txt"), []byte("AI101|broken\n"), 0o644))

	cfg := &config.Config{DataDir: dir, StoreBackend: config.BackendFile}
	_, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
