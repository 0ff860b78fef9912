package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"airline_reservation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_ReplaceAndRead(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, dsn, discardLogger())
	require.NoError(t, err)
	defer store.Close()

	records := []string{"TXN1001|P1000|AI101|A1|1/1/2025|5500.000000|CONFIRMED", "TXN1002|P1000|AI101|B1|1/1/2025|5500.000000|CANCELLED"}
	require.NoError(t, store.WriteRecords(ctx, CollectionBookings, records))

	got, err := store.ReadRecords(ctx, CollectionBookings)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	require.NoError(t, store.WriteRecords(ctx, CollectionBookings, records[:1]))
	got, err = store.ReadRecords(ctx, CollectionBookings)
	require.NoError(t, err)
	assert.Equal(t, records[:1], got)
}

func TestGenerateSearchCacheKey_PartsDoNotCollide(t *testing.T) {
	assert.NotEqual(t,
		GenerateSearchCacheKey("A:B", "C", "1/1/2025"),
		GenerateSearchCacheKey("A", "B:C", "1/1/2025"))

	key := GenerateSearchCacheKey("New Delhi*", "Mumbai", "15/10/2025")
	assert.True(t, strings.HasPrefix(key, searchKeyPrefix))
	assert.NotContains(t, key, "*")
	assert.Equal(t, 3, strings.Count(key, ":"))
}

func TestRedisClient_SearchCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	client, err := NewRedisClient(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"), discardLogger())
	require.NoError(t, err)
	defer client.Close()

	key := GenerateSearchCacheKey("New Delhi", "Mumbai", "15/10/2025")
	flight := models.NewFlight("AI101", "Air India", "New Delhi", "Mumbai", "15/10/2025", "08:00", "10:30", 10, 5500)
	require.True(t, flight.BookSeat("A1"))

	require.NoError(t, client.SetJSON(ctx, key, []*models.Flight{flight}, time.Minute))

	var cached []*models.Flight
	require.NoError(t, client.GetJSON(ctx, key, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, 9, cached[0].AvailableSeatsCount())
	assert.False(t, cached[0].IsSeatAvailable("A1"))

	require.NoError(t, client.InvalidateSearches(ctx))
	err = client.GetJSON(ctx, key, &cached)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
