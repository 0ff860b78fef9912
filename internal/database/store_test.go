package database

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"airline_reservation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) (*Ledger, *FileStore) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewLedger(store, discardLogger()), store
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	passengers, err := ledger.LoadPassengers(ctx)
	require.NoError(t, err)
	assert.Empty(t, passengers)

	flights, err := ledger.LoadFlights(ctx)
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestFileStore_WritesOneLinePerRecord(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	admins := []*models.Admin{
		{ID: "ADM1000", Password: "admin123", Name: "System Admin", Email: "admin@airline.com", Level: "SUPER"},
		{ID: "ADM1001", Password: "pw12", Name: "Ops", Email: "ops@airline.com", Level: "STANDARD"},
	}
	require.NoError(t, ledger.SaveAdmins(ctx, admins))

	data, err := os.ReadFile(store.Path(CollectionAdmins))
	require.NoError(t, err)
	assert.Equal(t,
		"ADM1000|admin123|System Admin|admin@airline.com|SUPER\n"+
			"ADM1001|pw12|Ops|ops@airline.com|STANDARD\n",
		string(data))

	loaded, err := ledger.LoadAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, admins, loaded)
}

func TestLedger_RoundTripAllCollections(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	flight := models.NewFlight("AI101", "Air India", "New Delhi", "Mumbai", "15/10/2025", "08:00", "10:30", 10, 5500)
	require.True(t, flight.BookSeat("A1"))
	require.True(t, flight.BookSeat("B1"))

	passenger := &models.Passenger{
		ID: "P1000", Password: "pass", Name: "Jane", Email: "jane@example.com",
		Phone: "9876543210", PassportNumber: "X1", BookingIDs: []string{"TXN1001", "TXN1002"},
	}
	bookings := []*models.Booking{
		{ID: "TXN1001", PassengerID: "P1000", FlightNumber: "AI101", SeatNumber: "A1", BookingDate: "1/1/2025", Fare: 5500, Status: models.BookingStatusConfirmed},
		{ID: "TXN1002", PassengerID: "P1000", FlightNumber: "AI101", SeatNumber: "B1", BookingDate: "1/1/2025", Fare: 5500, Status: models.BookingStatusConfirmed},
	}

	require.NoError(t, ledger.SaveFlights(ctx, []*models.Flight{flight}))
	require.NoError(t, ledger.SavePassengers(ctx, []*models.Passenger{passenger}))
	require.NoError(t, ledger.SaveBookings(ctx, bookings))

	flights, err := ledger.LoadFlights(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, 8, flights[0].AvailableSeatsCount())
	assert.False(t, flights[0].IsSeatAvailable("A1"))
	assert.Equal(t, flight.AvailableSeats(), flights[0].AvailableSeats())

	passengers, err := ledger.LoadPassengers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*models.Passenger{passenger}, passengers)

	loadedBookings, err := ledger.LoadBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, bookings, loadedBookings)
}

func TestLedger_SaveReplacesPreviousContent(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	first := []*models.Admin{{ID: "ADM1000", Password: "a", Name: "A", Email: "a@x.com", Level: "SUPER"}}
	require.NoError(t, ledger.SaveAdmins(ctx, first))
	require.NoError(t, ledger.SaveAdmins(ctx, nil))

	admins, err := ledger.LoadAdmins(ctx)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestLedger_MalformedLineReportsPosition(t *testing.T) {
	ledger, store := newTestLedger(t)

	content := "TXN1001|P1000|AI101|A1|1/1/2025|5500|CONFIRMED\n\nTXN1002|broken\n"
	require.NoError(t, os.WriteFile(store.Path(CollectionBookings), []byte(content), 0o644))

	_, err := ledger.LoadBookings(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "bookings record 3")
}

func TestLedger_AcceptsCRLFFiles(t *testing.T) {
	ledger, store := newTestLedger(t)

	content := "ADM1000|admin123|System Admin|admin@airline.com|SUPER\r\n"
	require.NoError(t, os.WriteFile(store.Path(CollectionAdmins), []byte(content), 0o644))

	admins, err := ledger.LoadAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "SUPER", admins[0].Level)
}

func TestFileStore_WriteFailureIsSurfaced(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	// A directory where the collection file should be makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "flights.txt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flights.txt", "keep"), nil, 0o644))

	err = store.WriteRecords(context.Background(), CollectionFlights, []string{"x"})
	assert.Error(t, err)
}
