package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"airline_reservation/internal/database"
	"airline_reservation/internal/models"
	"airline_reservation/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *services.ReservationService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)
	service := services.NewReservationService(database.NewLedger(store, logger), logger,
		services.WithClock(func() time.Time { return now }))
	require.NoError(t, service.Load(context.Background()))
	_, err = service.SeedSampleFlights(context.Background())
	require.NoError(t, err)
	return service
}

func runScript(t *testing.T, service services.ReservationManager, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	c := New(service, in, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestConsole_PassengerJourney(t *testing.T) {
	service := newTestService(t)

	out := runScript(t, service,
		"2", "Asha Rao", "bad-email", "asha@example.com", "12345", "9876543210", "K1234567", "pw", "pass1",
		"1", "P1000", "pass1",
		"3", "AI101", "a1",
		"3", "AI101", "A1",
		"4",
		"5", "TXN1001",
		"6",
		"7",
		"4",
	)

	assert.Contains(t, out, "Invalid email format! Enter again: ")
	assert.Contains(t, out, "Invalid phone number! Enter 10 digits: ")
	assert.Contains(t, out, "Password too short! Minimum 4 characters: ")
	assert.Contains(t, out, "Your User ID: P1000")
	assert.Contains(t, out, "SUCCESS: Login Successful! Welcome, Asha Rao")
	assert.Contains(t, out, "     A  B  C    D  E  F")
	assert.Contains(t, out, "*** BOOKING SUCCESSFUL! ***")
	assert.Contains(t, out, "Booking ID: TXN1001")
	assert.Contains(t, out, "Seat Number: A1")
	assert.Contains(t, out, "Booking Date: 7/3/2025")
	assert.Contains(t, out, "Total Fare: ₹5500.00")
	assert.Contains(t, out, "ERROR: Seat not available!")
	assert.Contains(t, out, "Refund of ₹5500.00 will be processed.")
	assert.Contains(t, out, "Passport: K1234567")
	assert.Contains(t, out, "Logged out successfully!")
	assert.Contains(t, out, "Thank you for using Airline Reservation System!")

	flight, err := service.GetFlight(context.Background(), "AI101")
	require.NoError(t, err)
	assert.True(t, flight.IsSeatAvailable("A1"))
}

func TestConsole_AdminReports(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	p, err := service.RegisterPassenger(ctx, models.RegisterPassengerRequest{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9123456789", PassportNumber: "Z9", Password: "ravi",
	})
	require.NoError(t, err)
	session, err := service.Authenticate(ctx, models.RolePassenger, p.ID, "ravi")
	require.NoError(t, err)
	for _, seat := range []string{"A1", "B1", "C1"} {
		_, err := service.BookSeat(ctx, session, "AI103", seat)
		require.NoError(t, err)
	}

	out := runScript(t, service,
		"3", "admin", "admin123",
		"2", "AI103",
		"4",
		"6",
		"7",
		"9",
		"4",
	)

	assert.Contains(t, out, "SUCCESS: Admin Login Successful! Welcome, System Admin")
	assert.Contains(t, out, "ERROR: Cannot remove flight with active bookings!")
	assert.Contains(t, out, "Total Revenue: ₹21600.00")
	assert.Contains(t, out, "Status: [#-------------------] 8.33%")
	assert.Contains(t, out, "Registered Passengers: 1")
	assert.Contains(t, out, "1. Delhi -> Goa (3 bookings)")
	assert.Contains(t, out, "Report Generated on: 7/3/2025")
}

func TestConsole_AdminRegistrationRequiresSuper(t *testing.T) {
	service := newTestService(t)

	out := runScript(t, service,
		"3", "admin", "admin123",
		"8", "Ops Desk", "ops@airline.com", "ops1", "regular",
		"9",
		"3", "ADM1000", "ops1",
		"8",
		"9",
		"4",
	)

	assert.Contains(t, out, "SUCCESS: Admin Registration Successful!")
	assert.Contains(t, out, "Admin ID: ADM1000")
	assert.Contains(t, out, "Welcome, Ops Desk")
	assert.Contains(t, out, "ERROR: Only SUPER admins can register new admins!")
}

func TestConsole_InvalidLoginAndClosedInput(t *testing.T) {
	service := newTestService(t)

	out := runScript(t, service, "9", "1", "P9999", "wrong")

	assert.Contains(t, out, "Invalid choice! Please try again.")
	assert.Contains(t, out, "ERROR: Invalid credentials!")
}

func TestWriteSeatMap(t *testing.T) {
	flight := models.NewFlight("T1", "Test Air", "A", "B", "1/1/2025", "10:00", "11:00", 8, 100)
	require.True(t, flight.BookSeat("B1"))

	var out bytes.Buffer
	writeSeatMap(&out, flight)

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "     A  B  C    D  E  F", lines[2])
	assert.Equal(t, " 1   O  X  O    O  O  O ", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], " 2   O  O "))
}

func TestOccupancyBar(t *testing.T) {
	tests := []struct {
		occupancy float64
		want      string
	}{
		{0, "[--------------------]"},
		{4.99, "[--------------------]"},
		{50, "[##########----------]"},
		{100, "[####################]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, occupancyBar(tt.occupancy))
	}
}
