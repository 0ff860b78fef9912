package services

import (
	"context"

	"airline_reservation/internal/models"
	"github.com/google/uuid"
)

// ReservationManager is the surface consumed by the HTTP handlers and the console
type ReservationManager interface {
	RegisterPassenger(ctx context.Context, req models.RegisterPassengerRequest) (*models.Passenger, error)
	RegisterAdmin(ctx context.Context, session models.Session, req models.RegisterAdminRequest) (*models.Admin, error)
	Authenticate(ctx context.Context, role models.Role, id, password string) (models.Session, error)
	Logout(ctx context.Context, session models.Session) error
	ResolveSession(token uuid.UUID) (models.Session, error)
	Profile(session models.Session) (models.Account, error)

	SearchFlights(ctx context.Context, origin, destination, date string) ([]*models.Flight, error)
	ListFlights(ctx context.Context) []*models.Flight
	GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error)
	AddFlight(ctx context.Context, session models.Session, req models.AddFlightRequest) (*models.Flight, error)
	RemoveFlight(ctx context.Context, session models.Session, flightNumber string) error

	BookSeat(ctx context.Context, session models.Session, flightNumber, seat string) (*models.Booking, error)
	CancelBooking(ctx context.Context, session models.Session, bookingID string) (*models.Booking, error)
	MyBookings(ctx context.Context, session models.Session) ([]*models.Booking, error)
	ListBookings(ctx context.Context, session models.Session) ([]*models.Booking, models.BookingSummary, error)
	ListPassengers(ctx context.Context, session models.Session) ([]*models.Passenger, error)

	SystemReport(ctx context.Context, session models.Session) (models.SystemReport, error)
	OccupancyReport(ctx context.Context, session models.Session) (models.OccupancyReport, error)
}

var _ ReservationManager = (*ReservationService)(nil)
