package mocks

import (
	"context"

	"airline_reservation/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReservationManager is a mock implementation of services.ReservationManager
type MockReservationManager struct {
	mock.Mock
}

func (m *MockReservationManager) RegisterPassenger(ctx context.Context, req models.RegisterPassengerRequest) (*models.Passenger, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockReservationManager) RegisterAdmin(ctx context.Context, session models.Session, req models.RegisterAdminRequest) (*models.Admin, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockReservationManager) Authenticate(ctx context.Context, role models.Role, id, password string) (models.Session, error) {
	args := m.Called(ctx, role, id, password)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *MockReservationManager) Logout(ctx context.Context, session models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockReservationManager) ResolveSession(token uuid.UUID) (models.Session, error) {
	args := m.Called(token)
	return args.Get(0).(models.Session), args.Error(1)
}

func (m *MockReservationManager) Profile(session models.Session) (models.Account, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockReservationManager) SearchFlights(ctx context.Context, origin, destination, date string) ([]*models.Flight, error) {
	args := m.Called(ctx, origin, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Flight), args.Error(1)
}

func (m *MockReservationManager) ListFlights(ctx context.Context) []*models.Flight {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Flight)
}

func (m *MockReservationManager) GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	args := m.Called(ctx, flightNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockReservationManager) AddFlight(ctx context.Context, session models.Session, req models.AddFlightRequest) (*models.Flight, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockReservationManager) RemoveFlight(ctx context.Context, session models.Session, flightNumber string) error {
	args := m.Called(ctx, session, flightNumber)
	return args.Error(0)
}

func (m *MockReservationManager) BookSeat(ctx context.Context, session models.Session, flightNumber, seat string) (*models.Booking, error) {
	args := m.Called(ctx, session, flightNumber, seat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockReservationManager) CancelBooking(ctx context.Context, session models.Session, bookingID string) (*models.Booking, error) {
	args := m.Called(ctx, session, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockReservationManager) MyBookings(ctx context.Context, session models.Session) ([]*models.Booking, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockReservationManager) ListBookings(ctx context.Context, session models.Session) ([]*models.Booking, models.BookingSummary, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.BookingSummary), args.Error(2)
	}
	return args.Get(0).([]*models.Booking), args.Get(1).(models.BookingSummary), args.Error(2)
}

func (m *MockReservationManager) ListPassengers(ctx context.Context, session models.Session) ([]*models.Passenger, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Passenger), args.Error(1)
}

func (m *MockReservationManager) SystemReport(ctx context.Context, session models.Session) (models.SystemReport, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(models.SystemReport), args.Error(1)
}

func (m *MockReservationManager) OccupancyReport(ctx context.Context, session models.Session) (models.OccupancyReport, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(models.OccupancyReport), args.Error(1)
}
