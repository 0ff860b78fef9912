package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"airline_reservation/internal/models"
	"airline_reservation/internal/services"
	"airline_reservation/internal/services/mocks"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*mocks.MockReservationManager, *mux.Router) {
	t.Helper()
	mockService := new(mocks.MockReservationManager)
	h := NewHandler(mockService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return mockService, h.NewRouter()
}

func passengerSession() models.Session {
	return models.Session{Token: uuid.New(), AccountID: "P1000", Role: models.RolePassenger, Name: "Asha"}
}

func adminSession() models.Session {
	return models.Session{Token: uuid.New(), AccountID: "admin", Role: models.RoleAdmin, Name: "System Admin"}
}

func newRequest(method, target string, body interface{}, session *models.Session) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.Header.Set(SessionHeader, session.Token.String())
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandler_ListFlights(t *testing.T) {
	mockService, router := setupTestRouter(t)

	flights := []*models.Flight{
		models.NewFlight("AI101", "Air India", "Delhi", "Mumbai", "15/12/2024", "06:00", "08:15", 180, 5500),
	}
	mockService.On("ListFlights", mock.Anything).Return(flights)

	rec := serve(router, newRequest(http.MethodGet, "/api/flights", nil, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Flights []*models.Flight `json:"flights"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "AI101", response.Flights[0].FlightNumber)
	assert.Equal(t, 180, response.Flights[0].AvailableSeatsCount())

	mockService.AssertExpectations(t)
}

func TestHandler_SearchFlights(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*mocks.MockReservationManager)
		expectedStatus int
	}{
		{
			name:  "matching flights",
			query: "?origin=Delhi&destination=Mumbai&date=15/12/2024",
			setupMock: func(m *mocks.MockReservationManager) {
				m.On("SearchFlights", mock.Anything, "Delhi", "Mumbai", "15/12/2024").
					Return([]*models.Flight{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing date",
			query:          "?origin=Delhi&destination=Mumbai",
			setupMock:      func(m *mocks.MockReservationManager) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, router := setupTestRouter(t)
			tt.setupMock(mockService)

			rec := serve(router, newRequest(http.MethodGet, "/api/flights/search"+tt.query, nil, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetFlight(t *testing.T) {
	tests := []struct {
		name           string
		number         string
		mockReturn     *models.Flight
		mockError      error
		expectedStatus int
	}{
		{
			name:           "flight found",
			number:         "AI101",
			mockReturn:     models.NewFlight("AI101", "Air India", "Delhi", "Mumbai", "15/12/2024", "06:00", "08:15", 12, 5500),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			number:         "XX999",
			mockError:      services.ErrFlightNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, router := setupTestRouter(t)
			if tt.mockReturn != nil {
				mockService.On("GetFlight", mock.Anything, tt.number).Return(tt.mockReturn, nil)
			} else {
				mockService.On("GetFlight", mock.Anything, tt.number).Return(nil, tt.mockError)
			}

			rec := serve(router, newRequest(http.MethodGet, "/api/flights/"+tt.number, nil, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetSeatMap(t *testing.T) {
	mockService, router := setupTestRouter(t)

	flight := models.NewFlight("AI101", "Air India", "Delhi", "Mumbai", "15/12/2024", "06:00", "08:15", 12, 5500)
	require.True(t, flight.BookSeat("A1"))
	mockService.On("GetFlight", mock.Anything, "AI101").Return(flight, nil)

	rec := serve(router, newRequest(http.MethodGet, "/api/flights/AI101/seats", nil, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		AvailableSeats int                  `json:"available_seats"`
		Rows           [][]models.SeatState `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 11, response.AvailableSeats)
	require.Len(t, response.Rows, 2)
	assert.Equal(t, models.SeatState{Label: "A1", Available: false}, response.Rows[0][0])
}

func TestHandler_Login(t *testing.T) {
	mockService, router := setupTestRouter(t)

	session := adminSession()
	mockService.On("Authenticate", mock.Anything, models.RoleAdmin, "admin", "admin123").Return(session, nil)
	mockService.On("Authenticate", mock.Anything, models.RoleAdmin, "admin", "wrong").
		Return(models.Session{}, services.ErrInvalidCredentials)

	rec := serve(router, newRequest(http.MethodPost, "/api/sessions",
		models.LoginRequest{Role: models.RoleAdmin, ID: "admin", Password: "admin123"}, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var got models.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, session.Token, got.Token)

	rec = serve(router, newRequest(http.MethodPost, "/api/sessions",
		models.LoginRequest{Role: models.RoleAdmin, ID: "admin", Password: "wrong"}, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, newRequest(http.MethodPost, "/api/sessions",
		map[string]string{"role": "PILOT", "id": "x", "password": "y"}, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_RegisterPassenger(t *testing.T) {
	mockService, router := setupTestRouter(t)

	req := models.RegisterPassengerRequest{
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		Phone:          "9876543210",
		PassportNumber: "K1234567",
		Password:       "secret",
	}
	mockService.On("RegisterPassenger", mock.Anything, req).
		Return(&models.Passenger{ID: "P1000", Name: req.Name, Email: req.Email, Password: req.Password}, nil)

	rec := serve(router, newRequest(http.MethodPost, "/api/passengers", req, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"P1000"`)
	assert.NotContains(t, rec.Body.String(), "secret")

	bad := req
	bad.Email = "not-an-email"
	rec = serve(router, newRequest(http.MethodPost, "/api/passengers", bad, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_RequireSession(t *testing.T) {
	mockService, router := setupTestRouter(t)

	rec := serve(router, newRequest(http.MethodGet, "/api/bookings/mine", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stale := passengerSession()
	mockService.On("ResolveSession", stale.Token).Return(models.Session{}, services.ErrInvalidSession)
	rec = serve(router, newRequest(http.MethodGet, "/api/bookings/mine", nil, &stale))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mockService.AssertNotCalled(t, "MyBookings", mock.Anything, mock.Anything)
}

func TestHandler_BookSeat(t *testing.T) {
	session := passengerSession()

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mocks.MockReservationManager)
		expectedStatus int
	}{
		{
			name: "seat booked",
			body: models.BookingRequest{FlightNumber: "AI101", SeatNumber: "a1"},
			setupMock: func(m *mocks.MockReservationManager) {
				m.On("BookSeat", mock.Anything, session, "AI101", "A1").Return(&models.Booking{
					ID: "TXN1001", PassengerID: "P1000", FlightNumber: "AI101", SeatNumber: "A1",
					Fare: 5500, Status: models.BookingStatusConfirmed,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "seat taken",
			body: models.BookingRequest{FlightNumber: "AI101", SeatNumber: "A1"},
			setupMock: func(m *mocks.MockReservationManager) {
				m.On("BookSeat", mock.Anything, session, "AI101", "A1").
					Return(nil, fmt.Errorf("%w: A1 on AI101", services.ErrSeatUnavailable))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown flight",
			body: models.BookingRequest{FlightNumber: "XX999", SeatNumber: "A1"},
			setupMock: func(m *mocks.MockReservationManager) {
				m.On("BookSeat", mock.Anything, session, "XX999", "A1").Return(nil, services.ErrFlightNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "admin session",
			body: models.BookingRequest{FlightNumber: "AI101", SeatNumber: "A1"},
			setupMock: func(m *mocks.MockReservationManager) {
				m.On("BookSeat", mock.Anything, session, "AI101", "A1").Return(nil, services.ErrNotAuthorized)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "booked but not saved",
			body: models.BookingRequest{FlightNumber: "AI101", SeatNumber: "B2"},
			setupMock: func(m *mocks.MockReservationManager) {
				m.On("BookSeat", mock.Anything, session, "AI101", "B2").
					Return(&models.Booking{ID: "TXN1002", SeatNumber: "B2"}, services.ErrPersistence)
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "missing seat",
			body:           map[string]string{"flight_number": "AI101"},
			setupMock:      func(m *mocks.MockReservationManager) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, router := setupTestRouter(t)
			mockService.On("ResolveSession", session.Token).Return(session, nil)
			tt.setupMock(mockService)

			rec := serve(router, newRequest(http.MethodPost, "/api/bookings", tt.body, &session))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelBooking(t *testing.T) {
	mockService, router := setupTestRouter(t)
	session := passengerSession()
	mockService.On("ResolveSession", session.Token).Return(session, nil)
	mockService.On("CancelBooking", mock.Anything, session, "TXN1001").Return(&models.Booking{
		ID: "TXN1001", Fare: 5500, Status: models.BookingStatusCancelled,
	}, nil)
	mockService.On("CancelBooking", mock.Anything, session, "TXN9999").Return(nil, services.ErrBookingNotFound)

	rec := serve(router, newRequest(http.MethodPut, "/api/bookings/TXN1001/cancel", nil, &session))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refund of ₹5500.00 will be processed.")

	rec = serve(router, newRequest(http.MethodPut, "/api/bookings/TXN9999/cancel", nil, &session))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_AdminRoutes(t *testing.T) {
	mockService, router := setupTestRouter(t)
	session := adminSession()
	mockService.On("ResolveSession", session.Token).Return(session, nil)

	mockService.On("ListBookings", mock.Anything, session).
		Return([]*models.Booking{}, models.BookingSummary{TotalBookings: 0}, nil)
	mockService.On("RemoveFlight", mock.Anything, session, "AI101").Return(services.ErrFlightHasActiveBookings)
	mockService.On("RemoveFlight", mock.Anything, session, "AI202").Return(nil)
	mockService.On("SystemReport", mock.Anything, session).
		Return(models.SystemReport{TotalFlights: 5, GeneratedOn: "15/12/2024"}, nil)
	mockService.On("RegisterAdmin", mock.Anything, session, mock.AnythingOfType("models.RegisterAdminRequest")).
		Return(nil, services.ErrNotAuthorized)

	rec := serve(router, newRequest(http.MethodGet, "/api/bookings", nil, &session))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"summary"`)

	rec = serve(router, newRequest(http.MethodDelete, "/api/flights/AI101", nil, &session))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(router, newRequest(http.MethodDelete, "/api/flights/AI202", nil, &session))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, newRequest(http.MethodGet, "/api/reports/summary", nil, &session))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_flights":5`)

	rec = serve(router, newRequest(http.MethodPost, "/api/admins", models.RegisterAdminRequest{
		Name: "Ops", Email: "ops@airline.com", Password: "pass1", Level: "standard",
	}, &session))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	mockService.AssertExpectations(t)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("wrapped: %w", services.ErrBookingNotFound)))
	assert.Equal(t, http.StatusConflict, statusFor(services.ErrEmailTaken))
	assert.Equal(t, http.StatusConflict, statusFor(services.ErrNoSeatsAvailable))
	assert.Equal(t, http.StatusBadRequest, statusFor(services.ErrValidation))
	assert.Equal(t, http.StatusInternalServerError, statusFor(services.ErrPersistence))
}
