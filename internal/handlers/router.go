package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter creates and configures the HTTP router
func (h *Handler) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Accounts and sessions
	api.HandleFunc("/passengers", h.RegisterPassenger).Methods(http.MethodPost)
	api.HandleFunc("/passengers", h.requireSession(h.ListPassengers)).Methods(http.MethodGet)
	api.HandleFunc("/admins", h.requireSession(h.RegisterAdmin)).Methods(http.MethodPost)
	api.HandleFunc("/sessions", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/sessions", h.requireSession(h.Logout)).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/me", h.requireSession(h.Profile)).Methods(http.MethodGet)

	// Flights
	api.HandleFunc("/flights", h.ListFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights/{number}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{number}/seats", h.GetSeatMap).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.requireSession(h.AddFlight)).Methods(http.MethodPost)
	api.HandleFunc("/flights/{number}", h.requireSession(h.RemoveFlight)).Methods(http.MethodDelete)

	// Bookings
	api.HandleFunc("/bookings", h.requireSession(h.BookSeat)).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.requireSession(h.ListBookings)).Methods(http.MethodGet)
	api.HandleFunc("/bookings/mine", h.requireSession(h.MyBookings)).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/cancel", h.requireSession(h.CancelBooking)).Methods(http.MethodPut)

	// Reports
	api.HandleFunc("/reports/summary", h.requireSession(h.SystemReport)).Methods(http.MethodGet)
	api.HandleFunc("/reports/occupancy", h.requireSession(h.OccupancyReport)).Methods(http.MethodGet)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
