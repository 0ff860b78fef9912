package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"airline_reservation/internal/models"
	"airline_reservation/internal/services"
	"github.com/google/uuid"
)

// SessionHeader carries the session token returned by POST /api/sessions
const SessionHeader = "X-Session-Token"

type contextKey int

const sessionKey contextKey = iota

// Handler serves the reservation HTTP API
type Handler struct {
	service services.ReservationManager
	logger  *slog.Logger
}

// NewHandler creates the API handlers
func NewHandler(service services.ReservationManager, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrFlightNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoSeatsAvailable),
		errors.Is(err, services.ErrSeatUnavailable),
		errors.Is(err, services.ErrFlightAlreadyExists),
		errors.Is(err, services.ErrFlightHasActiveBookings),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondError(w, status, err.Error())
}

// decodeJSON reads the request body into dest and validates it
func decodeJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid request body", services.ErrValidation)
	}
	if err := models.Validate.Struct(dest); err != nil {
		return fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	return nil
}

// requireSession resolves the session token before calling next
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := uuid.Parse(r.Header.Get(SessionHeader))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "missing or malformed "+SessionHeader+" header")
			return
		}
		session, err := h.service.ResolveSession(token)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	}
}

func sessionFrom(r *http.Request) models.Session {
	session, _ := r.Context().Value(sessionKey).(models.Session)
	return session
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "reservation-api"})
}
