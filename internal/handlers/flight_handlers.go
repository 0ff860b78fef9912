package handlers

import (
	"fmt"
	"net/http"

	"airline_reservation/internal/models"
	"airline_reservation/internal/services"
	"github.com/gorilla/mux"
)

// ListFlights handles GET /api/flights
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	flights := h.service.ListFlights(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"flights": flights,
		"count":   len(flights),
	})
}

// SearchFlights handles GET /api/flights/search?origin=&destination=&date=
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := models.SearchRequest{
		Origin:      query.Get("origin"),
		Destination: query.Get("destination"),
		Date:        query.Get("date"),
	}
	if err := models.Validate.Struct(req); err != nil {
		h.respondServiceError(w, r, fmt.Errorf("%w: origin, destination and date are required", services.ErrValidation))
		return
	}

	flights, err := h.service.SearchFlights(r.Context(), req.Origin, req.Destination, req.Date)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"flights": flights,
		"count":   len(flights),
	})
}

// GetFlight handles GET /api/flights/{number}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flight, err := h.service.GetFlight(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetSeatMap handles GET /api/flights/{number}/seats
func (h *Handler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	flight, err := h.service.GetFlight(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"flight_number":   flight.FlightNumber,
		"available_seats": flight.AvailableSeatsCount(),
		"rows":            flight.SeatRows(),
	})
}

// AddFlight handles POST /api/flights
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var req models.AddFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	flight, err := h.service.AddFlight(r.Context(), sessionFrom(r), req)
	if err != nil {
		if flight != nil {
			h.respondRecordedButUnsaved(w, r, "flight", flight, err)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

// RemoveFlight handles DELETE /api/flights/{number}
func (h *Handler) RemoveFlight(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveFlight(r.Context(), sessionFrom(r), mux.Vars(r)["number"]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondRecordedButUnsaved reports a mutation that took effect in memory
// while the ledger write failed.
func (h *Handler) respondRecordedButUnsaved(w http.ResponseWriter, r *http.Request, kind string, value interface{}, err error) {
	h.logger.Error("change applied but not saved", "method", r.Method, "path", r.URL.Path, "error", err)
	respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error": err.Error(),
		kind:    value,
	})
}
