package handlers

import (
	"fmt"
	"net/http"

	"airline_reservation/internal/models"
	"github.com/gorilla/mux"
)

// BookSeat handles POST /api/bookings
func (h *Handler) BookSeat(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	booking, err := h.service.BookSeat(r.Context(), sessionFrom(r), req.FlightNumber, models.NormalizeSeat(req.SeatNumber))
	if err != nil {
		if booking != nil {
			h.respondRecordedButUnsaved(w, r, "booking", booking, err)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// MyBookings handles GET /api/bookings/mine
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.MyBookings(r.Context(), sessionFrom(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CancelBooking handles PUT /api/bookings/{id}/cancel
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.CancelBooking(r.Context(), sessionFrom(r), mux.Vars(r)["id"])
	if err != nil {
		if booking != nil {
			h.respondRecordedButUnsaved(w, r, "booking", booking, err)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"booking": booking,
		"message": fmt.Sprintf("Refund of ₹%.2f will be processed.", booking.Fare),
	})
}

// ListBookings handles GET /api/bookings
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, summary, err := h.service.ListBookings(r.Context(), sessionFrom(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"summary":  summary,
	})
}
