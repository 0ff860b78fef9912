package handlers

import (
	"net/http"

	"airline_reservation/internal/models"
)

// RegisterPassenger handles POST /api/passengers
func (h *Handler) RegisterPassenger(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterPassengerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	passenger, err := h.service.RegisterPassenger(r.Context(), req)
	if err != nil {
		if passenger != nil {
			h.respondRecordedButUnsaved(w, r, "passenger", passenger, err)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, passenger)
}

// ListPassengers handles GET /api/passengers
func (h *Handler) ListPassengers(w http.ResponseWriter, r *http.Request) {
	passengers, err := h.service.ListPassengers(r.Context(), sessionFrom(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"passengers": passengers,
		"count":      len(passengers),
	})
}

// RegisterAdmin handles POST /api/admins
func (h *Handler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	admin, err := h.service.RegisterAdmin(r.Context(), sessionFrom(r), req)
	if err != nil {
		if admin != nil {
			h.respondRecordedButUnsaved(w, r, "admin", admin, err)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, admin)
}

// Login handles POST /api/sessions
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	session, err := h.service.Authenticate(r.Context(), req.Role, req.ID, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// Logout handles DELETE /api/sessions
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), sessionFrom(r)); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Profile handles GET /api/sessions/me
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	account, err := h.service.Profile(session)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"account": account,
	})
}
