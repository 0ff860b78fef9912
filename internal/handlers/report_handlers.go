package handlers

import "net/http"

// SystemReport handles GET /api/reports/summary
func (h *Handler) SystemReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SystemReport(r.Context(), sessionFrom(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// OccupancyReport handles GET /api/reports/occupancy
func (h *Handler) OccupancyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.OccupancyReport(r.Context(), sessionFrom(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
