package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type setAvailabilityRequest struct {
	Availability int `json:"availability"`
}

func (h *Handlers) SetAvailability(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	scheduleID := chi.URLParam(r, "scheduleID")
	candidateID, err := parseCandidateID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid candidate id")
		return
	}

	var req setAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Availability < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "availability must be non-negative")
		return
	}

	if err := h.Schedules.SetAvailability(r.Context(), viewer, scheduleID, candidateID, req.Availability); err != nil {
		h.respondScheduleError(w, "availability.set", err, viewer.UserID, scheduleID)
		return
	}

	writeJSON(w, http.StatusOK, setAvailabilityRequest{Availability: req.Availability})
}
