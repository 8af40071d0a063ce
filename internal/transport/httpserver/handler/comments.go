package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type saveCommentRequest struct {
	Comment string `json:"comment"`
}

func (h *Handlers) SaveComment(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	scheduleID := chi.URLParam(r, "scheduleID")

	var req saveCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Schedules.SaveComment(r.Context(), viewer, scheduleID, req.Comment); err != nil {
		h.respondScheduleError(w, "comments.save", err, viewer.UserID, scheduleID)
		return
	}

	writeJSON(w, http.StatusOK, saveCommentRequest{Comment: req.Comment})
}
