package handler

import (
	"net/http"

	"schedule-arranger-go/internal/transport/httpserver/middleware"
)

type authMeResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}
