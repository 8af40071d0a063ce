package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	scheduledomain "schedule-arranger-go/internal/domain/schedule"
	"schedule-arranger-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type scheduleRequest struct {
	ScheduleName string `json:"schedule_name"`
	Memo         string `json:"memo"`
	// Candidates is the raw newline-delimited candidate-name input, one
	// proposed slot per line.
	Candidates string `json:"candidates"`
}

type scheduleResponse struct {
	ScheduleID   string    `json:"schedule_id"`
	ScheduleName string    `json:"schedule_name"`
	Memo         string    `json:"memo"`
	CreatedBy    int64     `json:"created_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type candidateResponse struct {
	CandidateID   int64  `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
}

type scheduleWithCandidatesResponse struct {
	Schedule   scheduleResponse    `json:"schedule"`
	Candidates []candidateResponse `json:"candidates"`
}

type scheduleListResponse struct {
	Items []scheduleResponse `json:"items"`
}

type availabilityCellResponse struct {
	CandidateID  int64 `json:"candidate_id"`
	Availability int   `json:"availability"`
}

type viewUserResponse struct {
	UserID         int64                      `json:"user_id"`
	Username       string                     `json:"username"`
	IsSelf         bool                       `json:"is_self"`
	Comment        *string                    `json:"comment,omitempty"`
	Availabilities []availabilityCellResponse `json:"availabilities"`
}

type scheduleViewResponse struct {
	Schedule   scheduleResponse    `json:"schedule"`
	Candidates []candidateResponse `json:"candidates"`
	Users      []viewUserResponse  `json:"users"`
}

func (h *Handlers) ListMySchedules(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	schedules, err := h.Schedules.ListMySchedules(r.Context(), viewer)
	if err != nil {
		h.log.InternalError("schedules.list: list failed", err, "user_id", viewer.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]scheduleResponse, 0, len(schedules))
	for _, sched := range schedules {
		items = append(items, toScheduleResponse(sched))
	}
	writeJSON(w, http.StatusOK, scheduleListResponse{Items: items})
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	sched, candidates, err := h.Schedules.CreateSchedule(r.Context(), viewer, scheduledomain.CreateScheduleInput{
		ScheduleName:   req.ScheduleName,
		Memo:           req.Memo,
		CandidateNames: req.Candidates,
	})
	if err != nil {
		h.log.InternalError("schedules.create: create failed", err, "user_id", viewer.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.Header().Set("Location", "/schedules/"+sched.ScheduleID)
	writeJSON(w, http.StatusCreated, toScheduleWithCandidates(*sched, candidates))
}

func (h *Handlers) GetScheduleView(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	scheduleID := chi.URLParam(r, "scheduleID")
	view, err := h.Schedules.GetScheduleView(r.Context(), viewer, scheduleID)
	if err != nil {
		h.respondScheduleError(w, "schedules.view", err, viewer.UserID, scheduleID)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleViewResponse(*view))
}

func (h *Handlers) GetScheduleEdit(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	scheduleID := chi.URLParam(r, "scheduleID")
	sched, candidates, err := h.Schedules.GetScheduleForEdit(r.Context(), viewer, scheduleID)
	if err != nil {
		h.respondScheduleError(w, "schedules.edit_form", err, viewer.UserID, scheduleID)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleWithCandidates(*sched, candidates))
}

// MutateSchedule dispatches POST /schedules/{scheduleID} on its query
// flags: ?edit=1 updates, ?delete=1 removes the whole aggregate, anything
// else is a bad request.
func (h *Handlers) MutateSchedule(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	scheduleID := chi.URLParam(r, "scheduleID")
	query := r.URL.Query()

	switch {
	case query.Get("edit") == "1":
		h.updateSchedule(w, r, viewer, scheduleID)
	case query.Get("delete") == "1":
		h.deleteSchedule(w, r, viewer, scheduleID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "either edit=1 or delete=1 is required")
	}
}

func (h *Handlers) updateSchedule(w http.ResponseWriter, r *http.Request, viewer scheduledomain.Viewer, scheduleID string) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	sched, added, err := h.Schedules.UpdateSchedule(r.Context(), viewer, scheduledomain.UpdateScheduleInput{
		ScheduleID:     scheduleID,
		ScheduleName:   req.ScheduleName,
		Memo:           req.Memo,
		CandidateNames: req.Candidates,
	})
	if err != nil {
		h.respondScheduleError(w, "schedules.update", err, viewer.UserID, scheduleID)
		return
	}

	w.Header().Set("Location", "/schedules/"+sched.ScheduleID)
	writeJSON(w, http.StatusOK, toScheduleWithCandidates(*sched, added))
}

func (h *Handlers) deleteSchedule(w http.ResponseWriter, r *http.Request, viewer scheduledomain.Viewer, scheduleID string) {
	if err := h.Schedules.DeleteSchedule(r.Context(), viewer, scheduleID); err != nil {
		h.respondScheduleError(w, "schedules.delete", err, viewer.UserID, scheduleID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) respondScheduleError(w http.ResponseWriter, op string, err error, userID int64, scheduleID string) {
	switch {
	case errors.Is(err, scheduledomain.ErrScheduleNotFound):
		h.log.BusinessError(op+": schedule not found", err, "user_id", userID, "schedule_id", scheduleID)
		writeError(w, http.StatusNotFound, "schedule_not_found", "schedule not found or not permitted")
	case errors.Is(err, scheduledomain.ErrCandidateNotFound):
		h.log.BusinessError(op+": candidate not found", err, "user_id", userID, "schedule_id", scheduleID)
		writeError(w, http.StatusNotFound, "candidate_not_found", "candidate not found")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "schedule_id", scheduleID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func viewerFromContext(r *http.Request) (scheduledomain.Viewer, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return scheduledomain.Viewer{}, false
	}
	return scheduledomain.Viewer{UserID: user.ID, Username: user.Username}, true
}

func parseCandidateID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "candidateID"), 10, 64)
}

func toScheduleResponse(sched scheduledomain.Schedule) scheduleResponse {
	return scheduleResponse{
		ScheduleID:   sched.ScheduleID,
		ScheduleName: sched.ScheduleName,
		Memo:         sched.Memo,
		CreatedBy:    sched.CreatedBy,
		UpdatedAt:    sched.UpdatedAt,
	}
}

func toCandidateResponses(candidates []scheduledomain.Candidate) []candidateResponse {
	result := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, candidateResponse{
			CandidateID:   c.CandidateID,
			CandidateName: c.CandidateName,
		})
	}
	return result
}

func toScheduleWithCandidates(sched scheduledomain.Schedule, candidates []scheduledomain.Candidate) scheduleWithCandidatesResponse {
	return scheduleWithCandidatesResponse{
		Schedule:   toScheduleResponse(sched),
		Candidates: toCandidateResponses(candidates),
	}
}

func toScheduleViewResponse(view scheduledomain.ScheduleView) scheduleViewResponse {
	users := make([]viewUserResponse, 0, len(view.Users))
	for _, u := range view.Users {
		cells := make([]availabilityCellResponse, 0, len(view.Candidates))
		for _, c := range view.Candidates {
			cells = append(cells, availabilityCellResponse{
				CandidateID:  c.CandidateID,
				Availability: view.Availabilities[u.UserID][c.CandidateID],
			})
		}

		entry := viewUserResponse{
			UserID:         u.UserID,
			Username:       u.Username,
			IsSelf:         u.IsSelf,
			Availabilities: cells,
		}
		if comment, ok := view.Comments[u.UserID]; ok {
			entry.Comment = &comment
		}
		users = append(users, entry)
	}

	return scheduleViewResponse{
		Schedule:   toScheduleResponse(view.Schedule),
		Candidates: toCandidateResponses(view.Candidates),
		Users:      users,
	}
}
