package httpapi

import (
	"net/http"
	"strings"

	"jobfeed-engine/internal/events"
)

type SaveHandler struct {
	Saver Saver
	Hub   *events.Hub
}

type saveRequest struct {
	JobID  string `json:"job_id"`
	Action string `json:"action"`
}

type saveResponse struct {
	JobID string `json:"job_id"`
	Saved bool   `json:"saved"`
}

// Save serves POST /api/save with action save, unsave or toggle (default).
func (h SaveHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	req.JobID = strings.TrimSpace(req.JobID)
	if req.JobID == "" {
		WriteError(w, r, http.StatusBadRequest, "job_id_required", "job_id required")
		return
	}

	var (
		saved bool
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "save":
		saved, err = true, h.Saver.SetSaved(r.Context(), req.JobID, true)
	case "unsave":
		saved, err = false, h.Saver.SetSaved(r.Context(), req.JobID, false)
	case "toggle", "":
		saved, err = h.Saver.ToggleSaved(r.Context(), req.JobID)
	default:
		WriteError(w, r, http.StatusBadRequest, "invalid_action", "action must be save, unsave or toggle")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if h.Hub != nil {
		h.Hub.Publish(events.New(RequestIDFrom(r.Context()), events.TypeJobSaved, events.JobSaved{JobID: req.JobID, Saved: saved}))
	}
	WriteJSON(w, http.StatusOK, saveResponse{JobID: req.JobID, Saved: saved})
}
