package httpapi

import (
	"net/http"
)

type DBHandler struct {
	DB DB
}

// Checkpoint runs a full WAL checkpoint. Loopback callers only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "checkpoint is local-only")
		return
	}
	if err := h.DB.Checkpoint(r.Context(), true); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
