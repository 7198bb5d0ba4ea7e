package httpapi

import (
	"context"
	"net/http"
	"time"
)

type HealthHandler struct {
	DB DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		w.Header().Set("Retry-After", retryAfterSeconds)
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
