package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"jobfeed-engine/internal/query"
	"jobfeed-engine/internal/store"
)

// retryAfterSeconds is advertised with storage_unavailable.
const retryAfterSeconds = "5"

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeServiceError maps engine and store errors onto the error envelope.
// A storage failure is never reported as an empty result.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidCriteria):
		WriteError(w, r, http.StatusBadRequest, "invalid_criteria", err.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
	case errors.Is(err, store.ErrUnavailable):
		log.Error().Str("request_id", RequestIDFrom(r.Context())).Err(err).Msg("storage unavailable")
		w.Header().Set("Retry-After", retryAfterSeconds)
		WriteError(w, r, http.StatusServiceUnavailable, "storage_unavailable", "job store is unavailable, retry shortly")
	default:
		log.Error().Str("request_id", RequestIDFrom(r.Context())).Err(err).Msg("request failed")
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
