package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"jobfeed-engine/internal/ingest"
	"jobfeed-engine/internal/query"
)

type JobsHandler struct {
	Jobs    Jobs
	DataDir string
}

// List serves GET /api/jobs. The legacy action=stats and action=last_run
// forms are answered here too.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch q.Get("action") {
	case "stats":
		h.Stats(w, r)
		return
	case "last_run":
		h.LastRun(w, r)
		return
	}

	req := query.ParseRequest(q)
	page, err := h.Jobs.ListJobs(r.Context(), req.Criteria, req.Page, req.PerPage)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.Jobs.GetJob(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.Jobs.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, s)
}

func (h JobsHandler) LastRun(w http.ResponseWriter, r *http.Request) {
	lr, err := ingest.ReadLastRun(h.DataDir)
	if err != nil {
		log.Error().Str("request_id", RequestIDFrom(r.Context())).Err(err).Msg("read last_run.json")
		WriteError(w, r, http.StatusInternalServerError, "last_run_unreadable", "last run record is unreadable")
		return
	}
	WriteJSON(w, http.StatusOK, lr)
}
