package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every route behind the middleware chain.
func NewRouter(d Deps) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Method mismatches under /api resolve inside the subrouter, so it needs
	// its own JSON handlers.
	api := router.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Jobs
	jh := JobsHandler{Jobs: d.Jobs, DataDir: d.DataDir}
	api.HandleFunc("/jobs", jh.List).Methods(http.MethodGet)
	api.HandleFunc("/jobs/stats", jh.Stats).Methods(http.MethodGet)
	api.HandleFunc("/jobs/last-run", jh.LastRun).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", jh.Get).Methods(http.MethodGet)

	// Saved
	sh := SaveHandler{Saver: d.Saver, Hub: d.Hub}
	api.HandleFunc("/save", sh.Save).Methods(http.MethodPost)

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	router.HandleFunc("/config", ch.Get).Methods(http.MethodGet)
	router.HandleFunc("/config", ch.Put).Methods(http.MethodPut)
	router.HandleFunc("/config/path", ch.Path).Methods(http.MethodGet)
	router.HandleFunc("/config/validate", ch.Validate).Methods(http.MethodGet)

	// DB
	dh := DBHandler{DB: d.DB}
	router.HandleFunc("/db/checkpoint", dh.Checkpoint).Methods(http.MethodPost)
	router.HandleFunc("/health", HealthHandler{DB: d.DB}.Health).Methods(http.MethodGet)

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	router.HandleFunc("/events", eh.ServeSSE).Methods(http.MethodGet)

	chain := []Middleware{RequestID, Recover, AccessLog, Cors}
	if d.Limiter != nil {
		chain = append(chain, d.Limiter.Middleware)
	}
	return Chain(router, chain...)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}
