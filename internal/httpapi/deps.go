package httpapi

import (
	"context"
	"sync/atomic"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/query"
)

// Jobs is the read side served under /api/jobs.
type Jobs interface {
	ListJobs(ctx context.Context, c query.Criteria, page, perPage int) (query.Page, error)
	GetJob(ctx context.Context, id string) (domain.Job, error)
	Stats(ctx context.Context) (query.Stats, error)
}

// Saver is the bookmark mutation path.
type Saver interface {
	SetSaved(ctx context.Context, id string, saved bool) error
	ToggleSaved(ctx context.Context, id string) (bool, error)
}

type DB interface {
	Ping(ctx context.Context) error
	Checkpoint(ctx context.Context, full bool) error
}

type Deps struct {
	Jobs  Jobs
	Saver Saver
	DB    DB

	Hub *events.Hub

	// DataDir holds last_run.json.
	DataDir string

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Limiter is optional; nil disables rate limiting.
	Limiter *ClientLimiter
}
