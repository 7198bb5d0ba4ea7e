// Package scheduler runs the engine's periodic store maintenance.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/ingest"
	"jobfeed-engine/internal/query"
)

const watchSpec = "@every 30s"

type Store interface {
	Checkpoint(ctx context.Context, full bool) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Publisher interface {
	Publish(e events.Event)
}

// Invalidator drops cached entries; *cache.Redis satisfies it.
type Invalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type Config struct {
	CheckpointSchedule string
	CleanupSchedule    string
	// RetentionDays <= 0 disables cleanup.
	RetentionDays int
	// DataDir is watched for new last_run.json files.
	DataDir string
	// Cache is optional; cleanup drops the cached stats when it deletes rows.
	Cache Invalidator
}

type job struct {
	name, spec string
	run        func(context.Context) error
}

// Maintenance wraps robfig/cron: WAL checkpoints, retention cleanup and the
// import watcher that announces finished imports to SSE clients.
type Maintenance struct {
	cron  *cron.Cron
	store Store
	pub   Publisher
	cfg   Config
	now   func() time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func New(st Store, pub Publisher, cfg Config) *Maintenance {
	l := cronLogger{}
	return &Maintenance{
		cron:  cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		store: st,
		pub:   pub,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Start registers the jobs and starts the scheduler. The current last_run is
// taken as already announced.
func (m *Maintenance) Start(ctx context.Context) error {
	if lr, err := ingest.ReadLastRun(m.cfg.DataDir); err == nil && lr.LastRun != nil {
		m.lastSeen = *lr.LastRun
	}

	jobs := []job{
		{"checkpoint", m.cfg.CheckpointSchedule, m.Checkpoint},
		{"watch_imports", watchSpec, func(ctx context.Context) error {
			_, err := m.WatchImports(ctx)
			return err
		}},
	}
	if m.cfg.RetentionDays > 0 {
		jobs = append(jobs, job{"cleanup", m.cfg.CleanupSchedule, func(ctx context.Context) error {
			_, err := m.Cleanup(ctx)
			return err
		}})
	}

	for _, j := range jobs {
		j := j
		if j.spec == "" {
			continue
		}
		if _, err := m.cron.AddFunc(j.spec, func() {
			if err := j.run(ctx); err != nil {
				log.Error().Str("component", "scheduler").Str("job", j.name).Err(err).Msg("job failed")
			}
		}); err != nil {
			return fmt.Errorf("cron.AddFunc %s(%q): %w", j.name, j.spec, err)
		}
	}

	m.cron.Start()
	log.Info().Str("component", "scheduler").
		Str("checkpoint", m.cfg.CheckpointSchedule).
		Str("cleanup", m.cfg.CleanupSchedule).
		Int("retention_days", m.cfg.RetentionDays).
		Msg("maintenance started")
	return nil
}

// Stop waits for running jobs to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
	log.Info().Str("component", "scheduler").Msg("maintenance stopped")
}

func (m *Maintenance) Checkpoint(ctx context.Context) error {
	return m.store.Checkpoint(ctx, false)
}

// Cleanup deletes unsaved jobs stored longer than the retention window.
func (m *Maintenance) Cleanup(ctx context.Context) (int64, error) {
	if m.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := m.now().UTC().AddDate(0, 0, -m.cfg.RetentionDays)
	n, err := m.store.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Str("component", "scheduler").Int64("deleted", n).Time("cutoff", cutoff).Msg("old jobs removed")
		if m.cfg.Cache != nil {
			if err := m.cfg.Cache.Delete(ctx, query.StatsCacheKey); err != nil {
				log.Warn().Str("component", "scheduler").Err(err).Msg("stats cache invalidation failed")
			}
		}
		m.publish(events.New("", events.TypeJobsPruned, events.JobsPruned{Deleted: n}))
	}
	return n, nil
}

// WatchImports publishes jobs_imported once per new last_run.json.
func (m *Maintenance) WatchImports(_ context.Context) (bool, error) {
	lr, err := ingest.ReadLastRun(m.cfg.DataDir)
	if err != nil {
		return false, err
	}
	if lr.LastRun == nil {
		return false, nil
	}

	m.mu.Lock()
	fresh := lr.LastRun.After(m.lastSeen)
	if fresh {
		m.lastSeen = *lr.LastRun
	}
	m.mu.Unlock()

	if fresh {
		m.publish(events.New("", events.TypeJobsImported, events.JobsImported{
			NewJobs: lr.NewJobs,
			Total:   lr.Total,
			LastRun: *lr.LastRun,
		}))
	}
	return fresh, nil
}

func (m *Maintenance) publish(e events.Event) {
	if m.pub != nil {
		m.pub.Publish(e)
	}
}

// cronLogger routes robfig/cron's logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Str("component", "cron").Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Str("component", "cron").Err(err).Fields(keysAndValues).Msg(msg)
}
