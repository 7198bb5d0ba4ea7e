package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"jobfeed-engine/internal/store"
)

// StatsCacheKey is the cache entry the importer invalidates after each run.
const StatsCacheKey = "jobfeed:stats:v1"

type Stats struct {
	Total      int            `json:"total"`
	Today      int            `json:"today"`
	BySource   map[string]int `json:"by_source"`
	India      int            `json:"india"`
	Remote     int            `json:"remote"`
	FAANG      int            `json:"faang"`
	WithSalary int            `json:"with_salary"`
}

// Stats summarizes the whole store. Filters never apply. A configured cache is
// consulted first; cache failures fall through to the store.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	if s, ok := e.cachedStats(ctx); ok {
		return s, nil
	}

	now := e.opts.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		flags    store.FlagCounts
		bySource map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flags, err = e.r.CountFlags(gctx, dayStart)
		return err
	})
	g.Go(func() error {
		var err error
		bySource, err = e.r.CountBySource(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	if bySource == nil {
		bySource = map[string]int{}
	}

	s := Stats{
		Total:      flags.Total,
		Today:      flags.Today,
		BySource:   bySource,
		India:      flags.India,
		Remote:     flags.Remote,
		FAANG:      flags.FAANG,
		WithSalary: flags.WithSalary,
	}
	e.storeStats(ctx, s)
	return s, nil
}

func (e *Engine) cachedStats(ctx context.Context) (Stats, bool) {
	if e.opts.Cache == nil {
		return Stats{}, false
	}
	b, ok, err := e.opts.Cache.Get(ctx, StatsCacheKey)
	if err != nil {
		log.Warn().Str("component", "query").Err(err).Msg("stats cache read failed")
		return Stats{}, false
	}
	if !ok {
		return Stats{}, false
	}
	var s Stats
	if err := json.Unmarshal(b, &s); err != nil {
		log.Warn().Str("component", "query").Err(err).Msg("stats cache entry undecodable")
		return Stats{}, false
	}
	if s.BySource == nil {
		s.BySource = map[string]int{}
	}
	return s, true
}

func (e *Engine) storeStats(ctx context.Context, s Stats) {
	if e.opts.Cache == nil || e.opts.StatsTTL <= 0 {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := e.opts.Cache.Set(ctx, StatsCacheKey, b, e.statsTTL()); err != nil {
		log.Warn().Str("component", "query").Err(err).Msg("stats cache write failed")
	}
}

// statsTTL caps the configured TTL at the next UTC midnight so a cached
// "today" count never outlives its day.
func (e *Engine) statsTTL() time.Duration {
	now := e.opts.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	if left := midnight.Sub(now); left < e.opts.StatsTTL {
		return left
	}
	return e.opts.StatsTTL
}
