package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/query"
	"jobfeed-engine/internal/store"
)

const lockFile = "ingest.lock"

// ErrWriterBusy means another importer holds the data dir's writer lock.
var ErrWriterBusy = errors.New("another import is running")

type Writer interface {
	UpsertJobs(ctx context.Context, jobs []domain.Job, now time.Time) (store.UpsertResult, error)
	CountJobs(ctx context.Context) (int, error)
}

// Invalidator drops cached reads that an import makes stale.
type Invalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type Importer struct {
	Store      Writer
	Normalizer Normalizer
	DataDir    string

	// Parallel bounds concurrent file parsing; <= 0 means 4.
	Parallel int

	Cache Invalidator
	Now   func() time.Time
}

type Result struct {
	Files   int `json:"files"`
	Records int `json:"records"`
	Skipped int `json:"skipped"`
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// Run imports the given JSON exports as one batch. Only one Run per data dir
// proceeds at a time, across processes.
func (im *Importer) Run(ctx context.Context, paths ...string) (Result, error) {
	now := time.Now
	if im.Now != nil {
		now = im.Now
	}
	start := now()

	if err := os.MkdirAll(im.DataDir, 0o755); err != nil {
		return Result{}, err
	}
	lock := flock.New(filepath.Join(im.DataDir, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("ingest lock: %w", err)
	}
	if !ok {
		return Result{}, ErrWriterBusy
	}
	defer func() { _ = lock.Unlock() }()

	batches, err := im.readAll(ctx, paths)
	if err != nil {
		return Result{}, err
	}

	res := Result{Files: len(paths)}
	var (
		jobs  []domain.Job
		index = map[string]int{}
	)
	for i, batch := range batches {
		for _, r := range batch {
			res.Records++
			j, err := im.Normalizer.Normalize(r)
			if err != nil {
				res.Skipped++
				log.Warn().Str("component", "ingest").Str("file", paths[i]).Err(err).Msg("skipping record")
				continue
			}
			// later copies of a posting refresh earlier ones
			if k, dup := index[j.ID]; dup {
				jobs[k] = j
				continue
			}
			index[j.ID] = len(jobs)
			jobs = append(jobs, j)
		}
	}

	up, err := im.Store.UpsertJobs(ctx, jobs, now().UTC())
	if err != nil {
		return Result{}, err
	}
	res.Added, res.Updated = up.Added, up.Updated

	if res.Total, err = im.Store.CountJobs(ctx); err != nil {
		return Result{}, err
	}

	if im.Cache != nil {
		if err := im.Cache.Delete(ctx, query.StatsCacheKey); err != nil {
			log.Warn().Str("component", "ingest").Err(err).Msg("stats cache invalidation failed")
		}
	}

	finished := now().UTC()
	if err := WriteLastRun(im.DataDir, LastRun{
		LastRun:        &finished,
		NewJobs:        res.Added,
		Total:          res.Total,
		ElapsedSeconds: float64(finished.Sub(start).Round(100*time.Millisecond)) / float64(time.Second),
	}); err != nil {
		return res, fmt.Errorf("write last run: %w", err)
	}

	log.Info().Str("component", "ingest").
		Int("files", res.Files).
		Int("records", res.Records).
		Int("skipped", res.Skipped).
		Int("added", res.Added).
		Int("updated", res.Updated).
		Int("total", res.Total).
		Msg("import finished")
	return res, nil
}

func (im *Importer) readAll(ctx context.Context, paths []string) ([][]Record, error) {
	limit := im.Parallel
	if limit <= 0 {
		limit = 4
	}
	out := make([][]Record, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := ReadFile(p)
			if err != nil {
				return err
			}
			out[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFile accepts a JSON array of records or an object with a "jobs" array.
func ReadFile(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []Record
	if err := json.Unmarshal(b, &recs); err == nil {
		return recs, nil
	}
	var wrapped struct {
		Jobs []Record `json:"jobs"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return wrapped.Jobs, nil
}
