package query

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/rank"
	"jobfeed-engine/internal/store"
)

const (
	defaultPerPage = 30
	defaultMaxPage = 200

	// maxTextLen bounds substring filters well under SQLite's LIKE pattern limit.
	maxTextLen = 200
)

// Reader is the slice of the job store the engine reads from.
type Reader interface {
	Page(ctx context.Context, sel store.Selection) (store.PageResult, error)
	GetJob(ctx context.Context, id string) (domain.Job, error)
	CountFlags(ctx context.Context, dayStart time.Time) (store.FlagCounts, error)
	CountBySource(ctx context.Context) (map[string]int, error)
}

// Cache holds encoded stats between imports. Misses report ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type Options struct {
	DefaultPerPage int
	MaxPerPage     int

	Cache    Cache
	StatsTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine answers list, lookup and stats requests. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	r    Reader
	opts Options
}

func New(r Reader, opts Options) *Engine {
	if opts.DefaultPerPage <= 0 {
		opts.DefaultPerPage = defaultPerPage
	}
	if opts.MaxPerPage <= 0 {
		opts.MaxPerPage = defaultMaxPage
	}
	if opts.DefaultPerPage > opts.MaxPerPage {
		opts.DefaultPerPage = opts.MaxPerPage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{r: r, opts: opts}
}

// Page is one page of a listing. Total counts every match before pagination.
type Page struct {
	Jobs    []domain.Job `json:"jobs"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`

	// SavedPostFiltered is set when the saved-only filter narrowed Jobs after
	// Total was counted, so Total may exceed the saved matches.
	SavedPostFiltered bool `json:"saved_post_filtered,omitempty"`
}

// ListJobs returns page `page` of the records matching c in c's sort mode.
func (e *Engine) ListJobs(ctx context.Context, c Criteria, page, perPage int) (Page, error) {
	if err := checkCriteria(c); err != nil {
		return Page{}, err
	}
	page, perPage = e.clampPaging(page, perPage)

	now := e.opts.Now().UTC()
	pred := Compile(c, now)
	order, orderArgs := orderBy(rank.ResolveMode(c.SortBy, c.SmartView), now)

	res, err := e.r.Page(ctx, store.Selection{
		Where:   pred.Where(),
		Args:    append(append([]any{}, pred.Args...), orderArgs...),
		OrderBy: order,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	})
	if err != nil {
		return Page{}, err
	}

	out := Page{Jobs: res.Jobs, Total: res.Total, Page: page, PerPage: perPage}
	if out.Jobs == nil {
		out.Jobs = []domain.Job{}
	}
	if c.SavedOnly {
		out.Jobs = savedOnly(out.Jobs)
		out.SavedPostFiltered = true
	}
	return out, nil
}

func (e *Engine) GetJob(ctx context.Context, id string) (domain.Job, error) {
	return e.r.GetJob(ctx, id)
}

func (e *Engine) clampPaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = e.opts.DefaultPerPage
	}
	if perPage > e.opts.MaxPerPage {
		perPage = e.opts.MaxPerPage
	}
	// keep the offset representable
	if maxPage := (1<<31 - 1) / perPage; page > maxPage {
		page = maxPage
	}
	return page, perPage
}

func checkCriteria(c Criteria) error {
	for name, v := range map[string]string{"keyword": c.Keyword, "company": c.Company, "source": c.Source, "country": c.Country} {
		if utf8.RuneCountInString(v) > maxTextLen {
			return fmt.Errorf("%w: %s longer than %d characters", ErrInvalidCriteria, name, maxTextLen)
		}
	}
	return nil
}

func savedOnly(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Saved {
			out = append(out, j)
		}
	}
	return out
}
