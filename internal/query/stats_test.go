package query

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/cache"
	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/store"
)

func TestStats_EmptyStore(t *testing.T) {
	e, _ := newEngine(t)

	s, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{BySource: map[string]int{}}, s)
}

func TestStats_CountsIgnoreFilters(t *testing.T) {
	a := mkJob("a", 10)
	a.Source = "serp_lever"
	a.Remote = true
	a.SalaryMinLPA = lpa(15)
	b := mkJob("b", 20)
	b.Source = "serp_greenhouse"
	b.IsIndia = true
	b.CreatedAt = testNow.AddDate(0, 0, -1)
	c := mkJob("c", 95)
	c.IsFAANG = true
	c.SalaryMinLPA = lpa(0)

	e, _ := newEngine(t, a, b, c)

	s, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Total:      3,
		Today:      2,
		BySource:   map[string]int{"serp_lever": 1, "serp_greenhouse": 1, "lever": 1},
		India:      1,
		Remote:     1,
		FAANG:      1,
		WithSalary: 1,
	}, s)
}

func TestStats_ServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.Dial(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	db := openStore(t)
	_, err = db.UpsertJobs(context.Background(), []domain.Job{mkJob("a", 1)}, testNow)
	require.NoError(t, err)

	e := New(db, Options{Now: func() time.Time { return testNow }, Cache: rc, StatsTTL: time.Minute})

	first, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)
	assert.True(t, mr.Exists(StatsCacheKey))

	// a new row is invisible until the entry expires or is invalidated
	_, err = db.UpsertJobs(context.Background(), []domain.Job{mkJob("b", 1)}, testNow)
	require.NoError(t, err)
	cached, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Total)

	require.NoError(t, rc.Delete(context.Background(), StatsCacheKey))
	fresh, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Total)
}

func TestStats_BrokenCacheFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.Dial(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	require.NoError(t, mr.Set(StatsCacheKey, "not json"))
	e, _ := newEngine(t, mkJob("a", 1))
	e.opts.Cache = rc

	s, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)

	mr.Close()
	s, err = e.Stats(context.Background())
	require.NoError(t, err, "an unreachable cache must not fail stats")
	assert.Equal(t, 1, s.Total)
}

func TestStats_StoreDown(t *testing.T) {
	e, db := newEngine(t)
	require.NoError(t, db.Close())

	_, err := e.Stats(context.Background())
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestStats_CacheEntryEndsAtMidnight(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.Dial(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	lateNight := time.Date(2026, 3, 14, 23, 59, 30, 0, time.UTC)
	e := New(openStore(t), Options{Now: func() time.Time { return lateNight }, Cache: rc, StatsTTL: time.Hour})

	_, err = e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL(StatsCacheKey))

	e.opts.Now = func() time.Time { return testNow }
	assert.Equal(t, time.Hour, e.statsTTL())
}
