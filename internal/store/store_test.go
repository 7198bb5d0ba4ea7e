package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/rank"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func lpa(v float64) *float64 { return &v }

func job(id string, score int) domain.Job {
	return domain.Job{
		ID:         id,
		Title:      "Engineer " + id,
		Company:    "Acme",
		ApplyURL:   "https://example.com/" + id,
		Source:     domain.SourceGreenhouse,
		SourceType: "ATS",
		MatchScore: score,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

func TestUpsertJobs_KeepsCreatedAtAndSaved(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.UpsertJobs(ctx, []domain.Job{job("a", 50), job("b", 60)}, testNow)
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Added: 2}, res)

	require.NoError(t, db.SetSaved(ctx, "a", true))

	updated := job("a", 75)
	updated.Title = "Staff Engineer"
	res, err = db.UpsertJobs(ctx, []domain.Job{updated}, testNow.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{Updated: 1}, res)

	got, err := db.GetJob(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, 75, got.MatchScore)
	assert.True(t, got.Saved)
	assert.True(t, got.CreatedAt.Equal(testNow), "created_at must survive re-ingestion, got %s", got.CreatedAt)

	n, err := db.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpsertJobs_RejectsEmptyID(t *testing.T) {
	db := openTestDB(t)
	_, err := db.UpsertJobs(context.Background(), []domain.Job{job("", 1)}, testNow)
	require.Error(t, err)
}

func TestGetJob_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJob_RoundTripsOptionalFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	j := job("x", 88)
	j.PostedDate = "2026-03-10"
	j.Country = "IN"
	j.IsIndia = true
	j.SalaryMinLPA = lpa(30)
	j.SalaryMaxLPA = lpa(45.5)
	j.SalaryCurrency = "INR"
	_, err := db.UpsertJobs(ctx, []domain.Job{j}, testNow)
	require.NoError(t, err)

	got, err := db.GetJob(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", got.PostedDate)
	assert.True(t, got.IsIndia)
	require.NotNil(t, got.SalaryMinLPA)
	assert.Equal(t, 30.0, *got.SalaryMinLPA)
	require.NotNil(t, got.SalaryMaxLPA)
	assert.Equal(t, 45.5, *got.SalaryMaxLPA)

	_, err = db.UpsertJobs(ctx, []domain.Job{job("y", 10)}, testNow)
	require.NoError(t, err)
	got, err = db.GetJob(ctx, "y")
	require.NoError(t, err)
	assert.Empty(t, got.PostedDate)
	assert.Nil(t, got.SalaryMinLPA)
}

func TestScanJob_RepairsCorruptRows(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Pool.Exec(`
INSERT INTO jobs (id, title, company, apply_url, source, posted_date, match_score, created_at)
VALUES ('bad', 't', 'c', 'u', 'lever', 'someday', 140, ?);`, FormatTimestamp(testNow))
	require.NoError(t, err)

	got, err := db.GetJob(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, 100, got.MatchScore)
	assert.Empty(t, got.PostedDate)
}

func TestSaved(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.UpsertJobs(ctx, []domain.Job{job("a", 1)}, testNow)
	require.NoError(t, err)

	saved, err := db.ToggleSaved(ctx, "a")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = db.ToggleSaved(ctx, "a")
	require.NoError(t, err)
	assert.False(t, saved)

	assert.ErrorIs(t, db.SetSaved(ctx, "nope", true), ErrNotFound)
	_, err = db.ToggleSaved(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleSaved_ConcurrentTogglesAreNotLost(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.UpsertJobs(ctx, []domain.Job{job("a", 1)}, testNow)
	require.NoError(t, err)

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := db.ToggleSaved(ctx, "a")
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	got, err := db.GetJob(ctx, "a")
	require.NoError(t, err)
	assert.False(t, got.Saved, "an even number of toggles ends unsaved")
}

func TestPage_TotalAndPastTheEnd(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.UpsertJobs(ctx, []domain.Job{job("a", 90), job("b", 60), job("c", 40)}, testNow)
	require.NoError(t, err)

	sel := Selection{
		Where:   "WHERE match_score >= ?",
		Args:    []any{50},
		OrderBy: "ORDER BY match_score DESC, id ASC",
		Limit:   1,
	}
	res, err := db.Page(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "a", res.Jobs[0].ID)

	sel.Offset = 5
	res, err = db.Page(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.NotNil(t, res.Jobs)
	assert.Empty(t, res.Jobs)
}

func TestPage_ClosedDBIsUnavailable(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Close())

	_, err := db.Page(context.Background(), Selection{OrderBy: "ORDER BY id", Limit: 10})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStats_Counts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	empty, err := db.CountFlags(ctx, testNow.Truncate(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, FlagCounts{}, empty)
	bySource, err := db.CountBySource(ctx)
	require.NoError(t, err)
	assert.Empty(t, bySource)

	a := job("a", 10)
	a.Remote = true
	a.SalaryMinLPA = lpa(20)
	b := job("b", 20)
	b.Source = "serp_lever"
	b.IsIndia = true
	b.IsFAANG = true
	b.SalaryMinLPA = lpa(0)
	b.CreatedAt = testNow.Add(-48 * time.Hour)
	c := job("c", 30)
	c.Source = "serp_greenhouse"
	_, err = db.UpsertJobs(ctx, []domain.Job{a, b, c}, testNow)
	require.NoError(t, err)

	flags, err := db.CountFlags(ctx, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, FlagCounts{Total: 3, Today: 2, India: 1, Remote: 1, FAANG: 1, WithSalary: 1}, flags)

	bySource, err = db.CountBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"greenhouse": 1, "serp_lever": 1, "serp_greenhouse": 1}, bySource)
}

func TestDeleteCreatedBefore_KeepsSaved(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	old := job("old", 1)
	old.CreatedAt = testNow.AddDate(0, 0, -40)
	oldSaved := job("old-saved", 1)
	oldSaved.CreatedAt = testNow.AddDate(0, 0, -40)
	_, err := db.UpsertJobs(ctx, []domain.Job{old, oldSaved, job("new", 1)}, testNow)
	require.NoError(t, err)
	require.NoError(t, db.SetSaved(ctx, "old-saved", true))

	n, err := db.DeleteCreatedBefore(ctx, testNow.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = db.GetJob(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetJob(ctx, "old-saved")
	assert.NoError(t, err)

	assert.NoError(t, db.Checkpoint(ctx, false))
}

func TestSmartScoreSQL_MatchesGo(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	today := job("today", 80)
	today.PostedDate = "2026-03-14"
	stale := job("stale", 60)
	stale.PostedDate = "2026-03-04"
	stale.SalaryMinLPA = lpa(50)
	undated := job("undated", 70)
	undated.CreatedAt = testNow.AddDate(0, 0, -2)
	rich := job("rich", 100)
	rich.SalaryMinLPA = lpa(400)
	_, err := db.UpsertJobs(ctx, []domain.Job{today, stale, undated, rich}, testNow)
	require.NoError(t, err)

	for _, id := range []string{"today", "stale", "undated", "rich"} {
		var got float64
		err := db.Pool.QueryRowContext(ctx,
			`SELECT `+SmartScoreSQL+` FROM jobs WHERE id = ?;`, testNow.Unix(), id,
		).Scan(&got)
		require.NoError(t, err)

		j, err := db.GetJob(ctx, id)
		require.NoError(t, err)
		assert.InDelta(t, rank.SmartScore(rank.InputsOf(j), testNow), got, 1e-9, id)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := map[string]bool{
		"2026-03-14T12:00:00.000000Z": true,
		"2026-03-14T12:00:00Z":        true,
		"2026-03-14T12:00:00.123456":  true,
		"2026-03-14 12:00:00":         true,
		"2026-03-14":                  true,
		"yesterday":                   false,
		"":                            false,
	}
	for in, ok := range cases {
		_, got := ParseTimestamp(in)
		assert.Equal(t, ok, got, in)
	}
	assert.Equal(t, "2026-03-14T12:00:00.000000Z", FormatTimestamp(testNow))
}

func TestColumnFunctions_MatchScanRepair(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	days := map[string]any{
		"2026-03-14":   "2026-03-14",
		" 2026-03-14 ": "2026-03-14",
		"2026-02-30":   nil,
		"yesterday":    nil,
		"2460000":      nil,
		"":             nil,
	}
	for in, want := range days {
		var got sql.NullString
		require.NoError(t, db.Pool.QueryRowContext(ctx, `SELECT posted_day(?);`, in).Scan(&got), in)
		if want == nil {
			assert.False(t, got.Valid, in)
		} else {
			assert.Equal(t, want, got.String, in)
		}
	}

	var score int
	require.NoError(t, db.Pool.QueryRowContext(ctx, `SELECT `+MatchScoreSQL+` FROM (SELECT 140 AS match_score);`).Scan(&score))
	assert.Equal(t, 100, score)

	var folded string
	require.NoError(t, db.Pool.QueryRowContext(ctx, `SELECT `+FoldSQL("?")+`;`, "ÉCOLE Go").Scan(&folded))
	assert.Equal(t, "école go", folded)
}
