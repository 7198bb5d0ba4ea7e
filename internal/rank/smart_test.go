package rank

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobfeed-engine/internal/domain"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

func TestFreshnessBucket(t *testing.T) {
	cases := []struct {
		age  int
		want float64
	}{
		{-3, 100}, {0, 100}, {1, 80}, {2, 50}, {3, 50}, {4, 20}, {7, 20}, {8, 5}, {400, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FreshnessBucket(c.age), "age %d", c.age)
	}
}

func TestAgeDays_UsesCalendarDays(t *testing.T) {
	lateYesterday := time.Date(2026, 3, 13, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, AgeDays(lateYesterday, now))
	assert.Equal(t, 0, AgeDays(time.Date(2026, 3, 14, 0, 0, 1, 0, time.UTC), now))
	assert.Equal(t, -1, AgeDays(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), now))
}

func TestEffectiveDate_FallsBackToCreatedAt(t *testing.T) {
	created := now.AddDate(0, 0, -2)

	in := Inputs{PostedDate: "2026-03-01", CreatedAt: created}
	assert.Equal(t, "2026-03-01", EffectiveDate(in).Format(domain.DateLayout))

	in.PostedDate = ""
	assert.Equal(t, "2026-03-12", EffectiveDate(in).Format(domain.DateLayout))

	in.PostedDate = "03/01/2026"
	assert.Equal(t, "2026-03-12", EffectiveDate(in).Format(domain.DateLayout))
}

func TestSalarySignal(t *testing.T) {
	assert.Equal(t, 0.0, SalarySignal(nil))
	assert.Equal(t, 0.0, SalarySignal(f(-5)))
	assert.Equal(t, 0.0, SalarySignal(f(math.NaN())))
	assert.Equal(t, 42.5, SalarySignal(f(42.5)))
	assert.Equal(t, 100.0, SalarySignal(f(250)))
}

// X: 0.5*80 + 0.3*100 + 0.2*0 = 70; Y: 0.5*60 + 0.3*5 + 0.2*50 = 41.5.
func TestSmartScore_WorkedExample(t *testing.T) {
	x := Inputs{MatchScore: 80, PostedDate: "2026-03-14", CreatedAt: now, SalaryMinLPA: f(0)}
	y := Inputs{MatchScore: 60, PostedDate: "2026-03-04", CreatedAt: now.AddDate(0, 0, -10), SalaryMinLPA: f(50)}

	assert.InDelta(t, 70.0, SmartScore(x, now), 1e-9)
	assert.InDelta(t, 41.5, SmartScore(y, now), 1e-9)
}

func TestSmartScore_PureAndBounded(t *testing.T) {
	in := Inputs{MatchScore: 250, PostedDate: "2026-03-14", SalaryMinLPA: f(1e6)}
	first := SmartScore(in, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SmartScore(in, now))
	}
	assert.Equal(t, 100.0, first)

	in = Inputs{MatchScore: -10, CreatedAt: now.AddDate(-1, 0, 0)}
	assert.InDelta(t, 1.5, SmartScore(in, now), 1e-9)
}

func TestResolveMode(t *testing.T) {
	cases := []struct {
		sortBy string
		smart  bool
		want   Mode
	}{
		{"", false, ModeNewest},
		{"", true, ModeSmart},
		{"score", true, ModeScore},
		{"SALARY", false, ModeSalary},
		{" date ", false, ModeDate},
		{"smart", false, ModeSmart},
		{"bogus", false, ModeNewest},
		{"bogus", true, ModeSmart},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ResolveMode(c.sortBy, c.smart), "sort_by=%q smart=%v", c.sortBy, c.smart)
	}
}

func TestSort_EveryModeIsTotal(t *testing.T) {
	base := now.Add(-time.Hour)
	jobs := []domain.Job{
		{ID: "b", MatchScore: 50, CreatedAt: base},
		{ID: "a", MatchScore: 50, CreatedAt: base},
		{ID: "c", MatchScore: 90, CreatedAt: base.Add(-time.Hour), PostedDate: "2026-03-10", SalaryMinLPA: f(12)},
		{ID: "d", MatchScore: 10, CreatedAt: base.Add(time.Minute), PostedDate: "2026-03-14"},
	}

	for _, m := range []Mode{ModeNewest, ModeScore, ModeSalary, ModeDate, ModeSmart} {
		got := append([]domain.Job(nil), jobs...)
		Sort(got, m, now)
		assert.True(t, IsOrdered(got, m, now), m)

		// identical score and time: id decides
		var ia, ib int
		for i, j := range got {
			switch j.ID {
			case "a":
				ia = i
			case "b":
				ib = i
			}
		}
		assert.Less(t, ia, ib, m)
	}
}

func TestSort_Modes(t *testing.T) {
	base := now.Add(-time.Hour)
	jobs := []domain.Job{
		{ID: "old-high", MatchScore: 95, CreatedAt: base.Add(-48 * time.Hour), PostedDate: "2026-03-01"},
		{ID: "new-low", MatchScore: 20, CreatedAt: base, SalaryMinLPA: f(60)},
		{ID: "mid", MatchScore: 60, CreatedAt: base.Add(-time.Hour), PostedDate: "2026-03-13", SalaryMinLPA: f(10)},
	}
	ids := func(js []domain.Job) []string {
		out := make([]string, len(js))
		for i, j := range js {
			out[i] = j.ID
		}
		return out
	}

	cases := map[Mode][]string{
		ModeNewest: {"new-low", "mid", "old-high"},
		ModeScore:  {"old-high", "mid", "new-low"},
		ModeSalary: {"new-low", "mid", "old-high"},
		ModeDate:   {"mid", "old-high", "new-low"},
	}
	for m, want := range cases {
		got := append([]domain.Job(nil), jobs...)
		Sort(got, m, now)
		assert.Equal(t, want, ids(got), m)
	}
}
