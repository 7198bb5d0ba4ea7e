package rank

import (
	"sort"
	"time"

	"jobfeed-engine/internal/domain"
)

// Less returns the strict ordering used for mode. Every mode ends on id so
// the order is total; the store's ORDER BY clauses mirror these comparators.
func Less(mode Mode, now time.Time) func(a, b domain.Job) bool {
	switch mode {
	case ModeScore:
		return func(a, b domain.Job) bool {
			if a.MatchScore != b.MatchScore {
				return a.MatchScore > b.MatchScore
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	case ModeSalary:
		return func(a, b domain.Job) bool {
			if sa, sb := a.SalaryFloor(), b.SalaryFloor(); sa != sb {
				return sa > sb
			}
			if a.MatchScore != b.MatchScore {
				return a.MatchScore > b.MatchScore
			}
			return a.ID < b.ID
		}
	case ModeDate:
		return func(a, b domain.Job) bool {
			// "" sorts below any date, so undated postings land last
			if a.PostedDate != b.PostedDate {
				return a.PostedDate > b.PostedDate
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	case ModeSmart:
		return func(a, b domain.Job) bool {
			if sa, sb := SmartScore(InputsOf(a), now), SmartScore(InputsOf(b), now); sa != sb {
				return sa > sb
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	default:
		return func(a, b domain.Job) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			if a.MatchScore != b.MatchScore {
				return a.MatchScore > b.MatchScore
			}
			return a.ID < b.ID
		}
	}
}

// Sort orders jobs in place for mode.
func Sort(jobs []domain.Job, mode Mode, now time.Time) {
	less := Less(mode, now)
	sort.SliceStable(jobs, func(i, j int) bool { return less(jobs[i], jobs[j]) })
}

// IsOrdered reports whether no adjacent pair of jobs violates mode.
func IsOrdered(jobs []domain.Job, mode Mode, now time.Time) bool {
	less := Less(mode, now)
	for i := 1; i < len(jobs); i++ {
		if less(jobs[i], jobs[i-1]) {
			return false
		}
	}
	return true
}
