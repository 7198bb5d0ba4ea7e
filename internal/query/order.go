package query

import (
	"time"

	"jobfeed-engine/internal/rank"
	"jobfeed-engine/internal/store"
)

// orderClauses mirror rank.Less for each mode. Every clause ends on id so the
// order is total and OFFSET pagination partitions the match set.
var orderClauses = map[rank.Mode]string{
	rank.ModeNewest: `ORDER BY created_at DESC, ` + store.MatchScoreSQL + ` DESC, id ASC`,
	rank.ModeScore:  `ORDER BY ` + store.MatchScoreSQL + ` DESC, created_at DESC, id ASC`,
	rank.ModeSalary: `ORDER BY COALESCE(salary_min_lpa, 0) DESC, ` + store.MatchScoreSQL + ` DESC, id ASC`,
	rank.ModeDate:   `ORDER BY ` + store.PostedDaySQL + ` DESC, created_at DESC, id ASC`,
	rank.ModeSmart:  `ORDER BY ` + store.SmartScoreSQL + ` DESC, created_at ASC, id ASC`,
}

// orderBy returns the ORDER BY clause for mode and the args it binds. Its
// args follow the WHERE args.
func orderBy(mode rank.Mode, now time.Time) (string, []any) {
	clause, ok := orderClauses[mode]
	if !ok {
		return orderClauses[rank.ModeNewest], nil
	}
	if mode == rank.ModeSmart {
		return clause, []any{now.Unix()}
	}
	return clause, nil
}
