package store

import (
	"database/sql/driver"
	"time"

	"modernc.org/sqlite"

	"jobfeed-engine/internal/rank"
)

// SmartScoreSQL is the ORDER BY expression for Smart View. The single
// parameter is "now" in unix seconds.
const SmartScoreSQL = `smart_score(match_score, ` + PostedDaySQL + `, created_at, salary_min_lpa, ?)`

func init() {
	// Connections opened after registration see the function; Open runs later.
	sqlite.MustRegisterDeterministicScalarFunction("smart_score", 5, smartScoreFunc)
}

// smartScoreFunc adapts rank.SmartScore to SQLite values so the database
// orders by exactly the Go computation.
func smartScoreFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	in := rank.Inputs{
		MatchScore: int(asInt(args[0])),
		PostedDate: asString(args[1]),
	}
	if t, ok := ParseTimestamp(asString(args[2])); ok {
		in.CreatedAt = t
	}
	if f, ok := asFloat(args[3]); ok {
		in.SalaryMinLPA = &f
	}
	now := time.Unix(asInt(args[4]), 0).UTC()
	return rank.SmartScore(in, now), nil
}

func asInt(v driver.Value) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat(v driver.Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func asString(v driver.Value) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return ""
	}
}
