package store

import (
	"database/sql/driver"
	"strings"
	"time"

	"modernc.org/sqlite"

	"jobfeed-engine/internal/domain"
)

// Column expressions that read rows the way scanJob serves them. Filters and
// ORDER BY clauses use these instead of the raw columns so a corrupt row is
// matched and ordered by the values a client receives.
const (
	// PostedDaySQL is posted_date when it is a valid YYYY-MM-DD, else NULL.
	PostedDaySQL = `posted_day(posted_date)`
	// MatchScoreSQL is match_score clamped to [0,100].
	MatchScoreSQL = `MIN(MAX(match_score, 0), 100)`
)

// FoldSQL wraps a column in the Unicode-aware lower-casing used by substring
// filters. SQLite's own LOWER only folds ASCII.
func FoldSQL(col string) string {
	return `fold(` + col + `)`
}

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("posted_day", 1, postedDayFunc)
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, foldFunc)
}

// postedDay returns the trimmed date and whether it is a valid calendar day.
func postedDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return "", false
	}
	return s, true
}

func postedDayFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if d, ok := postedDay(asString(args[0])); ok {
		return d, nil
	}
	return nil, nil
}

func foldFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if args[0] == nil {
		return nil, nil
	}
	return strings.ToLower(asString(args[0])), nil
}
