package query

import (
	"strings"
	"time"

	"jobfeed-engine/internal/store"
)

// SmartViewMinScore is the curation floor of Smart View.
const SmartViewMinScore = 70

// smartViewWindow is how far back Smart View looks for fresh postings.
const smartViewWindow = 7

// Predicate is a conjunction of SQL clauses over the jobs table with the
// values they bind, in placeholder order. Clauses only ever contain column
// names, registered column functions, operators and '?' placeholders.
type Predicate struct {
	Clauses []string
	Args    []any
}

func (p *Predicate) add(clause string, args ...any) {
	p.Clauses = append(p.Clauses, clause)
	p.Args = append(p.Args, args...)
}

// Where renders the predicate as a WHERE clause ("" when empty).
func (p Predicate) Where() string {
	if len(p.Clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Clauses, " AND ")
}

// Compile turns criteria into a predicate. today is the UTC calendar day the
// date filters are relative to.
func Compile(c Criteria, today time.Time) Predicate {
	var p Predicate
	day := today.UTC().Format("2006-01-02")
	daysAgo := func(n int) string {
		return today.UTC().AddDate(0, 0, -n).Format("2006-01-02")
	}

	p.add(store.MatchScoreSQL+" >= ?", c.MinScore)

	if c.RemoteOnly {
		p.add("remote = 1")
	}
	if c.Keyword != "" {
		kw := likeContains(c.Keyword)
		p.add(`(`+store.FoldSQL("title")+` LIKE ? ESCAPE '\' OR `+store.FoldSQL("company")+` LIKE ? ESCAPE '\')`, kw, kw)
	}
	if c.Source != "" {
		p.add(store.FoldSQL("source")+` LIKE ? ESCAPE '\'`, likeContains(c.Source))
	}
	if c.Country != "" {
		p.add("country = ?", strings.ToUpper(c.Country))
	}
	if c.IndiaOnly {
		p.add("is_india = 1")
	}
	if c.FAANGOnly {
		p.add("is_faang = 1")
	}
	if c.VisaOnly {
		p.add("visa_sponsored = 1")
	}
	if c.EquityOnly {
		p.add("has_equity = 1")
	}
	// NULL salaries fail both comparisons, which is the intended reading.
	if c.MinSalary > 0 {
		p.add("salary_min_lpa >= ?", c.MinSalary)
	}
	if c.MaxSalary > 0 {
		p.add("salary_max_lpa <= ?", c.MaxSalary)
	}
	if c.TodayOnly {
		p.add(store.PostedDaySQL+" = ?", day)
	}
	if c.MaxDaysAgo > 0 {
		p.add(store.PostedDaySQL+" >= ?", daysAgo(c.MaxDaysAgo))
	}
	if c.Company != "" {
		p.add(store.FoldSQL("company")+` LIKE ? ESCAPE '\'`, likeContains(c.Company))
	}

	if c.SmartView {
		since := daysAgo(smartViewWindow)
		p.add(store.MatchScoreSQL+" >= ?", SmartViewMinScore)
		p.add("("+store.PostedDaySQL+" >= ? OR created_at >= ?)", since, since)
		p.add("(salary_min_lpa > 0 OR remote = 1 OR is_india = 1 OR is_faang = 1)")
	}

	return p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains builds a substring pattern in which the user's text matches
// literally. It is folded with strings.ToLower, the same function behind the
// fold() column wrapper, so non-ASCII letters match case-insensitively.
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
