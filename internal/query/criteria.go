package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Criteria are the optional filters of a job listing. Zero values mean
// "no constraint" except MinScore, which is always applied.
type Criteria struct {
	MinScore   int
	RemoteOnly bool
	Keyword    string
	Source     string
	Country    string
	IndiaOnly  bool
	FAANGOnly  bool
	VisaOnly   bool
	EquityOnly bool
	MinSalary  float64
	MaxSalary  float64
	TodayOnly  bool
	MaxDaysAgo int
	Company    string
	SmartView  bool
	SortBy     string

	// SavedOnly filters the returned page only; see Page.SavedPostFiltered.
	SavedOnly bool
}

// Request is a listing call as it arrives from a client.
type Request struct {
	Criteria Criteria
	Page     int
	PerPage  int
}

// ParseRequest reads query-string parameters. Invalid numbers fall back to
// their defaults instead of failing; per_page is clamped later by the engine.
func ParseRequest(q url.Values) Request {
	return Request{
		Page:    intParam(q, "page", 1),
		PerPage: intParam(q, "per_page", 0),
		Criteria: Criteria{
			MinScore:   intParam(q, "min_score", 0),
			RemoteOnly: boolParam(q, "remote"),
			Keyword:    strings.TrimSpace(q.Get("keyword")),
			Source:     strings.TrimSpace(q.Get("source")),
			Country:    strings.TrimSpace(q.Get("country")),
			IndiaOnly:  boolParam(q, "india"),
			FAANGOnly:  boolParam(q, "faang"),
			VisaOnly:   boolParam(q, "visa"),
			EquityOnly: boolParam(q, "equity"),
			MinSalary:  floatParam(q, "min_salary"),
			MaxSalary:  floatParam(q, "max_salary"),
			TodayOnly:  boolParam(q, "today"),
			MaxDaysAgo: intParam(q, "max_days_ago", 0),
			Company:    strings.TrimSpace(q.Get("company")),
			SmartView:  boolParam(q, "smart_view"),
			SortBy:     strings.TrimSpace(q.Get("sort_by")),
			SavedOnly:  boolParam(q, "saved"),
		},
	}
}

func boolParam(q url.Values, key string) bool {
	switch strings.ToLower(strings.TrimSpace(q.Get(key))) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func intParam(q url.Values, key string, def int) int {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatParam(q url.Values, key string) float64 {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
