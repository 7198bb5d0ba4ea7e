package domain

import "strings"

// Known feeds. Source is an open set; anything else is stored as given.
const (
	SourceGreenhouse = "greenhouse"
	SourceLever      = "lever"
	SourceAshby      = "ashby"
	SourceAdzuna     = "adzuna"
	SourceJSearch    = "jsearch"
	SourceRemoteOK   = "remoteok"
	SourceSerp       = "serp"
)

// serpPrefix groups search-engine discovered postings: serp_lever, serp_indeed, ...
const serpPrefix = SourceSerp + "_"

// NormalizeSource lower-cases and trims a feed name and maps spaces to underscores.
func NormalizeSource(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// SourceFamily returns the group a feed belongs to; serp_* feeds collapse to serp.
func SourceFamily(s string) string {
	s = NormalizeSource(s)
	if strings.HasPrefix(s, serpPrefix) {
		return SourceSerp
	}
	return s
}

// SourceTypeFor classifies a feed the way postings are tagged at import.
func SourceTypeFor(s string) string {
	switch SourceFamily(s) {
	case SourceGreenhouse, SourceLever, SourceAshby:
		return "ATS"
	case SourceSerp:
		return "Search"
	case SourceAdzuna, SourceJSearch:
		return "Aggregator"
	case SourceRemoteOK:
		return "Board"
	default:
		return "ATS"
	}
}
