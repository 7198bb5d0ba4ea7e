package rank

import "strings"

// Mode names an ordering of the candidate set.
type Mode string

const (
	ModeNewest Mode = "newest"
	ModeScore  Mode = "score"
	ModeSalary Mode = "salary"
	ModeDate   Mode = "date"
	ModeSmart  Mode = "smart"
)

// ResolveMode applies the precedence: an explicit, known sort_by wins; then
// smart when Smart View is on; newest otherwise.
func ResolveMode(sortBy string, smartView bool) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(sortBy))); m {
	case ModeNewest, ModeScore, ModeSalary, ModeDate, ModeSmart:
		return m
	}
	if smartView {
		return ModeSmart
	}
	return ModeNewest
}
