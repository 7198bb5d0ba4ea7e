package rank

import (
	"math"
	"time"

	"jobfeed-engine/internal/domain"
)

const (
	weightMatch     = 0.5
	weightFreshness = 0.3
	weightSalary    = 0.2

	salaryCapLPA = 100.0
)

// Inputs are the record fields the composite score reads.
type Inputs struct {
	MatchScore   int
	PostedDate   string // YYYY-MM-DD or ""
	CreatedAt    time.Time
	SalaryMinLPA *float64
}

func InputsOf(j domain.Job) Inputs {
	return Inputs{
		MatchScore:   j.MatchScore,
		PostedDate:   j.PostedDate,
		CreatedAt:    j.CreatedAt,
		SalaryMinLPA: j.SalaryMinLPA,
	}
}

// EffectiveDate is the UTC calendar day a posting counts as published:
// posted_date when it is present and valid, else the day of created_at.
func EffectiveDate(in Inputs) time.Time {
	if in.PostedDate != "" {
		if t, err := time.Parse(domain.DateLayout, in.PostedDate); err == nil {
			return t
		}
	}
	return day(in.CreatedAt)
}

// AgeDays counts whole UTC calendar days from eff to now. Future dates are negative.
func AgeDays(eff, now time.Time) int {
	return int(day(now).Sub(day(eff)).Hours() / 24)
}

// FreshnessBucket maps a posting age to its ranking contribution.
func FreshnessBucket(ageDays int) float64 {
	switch {
	case ageDays <= 0:
		return 100
	case ageDays <= 1:
		return 80
	case ageDays <= 3:
		return 50
	case ageDays <= 7:
		return 20
	default:
		return 5
	}
}

// SalarySignal is salary_min_lpa clamped to [0,100]; missing counts as 0.
func SalarySignal(minLPA *float64) float64 {
	if minLPA == nil || math.IsNaN(*minLPA) || *minLPA <= 0 {
		return 0
	}
	return math.Min(*minLPA, salaryCapLPA)
}

// SmartScore is the Smart View composite:
// 0.5*match + 0.3*freshness + 0.2*min(salary_min_lpa, 100).
func SmartScore(in Inputs, now time.Time) float64 {
	match := float64(ClampScore(in.MatchScore))
	fresh := FreshnessBucket(AgeDays(EffectiveDate(in), now))
	return weightMatch*match + weightFreshness*fresh + weightSalary*SalarySignal(in.SalaryMinLPA)
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
