package domain

import "time"

// DateLayout is the calendar-date encoding used for posted_date.
const DateLayout = "2006-01-02"

// Job is one aggregated posting as stored and served.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Remote         bool      `json:"remote"`
	ApplyURL       string    `json:"apply_url"`
	Source         string    `json:"source"`
	SourceType     string    `json:"source_type"`
	PostedDate     string    `json:"posted_date,omitempty"` // YYYY-MM-DD, "" when the source gave none
	MatchScore     int       `json:"match_score"`
	CreatedAt      time.Time `json:"created_at"`
	Country        string    `json:"country"`
	State          string    `json:"state"`
	City           string    `json:"city"`
	IsIndia        bool      `json:"is_india"`
	IsFAANG        bool      `json:"is_faang"`
	VisaSponsored  bool      `json:"visa_sponsored"`
	HasEquity      bool      `json:"has_equity"`
	SalaryMinLPA   *float64  `json:"salary_min_lpa"`
	SalaryMaxLPA   *float64  `json:"salary_max_lpa"`
	SalaryCurrency string    `json:"salary_currency"`
	Saved          bool      `json:"saved"`
}

// PostedOn parses PostedDate. ok is false when the date is absent or invalid.
func (j Job) PostedOn() (t time.Time, ok bool) {
	if j.PostedDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, j.PostedDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SalaryFloor returns SalaryMinLPA with a missing value read as zero.
func (j Job) SalaryFloor() float64 {
	if j.SalaryMinLPA == nil {
		return 0
	}
	return *j.SalaryMinLPA
}
