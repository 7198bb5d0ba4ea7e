package ingest

// Record is one posting as the scrapers hand it over in their JSON exports.
// Only title, company and apply_url are required.
type Record struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Remote         bool     `json:"remote"`
	ApplyURL       string   `json:"apply_url"`
	Source         string   `json:"source"`
	SourceType     string   `json:"source_type"`
	PostedDate     string   `json:"posted_date"`
	MatchScore     *int     `json:"match_score"`
	Country        string   `json:"country"`
	State          string   `json:"state"`
	City           string   `json:"city"`
	IsIndia        bool     `json:"is_india"`
	IsFAANG        bool     `json:"is_faang"`
	VisaSponsored  bool     `json:"visa_sponsored"`
	HasEquity      bool     `json:"has_equity"`
	SalaryMinLPA   *float64 `json:"salary_min_lpa"`
	SalaryMaxLPA   *float64 `json:"salary_max_lpa"`
	SalaryCurrency string   `json:"salary_currency"`
}
