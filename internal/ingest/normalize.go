package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/rank"
)

var ErrIncomplete = errors.New("record missing title, company or apply_url")

// Normalizer turns scraper records into store rows.
type Normalizer struct {
	Scorer rank.Scorer
	FAANG  []string
}

// JobID is the dedup key: md5 of lower(title)|lower(company)|lower(location).
func JobID(title, company, location string) string {
	raw := strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(company)) + "|" +
		strings.ToLower(strings.TrimSpace(location))
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (n Normalizer) Normalize(r Record) (domain.Job, error) {
	j := domain.Job{
		Title:          CleanText(r.Title),
		Company:        CleanText(r.Company),
		Location:       NormalizeLocation(r.Location),
		Remote:         r.Remote,
		ApplyURL:       CanonicalURL(r.ApplyURL),
		Source:         domain.NormalizeSource(r.Source),
		SourceType:     strings.TrimSpace(r.SourceType),
		PostedDate:     NormalizeDate(r.PostedDate),
		Country:        strings.ToUpper(strings.TrimSpace(r.Country)),
		State:          CleanText(r.State),
		City:           CleanText(r.City),
		IsIndia:        r.IsIndia,
		VisaSponsored:  r.VisaSponsored,
		HasEquity:      r.HasEquity,
		SalaryMinLPA:   salary(r.SalaryMinLPA),
		SalaryMaxLPA:   salary(r.SalaryMaxLPA),
		SalaryCurrency: strings.ToUpper(strings.TrimSpace(r.SalaryCurrency)),
	}
	if j.Title == "" || j.Company == "" || j.ApplyURL == "" {
		return domain.Job{}, fmt.Errorf("%w: %q at %q", ErrIncomplete, j.Title, j.Company)
	}

	j.ID = strings.TrimSpace(r.ID)
	if j.ID == "" {
		j.ID = JobID(j.Title, j.Company, j.Location)
	}
	if !j.Remote && mentionsRemote(j.Location) {
		j.Remote = true
	}
	if j.SourceType == "" {
		j.SourceType = domain.SourceTypeFor(j.Source)
	}
	if j.Country == "IN" {
		j.IsIndia = true
	}
	j.IsFAANG = r.IsFAANG || n.isFAANG(j.Company)

	if r.MatchScore != nil {
		j.MatchScore = rank.ClampScore(*r.MatchScore)
	} else if n.Scorer != nil {
		j.MatchScore, _ = n.Scorer.Score(rank.Posting{
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Description: CleanText(r.Description),
			Remote:      j.Remote,
			FAANG:       j.IsFAANG,
		})
	}
	return j, nil
}

// isFAANG matches the company against the list on whole words.
func (n Normalizer) isFAANG(company string) bool {
	c := " " + strings.Join(strings.FieldsFunc(fold(company), notWordRune), " ") + " "
	if strings.TrimSpace(c) == "" {
		return false
	}
	for _, name := range n.FAANG {
		name = strings.Join(strings.FieldsFunc(fold(name), notWordRune), " ")
		if name != "" && strings.Contains(c, " "+name+" ") {
			return true
		}
	}
	return false
}

func notWordRune(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 0x7f)
}

// salary drops values that cannot be a salary.
func salary(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return nil
	}
	out := *v
	return &out
}
