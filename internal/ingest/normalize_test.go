package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/rank"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"  Senior   Go\tEngineer \n":                    "Senior Go Engineer",
		"<b>Backend</b> Engineer":                       "Backend Engineer",
		"<p>Build</p><p>things</p><script>x()</script>": "Build things",
		"Ｆｕｌｌ Stack":                                    "Full Stack",
		"Data Engineer":                                 "Data Engineer",
		"":                                              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanText(in), "%q", in)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2026-03-14":           "2026-03-14",
		"2026-03-14T08:00:00Z": "2026-03-14",
		"14/03/2026":           "2026-03-14",
		"03/14/2026":           "2026-03-14",
		"March 14, 2026":       "2026-03-14",
		"Mar 14, 2026":         "2026-03-14",
		"14-03-2026":           "2026-03-14",
		"2 days ago":           "",
		"":                     "",
		"2026-02-30":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDate(in), "%q", in)
	}
}

func TestJobID_StableAndCaseInsensitive(t *testing.T) {
	a := JobID("Go Engineer", "Acme", "Remote")
	b := JobID(" go engineer", "ACME ", "remote")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, JobID("Go Engineer", "Acme", "Berlin"))
	// md5("go engineer|acme|remote")
	assert.Equal(t, "f94b371353a9a11850d835dd31458359", a)
}

func TestNormalize(t *testing.T) {
	n := Normalizer{
		Scorer: rank.RuleScorer{Cfg: config.Scoring{
			TitleRules: []config.Rule{{Tag: "backend", Weight: 80, Any: []string{"backend"}}},
		}},
		FAANG: []string{"google", "goldman sachs", "arm"},
	}

	j, err := n.Normalize(Record{
		Title:        "<b>Backend</b>  Engineer",
		Company:      "Google India",
		Location:     "Bengaluru",
		ApplyURL:     " https://careers.google.com/1 ",
		Source:       "SERP Lever",
		PostedDate:   "14/03/2026",
		Country:      "in",
		SalaryMinLPA: floatp(-3),
		SalaryMaxLPA: floatp(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", j.Title)
	assert.Equal(t, JobID("Backend Engineer", "Google India", "Bengaluru"), j.ID)
	assert.Equal(t, "https://careers.google.com/1", j.ApplyURL)
	assert.Equal(t, "serp_lever", j.Source)
	assert.Equal(t, "Search", j.SourceType)
	assert.Equal(t, "2026-03-14", j.PostedDate)
	assert.Equal(t, "IN", j.Country)
	assert.True(t, j.IsIndia)
	assert.True(t, j.IsFAANG)
	assert.Nil(t, j.SalaryMinLPA)
	require.NotNil(t, j.SalaryMaxLPA)
	assert.Equal(t, 60.0, *j.SalaryMaxLPA)
	assert.Equal(t, 80, j.MatchScore)
}

func TestNormalize_ExplicitScoreIsClamped(t *testing.T) {
	n := Normalizer{}
	j, err := n.Normalize(Record{ID: "fixed", Title: "t", Company: "c", ApplyURL: "u", MatchScore: intp(180)})
	require.NoError(t, err)
	assert.Equal(t, "fixed", j.ID)
	assert.Equal(t, 100, j.MatchScore)
	assert.Equal(t, "ATS", j.SourceType)
}

func TestNormalize_Incomplete(t *testing.T) {
	_, err := Normalizer{}.Normalize(Record{Title: "  ", Company: "c", ApplyURL: "u"})
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestIsFAANG_WholeWords(t *testing.T) {
	n := Normalizer{FAANG: []string{"arm", "goldman sachs", "zomato"}}
	assert.True(t, n.isFAANG("ARM Holdings"))
	assert.True(t, n.isFAANG("Goldman  Sachs & Co."))
	assert.True(t, n.isFAANG("Zomató"))
	assert.False(t, n.isFAANG("Pharmacy Plus"))
	assert.False(t, n.isFAANG(""))
}
