// engine/internal/rank/rule_scorer.go
package rank

import (
	"strings"

	"jobfeed-engine/internal/config"
)

const (
	keywordOnlyScore = 40
	maxScore         = 100
)

var remoteTerms = []string{"remote", "work from home", "wfh", "anywhere"}

// RuleScorer scores titles against the configured tiers.
//
// A penalty hit zeroes the posting. Otherwise the heaviest title tier that
// matches sets the base; failing that any keyword rule gives its weight (or 40
// when the rule carries none). Remote and FAANG bonuses are added on top and
// the total is capped at 100.
type RuleScorer struct {
	Cfg config.Scoring
}

func (s RuleScorer) Score(p Posting) (int, []string) {
	title := strings.ToLower(p.Title)
	text := strings.ToLower(p.Title + " " + p.Description)

	for _, pen := range s.Cfg.Penalties {
		if containsAny(title, pen.Any) {
			return 0, []string{"penalty:" + pen.Reason}
		}
	}

	score := 0
	var tags []string
	for _, r := range s.Cfg.TitleRules {
		if r.Weight > score && containsAny(title, r.Any) {
			score = r.Weight
			tags = []string{r.Tag}
		}
	}

	if score == 0 {
		for _, r := range s.Cfg.KeywordRules {
			if containsAny(text, r.Any) {
				score = r.Weight
				if score == 0 {
					score = keywordOnlyScore
				}
				tags = append(tags, r.Tag)
				break
			}
		}
	}
	if score == 0 {
		return 0, nil
	}

	combined := title + " " + strings.ToLower(p.Location)
	if p.Remote || containsAny(combined, remoteTerms) {
		score += s.Cfg.RemoteBonus
		tags = append(tags, "remote")
	}
	if p.FAANG {
		score += s.Cfg.FAANGBonus
		tags = append(tags, "faang")
	}

	return ClampScore(score), uniq(tags)
}

// ClampScore forces a match score into [0,100].
func ClampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxScore {
		return maxScore
	}
	return n
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		n := strings.ToLower(strings.TrimSpace(needle))
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
