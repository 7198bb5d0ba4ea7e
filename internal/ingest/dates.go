package ingest

import (
	"strings"
	"time"

	"jobfeed-engine/internal/domain"
)

// fallbackLayouts are tried in order after ISO; day-first wins over
// month-first when both parse.
var fallbackLayouts = []string{
	"02/01/2006",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02-01-2006",
}

// NormalizeDate returns s as YYYY-MM-DD, or "" when it cannot be read.
// An ISO timestamp keeps only its date part.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) >= 10 {
		if t, err := time.Parse(domain.DateLayout, s[:10]); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return ""
}
