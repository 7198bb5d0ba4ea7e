package store

import (
	"strings"
	"time"
)

// TimestampLayout is fixed-width UTC so text order equals time order and a
// YYYY-MM-DD prefix compares correctly against stored values.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// legacy rows come from the python importer (isoformat, no zone)
var readLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateString formats the UTC calendar day of t as stored in posted_date.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
