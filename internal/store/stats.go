package store

import (
	"context"
	"time"
)

// FlagCounts are the whole-table counters behind the stats endpoint.
type FlagCounts struct {
	Total      int
	Today      int
	India      int
	Remote     int
	FAANG      int
	WithSalary int
}

// CountFlags scans the table once. Today is [dayStart, dayStart+24h) on created_at.
func (d *DB) CountFlags(ctx context.Context, dayStart time.Time) (FlagCounts, error) {
	var c FlagCounts
	err := d.Pool.QueryRowContext(ctx, `
SELECT
  COUNT(*),
  COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN is_india = 1 THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN remote = 1 THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN is_faang = 1 THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN salary_min_lpa IS NOT NULL AND salary_min_lpa > 0 THEN 1 ELSE 0 END), 0)
FROM jobs;`,
		FormatTimestamp(dayStart), FormatTimestamp(dayStart.Add(24*time.Hour)),
	).Scan(&c.Total, &c.Today, &c.India, &c.Remote, &c.FAANG, &c.WithSalary)
	if err != nil {
		return FlagCounts{}, unavailable("count flags", err)
	}
	return c, nil
}

// CountBySource groups on the exact source string.
func (d *DB) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT source, COUNT(*) FROM jobs GROUP BY source;`)
	if err != nil {
		return nil, unavailable("count by source", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, unavailable("count by source", err)
		}
		out[src] = n
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("count by source", err)
	}
	return out, nil
}
