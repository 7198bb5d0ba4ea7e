package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobfeed-engine/internal/domain"
)

type UpsertResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// UpsertJobs writes jobs in one transaction keyed by id. New rows get
// created_at = now unless the job carries one; existing rows keep their
// created_at and saved flag and take every other column from the new copy.
func (d *DB) UpsertJobs(ctx context.Context, jobs []domain.Job, now time.Time) (UpsertResult, error) {
	var res UpsertResult
	if len(jobs) == 0 {
		return res, nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return res, unavailable("begin upsert", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := tx.PrepareContext(ctx, `SELECT 1 FROM jobs WHERE id = ? LIMIT 1;`)
	if err != nil {
		return res, unavailable("prepare exists", err)
	}
	defer exists.Close()

	upsert, err := tx.PrepareContext(ctx, `
INSERT INTO jobs (
  id, title, company, location, remote, apply_url, source, source_type,
  posted_date, match_score, created_at, country, state, city,
  is_india, is_faang, visa_sponsored, has_equity,
  salary_min_lpa, salary_max_lpa, salary_currency
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  company = excluded.company,
  location = excluded.location,
  remote = excluded.remote,
  apply_url = excluded.apply_url,
  source = excluded.source,
  source_type = excluded.source_type,
  posted_date = excluded.posted_date,
  match_score = excluded.match_score,
  country = excluded.country,
  state = excluded.state,
  city = excluded.city,
  is_india = excluded.is_india,
  is_faang = excluded.is_faang,
  visa_sponsored = excluded.visa_sponsored,
  has_equity = excluded.has_equity,
  salary_min_lpa = excluded.salary_min_lpa,
  salary_max_lpa = excluded.salary_max_lpa,
  salary_currency = excluded.salary_currency;`)
	if err != nil {
		return res, unavailable("prepare upsert", err)
	}
	defer upsert.Close()

	for _, j := range jobs {
		if j.ID == "" {
			return res, fmt.Errorf("upsert job %q: empty id", j.Title)
		}

		var one int
		err := exists.QueryRowContext(ctx, j.ID).Scan(&one)
		isNew := errors.Is(err, sql.ErrNoRows)
		if err != nil && !isNew {
			return res, unavailable("check job", err)
		}

		created := j.CreatedAt
		if created.IsZero() {
			created = now
		}

		if _, err := upsert.ExecContext(ctx,
			j.ID,
			j.Title,
			j.Company,
			j.Location,
			j.Remote,
			j.ApplyURL,
			j.Source,
			j.SourceType,
			nullString(j.PostedDate),
			j.MatchScore,
			FormatTimestamp(created),
			j.Country,
			j.State,
			j.City,
			j.IsIndia,
			j.IsFAANG,
			j.VisaSponsored,
			j.HasEquity,
			nullFloat(j.SalaryMinLPA),
			nullFloat(j.SalaryMaxLPA),
			j.SalaryCurrency,
		); err != nil {
			return res, fmt.Errorf("upsert job %s: %w", j.ID, err)
		}

		if isNew {
			res.Added++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, unavailable("commit upsert", err)
	}
	return res, nil
}

func (d *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n); err != nil {
		return 0, unavailable("count jobs", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
