package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/rank"
)

const jobColumns = `id, title, company, location, remote, apply_url, source, source_type,
  posted_date, match_score, created_at, country, state, city,
  is_india, is_faang, visa_sponsored, has_equity,
  salary_min_lpa, salary_max_lpa, salary_currency, saved`

// Selection is a compiled read: a WHERE clause with its bound args and a
// whitelisted ORDER BY. Both clauses come from the query compiler, never from
// user input.
type Selection struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// PageResult is one page of a Selection and the size of the whole match set.
type PageResult struct {
	Jobs  []domain.Job
	Total int
}

// Page counts and reads one page of sel inside a single read transaction so
// the total and the rows come from the same snapshot.
func (d *DB) Page(ctx context.Context, sel Selection) (PageResult, error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return PageResult{}, unavailable("begin read", err)
	}
	defer func() { _ = tx.Rollback() }()

	var res PageResult
	countQ := `SELECT COUNT(*) FROM jobs ` + sel.Where + `;`
	if err := tx.QueryRowContext(ctx, countQ, sel.Args...).Scan(&res.Total); err != nil {
		return PageResult{}, unavailable("count jobs", err)
	}

	// nothing past the end; skip the scan but keep the true total
	if res.Total == 0 || sel.Offset >= res.Total {
		res.Jobs = []domain.Job{}
		return res, tx.Commit()
	}

	pageQ := fmt.Sprintf(`SELECT %s FROM jobs %s %s LIMIT ? OFFSET ?;`, jobColumns, sel.Where, sel.OrderBy)
	args := append(append([]any{}, sel.Args...), sel.Limit, sel.Offset)

	rows, err := tx.QueryContext(ctx, pageQ, args...)
	if err != nil {
		return PageResult{}, unavailable("list jobs", err)
	}
	defer rows.Close()

	res.Jobs = make([]domain.Job, 0, sel.Limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return PageResult{}, unavailable("scan job", err)
		}
		res.Jobs = append(res.Jobs, j)
	}
	if err := rows.Err(); err != nil {
		return PageResult{}, unavailable("list jobs", err)
	}
	return res, tx.Commit()
}

func (d *DB) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row := d.Pool.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? LIMIT 1;`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, ErrNotFound
	}
	if err != nil {
		return domain.Job{}, unavailable("get job", err)
	}
	return j, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanJob reads one row. Rows that break record invariants are repaired and
// logged rather than failing the whole read.
func scanJob(s scanner) (domain.Job, error) {
	var (
		j          domain.Job
		posted     sql.NullString
		createdStr string
		salMin     sql.NullFloat64
		salMax     sql.NullFloat64
	)
	if err := s.Scan(
		&j.ID,
		&j.Title,
		&j.Company,
		&j.Location,
		&j.Remote,
		&j.ApplyURL,
		&j.Source,
		&j.SourceType,
		&posted,
		&j.MatchScore,
		&createdStr,
		&j.Country,
		&j.State,
		&j.City,
		&j.IsIndia,
		&j.IsFAANG,
		&j.VisaSponsored,
		&j.HasEquity,
		&salMin,
		&salMax,
		&j.SalaryCurrency,
		&j.Saved,
	); err != nil {
		return domain.Job{}, err
	}

	if c := rank.ClampScore(j.MatchScore); c != j.MatchScore {
		log.Warn().Str("component", "store").Str("id", j.ID).Int("match_score", j.MatchScore).
			Msg("match_score out of range; clamped")
		j.MatchScore = c
	}

	if posted.Valid {
		if d, ok := postedDay(posted.String); ok {
			j.PostedDate = d
		} else if strings.TrimSpace(posted.String) != "" {
			log.Warn().Str("component", "store").Str("id", j.ID).Str("posted_date", posted.String).
				Msg("unparseable posted_date; treating as absent")
		}
	}

	if t, ok := ParseTimestamp(createdStr); ok {
		j.CreatedAt = t
	} else {
		log.Warn().Str("component", "store").Str("id", j.ID).Str("created_at", createdStr).
			Msg("unparseable created_at")
	}

	if salMin.Valid {
		v := salMin.Float64
		j.SalaryMinLPA = &v
	}
	if salMax.Valid {
		v := salMax.Float64
		j.SalaryMaxLPA = &v
	}
	return j, nil
}
