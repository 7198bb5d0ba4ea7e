package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// legacyColumns were added to the jobs table after its first release; older
// databases get them through ALTER TABLE.
var legacyColumns = []struct{ name, ddl string }{
	{"country", "TEXT NOT NULL DEFAULT ''"},
	{"state", "TEXT NOT NULL DEFAULT ''"},
	{"city", "TEXT NOT NULL DEFAULT ''"},
	{"is_india", "INTEGER NOT NULL DEFAULT 0"},
	{"is_faang", "INTEGER NOT NULL DEFAULT 0"},
	{"salary_min_lpa", "REAL"},
	{"salary_max_lpa", "REAL"},
	{"salary_currency", "TEXT NOT NULL DEFAULT ''"},
	{"source_type", "TEXT NOT NULL DEFAULT 'ATS'"},
	{"visa_sponsored", "INTEGER NOT NULL DEFAULT 0"},
	{"has_equity", "INTEGER NOT NULL DEFAULT 0"},
}

func (d *DB) Migrate() error {
	tx, err := d.Pool.Begin()
	if err != nil {
		return unavailable("migrate", err)
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return unavailable("migrate", err)
	}

	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  remote INTEGER NOT NULL DEFAULT 0,
  apply_url TEXT NOT NULL,
  source TEXT NOT NULL,
  posted_date TEXT,
  match_score INTEGER NOT NULL DEFAULT 0,
  saved INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  is_india INTEGER NOT NULL DEFAULT 0,
  is_faang INTEGER NOT NULL DEFAULT 0,
  salary_min_lpa REAL,
  salary_max_lpa REAL,
  salary_currency TEXT NOT NULL DEFAULT '',
  source_type TEXT NOT NULL DEFAULT 'ATS',
  visa_sponsored INTEGER NOT NULL DEFAULT 0,
  has_equity INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return fmt.Errorf("create jobs: %w", err)
	}

	// Databases written by the first importer predate these columns.
	for _, c := range legacyColumns {
		if columnExists(tx, "jobs", c.name) {
			continue
		}
		if _, err := tx.Exec(fmt.Sprintf(`ALTER TABLE jobs ADD COLUMN %s %s;`, c.name, c.ddl)); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}

	// ---- Schema v1: indexes ----

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_match_score ON jobs(match_score DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_posted_date ON jobs(posted_date DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_remote ON jobs(remote);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_country ON jobs(country);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_is_india ON jobs(is_india);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_is_faang ON jobs(is_faang);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_salary ON jobs(salary_min_lpa);`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}

func columnExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, table, col string) bool {
	query := fmt.Sprintf(`
SELECT 1
FROM pragma_table_info('%s')
WHERE name = ?
LIMIT 1;
`, table)

	var one int
	err := q.QueryRow(query, col).Scan(&one)
	return err == nil
}
