package store

import (
	"context"
	"fmt"
	"time"
)

// DeleteCreatedBefore removes jobs first stored before cutoff. Saved jobs are kept.
func (d *DB) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	res, err := d.Pool.ExecContext(ctx, `
DELETE FROM jobs
WHERE created_at < ?
  AND saved = 0;
`, FormatTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", unavailable("delete", err))
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Checkpoint folds the WAL back into the main database file.
func (d *DB) Checkpoint(ctx context.Context, full bool) error {
	mode := "PASSIVE"
	if full {
		mode = "FULL"
	}
	if _, err := d.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(`+mode+`);`); err != nil {
		return unavailable("wal checkpoint", err)
	}
	return nil
}
