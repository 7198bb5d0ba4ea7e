package store

import (
	"context"
	"database/sql"
	"errors"
)

// SetSaved marks one job saved or unsaved.
func (d *DB) SetSaved(ctx context.Context, id string, saved bool) error {
	res, err := d.Pool.ExecContext(ctx, `UPDATE jobs SET saved = ? WHERE id = ?;`, saved, id)
	if err != nil {
		return unavailable("set saved", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("set saved", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleSaved flips the flag in a single statement, so concurrent toggles of
// the same id serialize on the write lock and none is lost.
func (d *DB) ToggleSaved(ctx context.Context, id string) (saved bool, err error) {
	err = d.Pool.QueryRowContext(ctx,
		`UPDATE jobs SET saved = 1 - saved WHERE id = ? RETURNING saved;`, id,
	).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, unavailable("toggle saved", err)
	}
	return saved, nil
}
