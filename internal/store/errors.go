package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks failures to reach or query the database. Callers
	// should treat it as retryable; it never stands for "no rows".
	ErrUnavailable = errors.New("storage unavailable")

	ErrNotFound = errors.New("job not found")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
