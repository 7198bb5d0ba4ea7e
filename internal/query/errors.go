package query

import "errors"

// ErrInvalidCriteria reports criteria that cannot be normalized to a sane
// default.
var ErrInvalidCriteria = errors.New("invalid criteria")
