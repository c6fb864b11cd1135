package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrMissingParameter = errors.New("missing required parameter")
)
