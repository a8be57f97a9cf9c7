package errors

import "errors"

var (
	// ErrInvalidWarnInput indicates a warn request with missing identifiers
	// or a non-positive threshold.
	ErrInvalidWarnInput = errors.New("invalid warn input")
	// ErrBanFailed indicates the ban side effect could not be applied.
	ErrBanFailed = errors.New("ban failed")
)
