package errors

import "errors"

var (
	ErrInvalidReportInput = errors.New("invalid report input")
	ErrReportNotFound     = errors.New("report not found")
	ErrReportExists       = errors.New("report already filed")
)
