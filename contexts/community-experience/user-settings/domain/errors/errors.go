package errors

import "errors"

var (
	// ErrInvalidUserInput indicates a settings request with a missing user id.
	ErrInvalidUserInput = errors.New("invalid user settings input")
)
