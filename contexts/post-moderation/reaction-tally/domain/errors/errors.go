package errors

import "errors"

var (
	ErrInvalidVoteInput = errors.New("invalid reaction input")
	ErrInvalidCategory  = errors.New("unknown reaction category")
	ErrPostNotFound     = errors.New("published post not found")
	ErrPostExists       = errors.New("published post already exists")
	ErrConflict         = errors.New("published post transaction conflict")
)
