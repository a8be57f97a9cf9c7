package errors

import "errors"

var (
	ErrInvalidVoteInput = errors.New("invalid admin vote input")
	ErrPostNotFound     = errors.New("pending post not found")
	ErrPostExists       = errors.New("pending post already exists")
	ErrConflict         = errors.New("pending post transaction conflict")
	ErrPublishFailed    = errors.New("publishing the approved post failed")
)
