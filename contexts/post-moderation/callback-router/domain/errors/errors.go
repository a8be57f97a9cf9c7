package errors

import "errors"

var (
	// ErrMalformedToken indicates callback data that does not decode into a token.
	ErrMalformedToken = errors.New("malformed callback token")
	// ErrUnknownCommand indicates a decoded command with no registered handler.
	ErrUnknownCommand = errors.New("unknown callback command")
	// ErrRegistryIncomplete indicates a router built without a handler for every command.
	ErrRegistryIncomplete = errors.New("callback registry is missing handlers")
	// ErrUnreachable indicates a user that could not be notified privately.
	ErrUnreachable = errors.New("user is unreachable")
)
