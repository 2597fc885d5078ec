package tools

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatcher-level failures.
var (
	// ErrNotInitialized is returned for any tool call before the
	// dispatcher has been initialized.
	ErrNotInitialized = errors.New("tool dispatcher not initialized")

	// ErrDataSourceUnavailable indicates a backing store could not be
	// reached.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrMalformedToolCall indicates a tool-call payload that could not
	// be parsed.
	ErrMalformedToolCall = errors.New("malformed tool call")
)

// UnknownToolError is returned when a request names a tool the
// dispatcher does not route.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// MissingArgumentError is returned when a handler's required argument is
// absent or of the wrong type.
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Argument)
}
