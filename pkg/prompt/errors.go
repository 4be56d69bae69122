package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoKind is returned when a filler is asked to fill a nil kind.
	ErrNoKind = errors.New("prompt: kind is required")
)
