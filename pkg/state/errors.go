package state

import "errors"

var (
	// ErrInvalidStatusTransition describes an attempt to move a run
	// backwards in its lifecycle. Nothing in this package returns it:
	// SetStatus silently ignores writes after a terminal status. It is
	// kept for callers that want to treat the no-op as an error.
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
)
