package orchestrator

import "errors"

var (
	// ErrGraphNotFound is returned by LaunchRun when graph_id does not
	// refer to a stored graph.
	ErrGraphNotFound = errors.New("graph not found")

	// ErrRunNotFound is returned by GetRunState, CancelRun, and Subscribe
	// for an unknown run id.
	ErrRunNotFound = errors.New("run not found")

	// ErrConflict is returned by CancelRun when the run has already
	// reached a terminal status.
	ErrConflict = errors.New("run already terminal")
)
