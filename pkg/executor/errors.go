package executor

import "errors"

var (
	// ErrLoopLimitExceeded is raised by select_next when a loop edge's
	// counter exceeds its max_iterations.
	ErrLoopLimitExceeded = errors.New("loop evaluation failed: iteration limit exceeded")

	// ErrNodeTimeout is raised by invoke when a node's per-invocation
	// timeout expires before the callable returns.
	ErrNodeTimeout = errors.New("node execution timed out")

	// ErrCancelled is raised by invoke when cancellation is observed
	// either before dispatch or while the node is in flight.
	ErrCancelled = errors.New("run cancelled")

	// ErrInvalidState is raised when a callable returns a nil
	// WorkflowState with a nil error.
	ErrInvalidState = errors.New("callable returned invalid state")
)
