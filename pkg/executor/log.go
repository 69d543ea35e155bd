package executor

import (
	"time"

	"github.com/PrisDen/Trednece-engine/pkg/state"
)

// LogStatus is the outcome recorded against a single node invocation.
type LogStatus string

const (
	LogStatusSuccess   LogStatus = "success"
	LogStatusFailed    LogStatus = "failed"
	LogStatusCancelled LogStatus = "cancelled"
)

// ExecutionLog is a single entry in a run's execution log, emitted in
// execution order: one per node invocation, plus one for a cancellation
// observed before a node starts and one for a failed successor selection.
type ExecutionLog struct {
	NodeID    string    `json:"node_id"`
	Status    LogStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ExecutionResult is produced exactly once when a run reaches a terminal
// status: the run id, the final WorkflowState, and the accumulated logs.
type ExecutionResult struct {
	RunID      string               `json:"run_id"`
	FinalState *state.WorkflowState `json:"-"`
	Logs       []ExecutionLog       `json:"logs"`
}
