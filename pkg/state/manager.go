package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// StateSnapshot is a single append-only entry in a WorkflowState's history.
type StateSnapshot struct {
	NodeID    string                 `json:"node_id"`
	Timestamp time.Time              `json:"timestamp"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// WorkflowState is the value threaded through every node callable in a run.
// A single WorkflowState is owned exclusively by its own run: it is never
// shared across runs, and callables are expected to mutate it in place
// under that exclusive ownership, so the mutex here only guards against
// concurrent observers (the executor's invoking goroutine and a log
// hook or status reader running concurrently), not against callables
// racing each other.
type WorkflowState struct {
	mu      sync.RWMutex
	runID   string
	status  types.RunStatus
	context map[string]interface{}
	history []StateSnapshot
}

// New creates a fresh WorkflowState with a version-4 UUID run id, status
// pending, and the given initial context (copied defensively).
func New(initialContext map[string]interface{}) *WorkflowState {
	ctx := make(map[string]interface{}, len(initialContext))
	for k, v := range initialContext {
		ctx[k] = v
	}
	return &WorkflowState{
		runID:   uuid.New().String(),
		status:  types.RunStatusPending,
		context: ctx,
		history: make([]StateSnapshot, 0),
	}
}

// RunID returns the run's unique identifier.
func (s *WorkflowState) RunID() string {
	return s.runID
}

// Status returns the current lifecycle status.
func (s *WorkflowState) Status() types.RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus transitions the run to a new status. Once the run has reached
// a terminal status, further writes are silently ignored: the first
// terminal status wins, matching the Run Store's update semantics.
func (s *WorkflowState) SetStatus(status types.RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if types.IsTerminal(s.status) {
		return
	}
	s.status = status
}

// Context returns a defensive copy of the run's context mapping.
func (s *WorkflowState) Context() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]interface{}, len(s.context))
	for k, v := range s.context {
		result[k] = v
	}
	return result
}

// Get retrieves a single context value.
func (s *WorkflowState) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.context[key]
	return v, ok
}

// GetOr retrieves a context value, or def if the key is absent. This backs
// the expression evaluator's context.get(key, default) call form.
func (s *WorkflowState) GetOr(key string, def interface{}) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.context[key]; ok {
		return v
	}
	return def
}

// Set writes a single context value. Callables use this to mutate state.
func (s *WorkflowState) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context[key] = value
}

// UpdateContext merges patch into the context, matching the original
// update_context semantics: later keys overwrite earlier ones.
func (s *WorkflowState) UpdateContext(patch map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range patch {
		s.context[k] = v
	}
}

// Record appends a StateSnapshot to history. History is append-only for the
// lifetime of the run; nothing in this package ever removes an entry.
func (s *WorkflowState) Record(nodeID, message string, data map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, StateSnapshot{
		NodeID:    nodeID,
		Timestamp: time.Now(),
		Message:   message,
		Data:      data,
	})
}

// History returns a defensive copy of the accumulated snapshots.
func (s *WorkflowState) History() []StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]StateSnapshot, len(s.history))
	copy(result, s.history)
	return result
}

// ErrNotWorkflowState describes a callable that did not return a
// *WorkflowState. Nothing in this module returns it: the executor reports
// a nil returned state as executor.ErrInvalidState.
var ErrNotWorkflowState = fmt.Errorf("callable did not return a WorkflowState")
