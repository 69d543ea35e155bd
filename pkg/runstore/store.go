package runstore

import (
	"sync"

	"github.com/PrisDen/Trednece-engine/pkg/executor"
	"github.com/PrisDen/Trednece-engine/pkg/state"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// Record is a single run's book-keeping entry: its graph, its
// WorkflowState, the accumulated execution log, the final result once
// terminal, and whether cancellation has been requested.
type Record struct {
	RunID     string
	GraphID   string
	State     *state.WorkflowState
	Status    types.RunStatus
	Logs      []executor.ExecutionLog
	Result    *executor.ExecutionResult
	Cancelled bool
}

// snapshot returns a defensive copy of the fields callers read.
func (r *Record) snapshot() *Record {
	logs := make([]executor.ExecutionLog, len(r.Logs))
	copy(logs, r.Logs)
	return &Record{
		RunID:     r.RunID,
		GraphID:   r.GraphID,
		State:     r.State,
		Status:    r.Status,
		Logs:      logs,
		Result:    r.Result,
		Cancelled: r.Cancelled,
	}
}

// Patch describes a mutation to apply to a Record under Update. Nil
// fields are left unchanged.
type Patch struct {
	Status *types.RunStatus
	Logs   *[]executor.ExecutionLog
	Result *executor.ExecutionResult
}

// entry pairs a Record with the mutex that serializes every operation
// against it.
type entry struct {
	mu     sync.Mutex
	record *Record
}

// Store is the Run Store: a sharded map of per-run mutexes, inserted
// lazily under a single meta-lock, so that operations on distinct run
// ids proceed fully in parallel and never contend with each other.
type Store struct {
	metaMu  sync.Mutex
	entries map[string]*entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Create inserts a new record under record.RunID. Returns ErrAlreadyExists
// if the run id is already present.
func (s *Store) Create(record *Record) error {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	if _, exists := s.entries[record.RunID]; exists {
		return ErrAlreadyExists
	}
	s.entries[record.RunID] = &entry{record: record.snapshot()}
	return nil
}

// lookup returns the entry for runID, or nil if absent. Holding metaMu
// only for the map read keeps Get/Update/RequestCancel from blocking on
// each other across unrelated runs.
func (s *Store) lookup(runID string) *entry {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()
	return s.entries[runID]
}

// Get returns a defensive copy of the record for runID.
func (s *Store) Get(runID string) (*Record, error) {
	e := s.lookup(runID)
	if e == nil {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.snapshot(), nil
}

// Update applies patch to the record for runID. A status write is
// dropped once the record has already reached a terminal status: the
// first terminal status wins and no later write can override it.
func (s *Store) Update(runID string, patch Patch) error {
	e := s.lookup(runID)
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if patch.Status != nil && !types.IsTerminal(e.record.Status) {
		e.record.Status = *patch.Status
	}
	if patch.Logs != nil {
		e.record.Logs = *patch.Logs
	}
	if patch.Result != nil {
		e.record.Result = patch.Result
	}
	return nil
}

// AppendLog appends a single log entry to the record for runID, used by
// the orchestrator's log hook to mirror each ExecutionLog as it is
// emitted rather than replacing the whole slice on every call.
func (s *Store) AppendLog(runID string, log executor.ExecutionLog) error {
	e := s.lookup(runID)
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record.Logs = append(e.record.Logs, log)
	return nil
}

// RequestCancel atomically sets Cancelled=true and Status=cancelled.
// Idempotent: calling it again on an already-cancelled or otherwise
// terminal run is a no-op beyond the Cancelled flag, which stays true.
func (s *Store) RequestCancel(runID string) error {
	e := s.lookup(runID)
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record.Cancelled = true
	if !types.IsTerminal(e.record.Status) {
		e.record.Status = types.RunStatusCancelled
	}
	return nil
}

// IsCancelled reports whether cancellation has been requested for runID.
// Built as the executor's CancelChecker via a closure over the store and
// run id (see pkg/orchestrator), it is polled from the executor's
// traversal loop and node-invocation poll ticker.
func (s *Store) IsCancelled(runID string) bool {
	e := s.lookup(runID)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Cancelled
}
