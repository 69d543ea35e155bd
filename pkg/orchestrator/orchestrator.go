package orchestrator

import (
	"context"
	"errors"

	"github.com/PrisDen/Trednece-engine/pkg/config"
	"github.com/PrisDen/Trednece-engine/pkg/executor"
	"github.com/PrisDen/Trednece-engine/pkg/graph"
	"github.com/PrisDen/Trednece-engine/pkg/graphstore"
	"github.com/PrisDen/Trednece-engine/pkg/logging"
	"github.com/PrisDen/Trednece-engine/pkg/registry"
	"github.com/PrisDen/Trednece-engine/pkg/runstore"
	"github.com/PrisDen/Trednece-engine/pkg/state"
	"github.com/PrisDen/Trednece-engine/pkg/streamhub"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// Orchestrator owns every collaborator a run needs: the Graph Store to
// resolve graph_id, the Tool Registry the executor dispatches callables
// through, the Run Store for per-run records, the Log Stream Hub for
// live subscribers, and the Executor itself.
type Orchestrator struct {
	graphs *graphstore.Store
	runs   *runstore.Store
	hub    *streamhub.Hub
	reg    *registry.Registry
	exec   *executor.Executor
	log    *logging.Logger
}

// New wires an Orchestrator. cfg and logger configure the Executor;
// metrics may be nil.
func New(graphs *graphstore.Store, reg *registry.Registry, hub *streamhub.Hub, cfg *config.Config, log *logging.Logger, metrics executor.MetricsRecorder) *Orchestrator {
	return &Orchestrator{
		graphs: graphs,
		runs:   runstore.New(),
		hub:    hub,
		reg:    reg,
		exec:   executor.New(cfg, log, metrics),
		log:    log,
	}
}

// LaunchRun validates graphID against the Graph Store, allocates a fresh
// WorkflowState over initialContext, creates a pending RunRecord, and
// dispatches execution. background=false blocks until the run reaches a
// terminal status and returns the final record; background=true starts
// execution on a new goroutine and returns the record immediately, still
// pending.
func (o *Orchestrator) LaunchRun(ctx context.Context, graphID string, initialContext map[string]interface{}, background bool) (*runstore.Record, error) {
	g, err := o.graphs.Get(graphID)
	if err != nil {
		return nil, ErrGraphNotFound
	}

	s := state.New(initialContext)
	record := &runstore.Record{
		RunID:   s.RunID(),
		GraphID: graphID,
		State:   s,
		Status:  types.RunStatusPending,
	}
	if err := o.runs.Create(record); err != nil {
		return nil, err
	}

	if background {
		rec, _ := o.runs.Get(record.RunID)
		go o.run(ctx, g, record.RunID, s)
		return rec, nil
	}

	o.run(ctx, g, record.RunID, s)
	return o.runs.Get(record.RunID)
}

// run drives one execution from pending to terminal, mirroring every
// ExecutionLog into the Run Store and the Log Stream Hub as it is
// emitted, and publishing a status event on entering running and again
// on reaching a terminal status.
func (o *Orchestrator) run(ctx context.Context, g *graph.Graph, runID string, s *state.WorkflowState) {
	running := types.RunStatusRunning
	_ = o.runs.Update(runID, runstore.Patch{Status: &running})
	o.hub.Publish(runID, streamhub.StatusMessage(types.RunStatusRunning, ""))

	hook := func(l executor.ExecutionLog) {
		_ = o.runs.AppendLog(runID, l)
		o.hub.Publish(runID, streamhub.LogMessage(l))
	}
	cancelChecker := func() bool { return o.runs.IsCancelled(runID) }

	result, err := o.exec.Execute(ctx, g, o.reg, s, hook, cancelChecker)
	if err != nil {
		failed := types.RunStatusFailed
		_ = o.runs.Update(runID, runstore.Patch{Status: &failed})
		o.hub.Publish(runID, streamhub.StatusMessage(types.RunStatusFailed, err.Error()))
		return
	}

	finalStatus := s.Status()
	errMsg := ""
	if finalStatus == types.RunStatusFailed && len(result.Logs) > 0 {
		errMsg = result.Logs[len(result.Logs)-1].Error
	}
	_ = o.runs.Update(runID, runstore.Patch{Status: &finalStatus, Result: result})
	o.hub.Publish(runID, streamhub.StatusMessage(finalStatus, errMsg))
}

// GetRunState returns the current record for runID.
func (o *Orchestrator) GetRunState(runID string) (*runstore.Record, error) {
	rec, err := o.runs.Get(runID)
	if err != nil {
		if errors.Is(err, runstore.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return rec, nil
}

// CancelRun requests cancellation of runID. Returns ErrConflict if the
// run has already reached a terminal status; the underlying store
// operation is otherwise idempotent, matching cancel_run's contract.
func (o *Orchestrator) CancelRun(runID string) (*runstore.Record, error) {
	rec, err := o.runs.Get(runID)
	if err != nil {
		if errors.Is(err, runstore.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	if types.IsTerminal(rec.Status) {
		return nil, ErrConflict
	}

	if err := o.runs.RequestCancel(runID); err != nil {
		return nil, err
	}
	o.hub.Publish(runID, streamhub.StatusMessage(types.RunStatusCancelled, ""))
	return o.runs.Get(runID)
}

// Subscribe registers a new Hub subscriber for runID and returns it
// along with a snapshot of the logs already accumulated, so a caller can
// replay those first and then stream everything published from this
// point on without a gap. Returns ErrRunNotFound if runID is unknown.
func (o *Orchestrator) Subscribe(runID string) (*streamhub.Subscriber, []executor.ExecutionLog, error) {
	sub := o.hub.Register(runID)
	rec, err := o.runs.Get(runID)
	if err != nil {
		o.hub.Unregister(runID, sub)
		if errors.Is(err, runstore.ErrNotFound) {
			return nil, nil, ErrRunNotFound
		}
		return nil, nil, err
	}
	return sub, rec.Logs, nil
}

// Unsubscribe removes sub from runID's subscriber set.
func (o *Orchestrator) Unsubscribe(runID string, sub *streamhub.Subscriber) {
	o.hub.Unregister(runID, sub)
}
