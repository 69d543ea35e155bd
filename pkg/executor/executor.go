package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PrisDen/Trednece-engine/pkg/config"
	"github.com/PrisDen/Trednece-engine/pkg/expression"
	"github.com/PrisDen/Trednece-engine/pkg/graph"
	"github.com/PrisDen/Trednece-engine/pkg/logging"
	"github.com/PrisDen/Trednece-engine/pkg/registry"
	"github.com/PrisDen/Trednece-engine/pkg/state"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// LogHook observes every ExecutionLog as it is emitted, in execution
// order. Callers typically use it to mirror logs into a Run Store and
// publish them to a Log Stream Hub; a nil hook is a valid no-op.
type LogHook func(ExecutionLog)

// CancelChecker reports whether the caller has requested cancellation of
// the run. It is polled at the top of every traversal step and, while a
// node is in flight, at the executor's configured poll interval. A nil
// checker is equivalent to one that always returns false.
type CancelChecker func() bool

// loopKey identifies one (source, target) edge pair for independent loop
// counters: two loop edges leaving the same source are tracked separately.
type loopKey struct {
	source string
	target string
}

// Executor walks a Graph node by node, dispatching successor selection
// and node invocation under the configured timeout and cancellation
// polling contract.
type Executor struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics MetricsRecorder
}

// New creates an Executor. cfg and log must not be nil; metrics may be
// nil when no recorder is wired.
func New(cfg *config.Config, log *logging.Logger, metrics MetricsRecorder) *Executor {
	return &Executor{cfg: cfg, log: log, metrics: metrics}
}

// Execute drives s from g.StartNode to a terminal status, invoking
// node callables resolved from reg. hook and cancelChecker may be nil.
func (e *Executor) Execute(ctx context.Context, g *graph.Graph, reg *registry.Registry, s *state.WorkflowState, hook LogHook, cancelChecker CancelChecker) (*ExecutionResult, error) {
	start := time.Now()
	s.SetStatus(types.RunStatusRunning)

	runLogger := e.log.WithRunID(s.RunID()).WithGraphID(g.ID)

	current := g.StartNode
	loopCounters := make(map[loopKey]int)
	result := &ExecutionResult{RunID: s.RunID(), FinalState: s}

	for current != "" {
		if isCancelled(cancelChecker) {
			l := ExecutionLog{
				NodeID:    current,
				Status:    LogStatusCancelled,
				Timestamp: time.Now(),
				Message:   "Run cancelled by user",
			}
			emit(hook, result, l)
			s.SetStatus(types.RunStatusCancelled)
			runLogger.Info("run cancelled")
			e.recordRun(start, "cancelled")
			return result, nil
		}

		node := g.GetNode(current)
		if node == nil {
			// Graph.Build guarantees every dispatched id resolves; this
			// would only happen if a caller mutated the graph after Build.
			return result, fmt.Errorf("executor: node %q not found in graph", current)
		}

		l, err := e.invoke(ctx, node, reg, s, cancelChecker)
		emit(hook, result, l)
		if err != nil {
			switch {
			case errors.Is(err, ErrCancelled):
				s.SetStatus(types.RunStatusCancelled)
				runLogger.WithNodeID(node.ID).Info("node invocation cancelled")
				e.recordRun(start, "cancelled")
			default:
				s.SetStatus(types.RunStatusFailed)
				runLogger.WithNodeID(node.ID).WithError(err).Error("node invocation failed")
				e.recordRun(start, "failed")
			}
			return result, nil
		}

		next, err := e.selectNext(g.OutgoingEdges(current), reg, s, loopCounters)
		if err != nil {
			failLog := ExecutionLog{
				NodeID:    current,
				Status:    LogStatusFailed,
				Timestamp: time.Now(),
				Message:   "Loop evaluation failed",
				Error:     err.Error(),
			}
			emit(hook, result, failLog)
			s.SetStatus(types.RunStatusFailed)
			runLogger.WithNodeID(node.ID).WithError(err).Error("successor selection failed")
			e.recordRun(start, "failed")
			return result, nil
		}
		current = next
	}

	if s.Status() != types.RunStatusCompleted && s.Status() != types.RunStatusFailed && s.Status() != types.RunStatusCancelled {
		s.SetStatus(types.RunStatusCompleted)
	}
	runLogger.WithField("duration_ms", time.Since(start).Milliseconds()).Info("run completed")
	e.recordRun(start, string(s.Status()))
	return result, nil
}

func (e *Executor) recordRun(start time.Time, status string) {
	if e.metrics != nil {
		e.metrics.RecordRunExecution(time.Since(start), status)
	}
}

func emit(hook LogHook, result *ExecutionResult, l ExecutionLog) {
	result.Logs = append(result.Logs, l)
	if hook != nil {
		hook(l)
	}
}

func isCancelled(cancelChecker CancelChecker) bool {
	return cancelChecker != nil && cancelChecker()
}

// invoke runs a single node's callable under the per-node timeout and
// cancellation-poll contract described by the traversal algorithm.
func (e *Executor) invoke(ctx context.Context, node *graph.Node, reg *registry.Registry, s *state.WorkflowState, cancelChecker CancelChecker) (ExecutionLog, error) {
	nodeLogger := e.log.WithNodeID(node.ID)
	invokeStart := time.Now()

	if isCancelled(cancelChecker) {
		s.Record(node.ID, "Node invocation skipped: run cancelled", nil)
		return ExecutionLog{
			NodeID:    node.ID,
			Status:    LogStatusCancelled,
			Timestamp: time.Now(),
			Message:   "Run cancelled by user",
		}, ErrCancelled
	}

	fn, err := reg.Get(node.Callable)
	if err != nil {
		s.Record(node.ID, "Node invocation failed: callable not registered", nil)
		return ExecutionLog{
			NodeID:    node.ID,
			Status:    LogStatusFailed,
			Timestamp: time.Now(),
			Error:     err.Error(),
		}, err
	}

	nodeLogger.Debug("node invocation started")

	nodeCtx, cancelFn := context.WithTimeout(ctx, e.cfg.NodeTimeout)
	defer cancelFn()

	type outcome struct {
		state *state.WorkflowState
		err   error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		ns, err := fn(nodeCtx, s)
		resultCh <- outcome{ns, err}
	}()

	ticker := time.NewTicker(e.cfg.CancelPollInterval)
	defer ticker.Stop()

	cancelRequested := false
	for {
		select {
		case res := <-resultCh:
			if e.metrics != nil {
				e.metrics.RecordNodeExecution(node.Callable, time.Since(invokeStart), statusFor(res.err))
			}
			return e.finishInvoke(node, s, res.state, res.err, nodeLogger)

		case <-nodeCtx.Done():
			if e.metrics != nil {
				status := LogStatusFailed
				if cancelRequested {
					status = LogStatusCancelled
				}
				e.metrics.RecordNodeExecution(node.Callable, time.Since(invokeStart), status)
			}
			if cancelRequested {
				s.Record(node.ID, "Node invocation cancelled", nil)
				nodeLogger.Info("node invocation cancelled")
				return ExecutionLog{
					NodeID:    node.ID,
					Status:    LogStatusCancelled,
					Timestamp: time.Now(),
					Message:   "Run cancelled by user",
				}, ErrCancelled
			}
			s.Record(node.ID, "Node invocation timed out", nil)
			nodeLogger.WithField("timeout", e.cfg.NodeTimeout).Error("node invocation timed out")
			return ExecutionLog{
				NodeID:    node.ID,
				Status:    LogStatusFailed,
				Timestamp: time.Now(),
				Error:     "timeout",
			}, ErrNodeTimeout

		case <-ticker.C:
			if !cancelRequested && isCancelled(cancelChecker) {
				cancelRequested = true
				cancelFn()
			}
		}
	}
}

func statusFor(err error) LogStatus {
	if err == nil {
		return LogStatusSuccess
	}
	if errors.Is(err, context.Canceled) {
		return LogStatusCancelled
	}
	return LogStatusFailed
}

// finishInvoke interprets the callable's return value once it has
// completed, applying the invalid-state / execution-error / success
// rules from the invocation contract.
func (e *Executor) finishInvoke(node *graph.Node, s *state.WorkflowState, returned *state.WorkflowState, err error, nodeLogger *logging.Logger) (ExecutionLog, error) {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.Record(node.ID, "Node invocation cancelled", nil)
			nodeLogger.Info("node invocation cancelled")
			return ExecutionLog{
				NodeID:    node.ID,
				Status:    LogStatusCancelled,
				Timestamp: time.Now(),
				Message:   "Run cancelled by user",
			}, ErrCancelled
		}
		s.Record(node.ID, "Node invocation failed", nil)
		nodeLogger.WithError(err).Error("node invocation failed")
		return ExecutionLog{
			NodeID:    node.ID,
			Status:    LogStatusFailed,
			Timestamp: time.Now(),
			Error:     err.Error(),
		}, err
	}

	if returned == nil {
		s.Record(node.ID, "Node returned invalid state", nil)
		nodeLogger.WithError(ErrInvalidState).Error("node returned invalid state")
		return ExecutionLog{
			NodeID:    node.ID,
			Status:    LogStatusFailed,
			Timestamp: time.Now(),
			Error:     ErrInvalidState.Error(),
		}, ErrInvalidState
	}

	returned.Record(node.ID, "Node executed successfully", nil)
	nodeLogger.Debug("node invocation succeeded")
	return ExecutionLog{
		NodeID:    node.ID,
		Status:    LogStatusSuccess,
		Timestamp: time.Now(),
		Message:   "Node executed successfully",
	}, nil
}

// selectNext scans edges in declaration order and returns the target of
// the first edge whose type-specific predicate matches. An empty string
// with a nil error means the run terminates normally at the current node.
func (e *Executor) selectNext(edges []*graph.Edge, reg *registry.Registry, s *state.WorkflowState, loopCounters map[loopKey]int) (string, error) {
	for _, edge := range edges {
		switch edge.Type {
		case types.EdgeTypeSequential:
			return edge.Target, nil

		case types.EdgeTypeBranch:
			matched, err := e.evalBranch(edge, reg, s)
			if err != nil {
				return "", err
			}
			if matched {
				return edge.Target, nil
			}

		case types.EdgeTypeLoop:
			matched, err := e.evalLoop(edge, s, loopCounters)
			if err != nil {
				return "", err
			}
			if matched {
				return edge.Target, nil
			}

		default:
			return "", types.ErrUnknownEdgeType(edge.Type)
		}
	}
	return "", nil
}

// evalBranch resolves a branch edge's predicate: a registered Predicate
// by name takes precedence over an expression, matching "condition.callable
// if present, else evaluator(condition.expression)".
func (e *Executor) evalBranch(edge *graph.Edge, reg *registry.Registry, s *state.WorkflowState) (bool, error) {
	if edge.Condition == nil {
		return false, nil
	}
	if edge.Condition.Callable != "" {
		fn, err := reg.GetPredicate(edge.Condition.Callable)
		if err != nil {
			return false, fmt.Errorf("branch predicate: %w", err)
		}
		return fn(s), nil
	}
	if edge.Condition.Expression != "" {
		return expression.EvaluateBool(edge.Condition.Expression, s)
	}
	return false, nil
}

func (e *Executor) evalLoop(edge *graph.Edge, s *state.WorkflowState, loopCounters map[loopKey]int) (bool, error) {
	if edge.Loop != nil && edge.Loop.UntilExpression != "" {
		done, err := expression.EvaluateBool(edge.Loop.UntilExpression, s)
		if err != nil {
			return false, err
		}
		if done {
			return false, nil
		}
	}

	key := loopKey{source: edge.Source, target: edge.Target}
	loopCounters[key]++

	maxIterations := e.cfg.DefaultLoopMaxIterations
	if edge.Loop != nil && edge.Loop.MaxIterations > 0 {
		maxIterations = edge.Loop.MaxIterations
	}
	if maxIterations > e.cfg.MaxLoopIterations {
		maxIterations = e.cfg.MaxLoopIterations
	}

	if loopCounters[key] > maxIterations {
		return false, ErrLoopLimitExceeded
	}
	return true, nil
}
