// Package executor walks a Graph one node at a time: it invokes each
// node's callable under a per-node timeout and cooperative cancellation,
// dispatches to a successor edge using declaration-order selection, and
// emits a structured ExecutionLog for every step.
//
// Execute is the package's single entry point. It owns none of the run's
// persistence: callers supply the WorkflowState, an optional log hook to
// mirror each ExecutionLog elsewhere (a Run Store, a stream hub), and an
// optional cancel checker polled cooperatively both between nodes and
// while a node is in flight.
package executor
