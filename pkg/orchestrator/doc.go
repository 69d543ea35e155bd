// Package orchestrator implements the Run Orchestrator: it glues a run
// request to a Run Store record, dispatches the Executor, and publishes
// log and status events to the Log Stream Hub as the run progresses.
package orchestrator
