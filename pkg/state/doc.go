// Package state implements WorkflowState: the value a run's node callables
// read and mutate as they execute.
//
// A WorkflowState carries a run id, a lifecycle status, a context mapping,
// and an append-only history of StateSnapshot entries. It is owned
// exclusively by a single run and is never shared across runs; callables
// mutate it in place under that exclusive ownership.
package state
