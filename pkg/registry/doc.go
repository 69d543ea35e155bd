// Package registry implements the Tool Registry: a thread-safe mapping
// from a callable's name to its implementation, used by the Executor to
// resolve a NodeConfig's Callable field at invocation time. A second,
// parallel table holds branch Predicates, resolved by an edge's
// condition.callable field.
//
// Registration is expected at startup; lookups happen on every node
// invocation and are safe from any number of goroutines.
package registry
