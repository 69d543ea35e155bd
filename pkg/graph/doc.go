// Package graph builds the runtime Graph from a GraphDocument: validated
// node and edge lookups keyed by id, with outgoing edges preserved in
// declaration order.
//
// Unlike a dependency-ordered DAG, this graph is not topologically sorted
// and cycles are not rejected at load time: traversal is dynamic, driven
// node-by-node at run time by the executor's successor-selection rule,
// and loop edges make controlled cycles a normal part of the graph shape.
package graph
