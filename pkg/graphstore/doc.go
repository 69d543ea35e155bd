// Package graphstore implements the Graph Store: uniquely-identified
// graph documents, validated and built into a runtime graph.Graph once,
// at registration time, and kept keyed by id for later runs to launch
// against.
//
// Create takes the caller-supplied document id from the wire format and
// fails with ErrAlreadyExists on a collision; ids are never minted by
// the store.
package graphstore
