// Package types provides shared type definitions for the workflow engine.
//
// # Overview
//
// This package contains the wire/document representation of graphs, nodes
// and edges, plus the context keys used to carry run and graph identifiers
// across package boundaries. It exists to avoid import cycles between
// pkg/graph, pkg/executor, pkg/runstore and pkg/graphstore.
//
// # Key Components
//
// GraphDocument, NodeConfig, EdgeConfig: the JSON shape a caller submits to
// the Graph Store.
//
// LoopConfig, Condition: edge-type-specific configuration for loop and
// branch edges.
//
// RunStatus: the lifecycle states a run moves through.
//
// # Thread Safety
//
// The types defined here are plain data and are not safe for concurrent
// mutation; callers must coordinate access.
package types
