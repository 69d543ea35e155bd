package graph

import (
	"fmt"

	"github.com/PrisDen/Trednece-engine/pkg/registry"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// Node is a runtime graph node: a named reference to a registered callable.
type Node struct {
	ID       string
	Name     string
	Callable string
	Metadata map[string]interface{}
}

// Edge is a runtime graph edge between two node ids.
type Edge struct {
	Source    string
	Target    string
	Type      types.EdgeType
	Condition *types.Condition
	Loop      *types.LoopConfig
}

// Graph is the validated, in-memory form of a GraphDocument: nodes by id
// plus an adjacency list of outgoing edges in declaration order.
type Graph struct {
	ID        string
	Name      string
	StartNode string

	nodes     []*Node
	edges     []*Edge
	nodesByID map[string]*Node
	adjacency map[string][]*Edge
}

// Build validates doc against structuralSchema and reg, in the exact order
// required: (a) structural schema, (b) start_node references a defined
// node, (c) every edge endpoint references a defined node, (d) every
// node's callable is present in the registry. No cycle rejection is
// performed here; cycles are admissible via loop edges and bounded at
// runtime by the executor.
func Build(doc types.GraphDocument, reg *registry.Registry) (*Graph, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	nodes := make([]*Node, 0, len(doc.Nodes))
	nodesByID := make(map[string]*Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, exists := nodesByID[n.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrValidationFailed, n.ID)
		}
		node := &Node{
			ID:       n.ID,
			Name:     n.Name,
			Callable: n.Callable,
			Metadata: n.Metadata,
		}
		nodes = append(nodes, node)
		nodesByID[n.ID] = node
	}

	if _, ok := nodesByID[doc.StartNode]; !ok {
		return nil, fmt.Errorf("%w: start_node %q is not a defined node", ErrValidationFailed, doc.StartNode)
	}

	edges := make([]*Edge, 0, len(doc.Edges))
	adjacency := make(map[string][]*Edge, len(doc.Nodes))
	for _, e := range doc.Edges {
		if _, ok := nodesByID[e.From]; !ok {
			return nil, fmt.Errorf("%w: edge references undefined source node %q", ErrValidationFailed, e.From)
		}
		if _, ok := nodesByID[e.To]; !ok {
			return nil, fmt.Errorf("%w: edge references undefined target node %q", ErrValidationFailed, e.To)
		}
		edge := &Edge{
			Source:    e.From,
			Target:    e.To,
			Type:      e.Type,
			Condition: e.Condition,
			Loop:      e.Loop,
		}
		edges = append(edges, edge)
		adjacency[e.From] = append(adjacency[e.From], edge)
	}

	for _, n := range doc.Nodes {
		if !reg.Has(n.Callable) {
			return nil, fmt.Errorf("%w: node %q references unregistered callable %q", ErrValidationFailed, n.ID, n.Callable)
		}
	}

	return &Graph{
		ID:        doc.ID,
		Name:      doc.Name,
		StartNode: doc.StartNode,
		nodes:     nodes,
		edges:     edges,
		nodesByID: nodesByID,
		adjacency: adjacency,
	}, nil
}

// Document serializes the graph back to its wire form, preserving node
// and edge declaration order, so that rebuilding from the returned
// document yields an equivalent graph.
func (g *Graph) Document() types.GraphDocument {
	nodes := make([]types.NodeConfig, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = types.NodeConfig{
			ID:       n.ID,
			Callable: n.Callable,
			Name:     n.Name,
			Metadata: n.Metadata,
		}
	}
	edges := make([]types.EdgeConfig, len(g.edges))
	for i, e := range g.edges {
		edges[i] = types.EdgeConfig{
			From:      e.Source,
			To:        e.Target,
			Type:      e.Type,
			Condition: e.Condition,
			Loop:      e.Loop,
		}
	}
	return types.GraphDocument{
		ID:        g.ID,
		Name:      g.Name,
		StartNode: g.StartNode,
		Nodes:     nodes,
		Edges:     edges,
	}
}

// GetNode retrieves a node by its ID, or nil if absent.
func (g *Graph) GetNode(nodeID string) *Node {
	return g.nodesByID[nodeID]
}

// OutgoingEdges returns the edges leaving nodeID in declaration order.
// This order is load-bearing: it is the dispatch order select_next scans.
func (g *Graph) OutgoingEdges(nodeID string) []*Edge {
	return g.adjacency[nodeID]
}
