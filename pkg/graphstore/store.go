package graphstore

import (
	"sync"

	"github.com/PrisDen/Trednece-engine/pkg/graph"
	"github.com/PrisDen/Trednece-engine/pkg/registry"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// Store is the Graph Store: a read-mostly, id-keyed collection of
// validated runtime graphs. Writes are expected at startup or whenever a
// client calls create_graph; concurrent reads are always safe.
type Store struct {
	reg *registry.Registry

	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

// New creates an empty Store that validates every document's node
// callables against reg.
func New(reg *registry.Registry) *Store {
	return &Store{reg: reg, graphs: make(map[string]*graph.Graph)}
}

// Create validates doc and, on success, stores the resulting runtime
// Graph under doc.ID. Returns ErrAlreadyExists if the id is already
// taken (checked before validation, so a colliding resubmission never
// pays for a full rebuild), or graph.Build's validation error otherwise.
func (s *Store) Create(doc types.GraphDocument) (*graph.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.graphs[doc.ID]; exists {
		return nil, ErrAlreadyExists
	}

	g, err := graph.Build(doc, s.reg)
	if err != nil {
		return nil, err
	}
	s.graphs[doc.ID] = g
	return g, nil
}

// Get retrieves the runtime Graph stored under id. Returns ErrNotFound
// if absent.
func (s *Store) Get(id string) (*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.graphs[id]
	if !exists {
		return nil, ErrNotFound
	}
	return g, nil
}

// Exists reports whether id is stored.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.graphs[id]
	return exists
}

// List returns the ids of every stored graph.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		ids = append(ids, id)
	}
	return ids
}
