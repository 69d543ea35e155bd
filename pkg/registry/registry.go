package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/PrisDen/Trednece-engine/pkg/state"
)

// Callable is a node's unit of work: given the run's context and current
// WorkflowState, it returns the (possibly mutated, possibly the same
// instance) WorkflowState. The original distinction between synchronous and
// asynchronous callables collapses to this single signature in Go; the
// executor runs every callable on its own goroutine (see pkg/executor).
type Callable func(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error)

// Predicate is a branch edge's programmatic condition: given the run's
// state, it reports whether the edge should fire. It is registered and
// looked up separately from node Callables because it returns a bool, not
// a WorkflowState; a graph document's edge.condition.callable field names
// an entry in this table the same way a node's callable field names an
// entry in the tool table.
type Predicate func(s *state.WorkflowState) bool

// Registry is a thread-safe name -> Callable mapping, plus a second
// name -> Predicate table for branch conditions. Reads are safe from any
// number of goroutines; writes are expected only at startup, but are
// still synchronized since nothing prevents a late registration.
type Registry struct {
	tools      map[string]Callable
	predicates map[string]Predicate
	mu         sync.RWMutex
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		tools:      make(map[string]Callable),
		predicates: make(map[string]Predicate),
	}
}

// Register adds a callable under name. Returns an error if the name is
// already registered; names are never silently overwritten.
func (r *Registry) Register(name string, fn Callable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.tools[name] = fn
	return nil
}

// MustRegister registers a callable and panics on error. Useful for
// building a fixed startup registry where a duplicate name is a
// programming error, not a runtime condition.
func (r *Registry) MustRegister(name string, fn Callable) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get looks up a callable by name. Returns ErrNotRegistered if absent.
func (r *Registry) Get(name string) (Callable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return fn, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// Unregister removes name, if present. It is a silent no-op when name is
// not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tools, name)
}

// List returns the names currently registered.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// RegisterPredicate adds a branch predicate under name. Returns an error
// if the name is already registered.
func (r *Registry) RegisterPredicate(name string, fn Predicate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.predicates[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.predicates[name] = fn
	return nil
}

// MustRegisterPredicate registers a predicate and panics on error.
func (r *Registry) MustRegisterPredicate(name string, fn Predicate) {
	if err := r.RegisterPredicate(name, fn); err != nil {
		panic(err)
	}
}

// GetPredicate looks up a branch predicate by name. Returns
// ErrNotRegistered if absent.
func (r *Registry) GetPredicate(name string) (Predicate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.predicates[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return fn, nil
}
