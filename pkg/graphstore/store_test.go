package graphstore

import (
	"context"
	"testing"

	"github.com/PrisDen/Trednece-engine/pkg/registry"
	"github.com/PrisDen/Trednece-engine/pkg/state"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

func noop(_ context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	return s, nil
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.MustRegister("noop", noop)
	return reg
}

func simpleDoc(id string) types.GraphDocument {
	return types.GraphDocument{
		ID:        id,
		StartNode: "a",
		Nodes: []types.NodeConfig{
			{ID: "a", Callable: "noop"},
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New(newRegistry(t))
	g, err := s.Create(simpleDoc("g1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID != "g1" {
		t.Errorf("ID = %q, want g1", g.ID)
	}

	got, err := s.Get("g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != g {
		t.Error("Get returned a different graph than Create produced")
	}
}

func TestCreateCollision(t *testing.T) {
	s := New(newRegistry(t))
	if _, err := s.Create(simpleDoc("g1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(simpleDoc("g1")); err != ErrAlreadyExists {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateValidationFailure(t *testing.T) {
	s := New(newRegistry(t))
	doc := simpleDoc("g2")
	doc.StartNode = "missing"
	if _, err := s.Create(doc); err == nil {
		t.Fatal("expected validation error for unknown start_node")
	}
}

func TestGetUnknown(t *testing.T) {
	s := New(newRegistry(t))
	if _, err := s.Get("missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListAndExists(t *testing.T) {
	s := New(newRegistry(t))
	_, _ = s.Create(simpleDoc("g1"))
	_, _ = s.Create(simpleDoc("g2"))

	if !s.Exists("g1") || !s.Exists("g2") {
		t.Fatal("expected both graphs to exist")
	}
	ids := s.List()
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2", len(ids))
	}
}
