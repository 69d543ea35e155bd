package runstore

import (
	"sync"
	"testing"

	"github.com/PrisDen/Trednece-engine/pkg/executor"
	"github.com/PrisDen/Trednece-engine/pkg/state"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

func newRecord(runID string) *Record {
	return &Record{
		RunID:   runID,
		GraphID: "g1",
		State:   state.New(nil),
		Status:  types.RunStatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New()
	if err := s.Create(newRecord("r1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := s.Get("r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Status != types.RunStatusPending {
		t.Errorf("status = %q, want pending", rec.Status)
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := New()
	if err := s.Create(newRecord("r1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(newRecord("r1")); err != ErrAlreadyExists {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetUnknown(t *testing.T) {
	s := New()
	if _, err := s.Get("missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUnknown(t *testing.T) {
	s := New()
	running := types.RunStatusRunning
	if err := s.Update("missing", Patch{Status: &running}); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNeverRegressesTerminalStatus(t *testing.T) {
	s := New()
	_ = s.Create(newRecord("r1"))

	failed := types.RunStatusFailed
	if err := s.Update("r1", Patch{Status: &failed}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	running := types.RunStatusRunning
	if err := s.Update("r1", Patch{Status: &running}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec, _ := s.Get("r1")
	if rec.Status != types.RunStatusFailed {
		t.Errorf("status = %q, want failed (first terminal wins)", rec.Status)
	}
}

func TestAppendLogAccumulates(t *testing.T) {
	s := New()
	_ = s.Create(newRecord("r1"))

	_ = s.AppendLog("r1", executor.ExecutionLog{NodeID: "a", Status: executor.LogStatusSuccess})
	_ = s.AppendLog("r1", executor.ExecutionLog{NodeID: "b", Status: executor.LogStatusSuccess})

	rec, _ := s.Get("r1")
	if len(rec.Logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(rec.Logs))
	}
	if rec.Logs[0].NodeID != "a" || rec.Logs[1].NodeID != "b" {
		t.Errorf("logs out of order: %+v", rec.Logs)
	}
}

func TestRequestCancelIsIdempotent(t *testing.T) {
	s := New()
	_ = s.Create(newRecord("r1"))

	if err := s.RequestCancel("r1"); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	if err := s.RequestCancel("r1"); err != nil {
		t.Fatalf("second RequestCancel: %v", err)
	}

	rec, _ := s.Get("r1")
	if !rec.Cancelled || rec.Status != types.RunStatusCancelled {
		t.Errorf("rec = %+v, want cancelled", rec)
	}
	if !s.IsCancelled("r1") {
		t.Error("IsCancelled = false, want true")
	}
}

func TestDistinctRunsDoNotBlockEachOther(t *testing.T) {
	s := New()
	_ = s.Create(newRecord("r1"))
	_ = s.Create(newRecord("r2"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.AppendLog("r1", executor.ExecutionLog{NodeID: "a"})
		}()
		go func() {
			defer wg.Done()
			_ = s.AppendLog("r2", executor.ExecutionLog{NodeID: "b"})
		}()
	}
	wg.Wait()

	rec1, _ := s.Get("r1")
	rec2, _ := s.Get("r2")
	if len(rec1.Logs) != 50 || len(rec2.Logs) != 50 {
		t.Errorf("rec1 logs=%d rec2 logs=%d, want 50 each", len(rec1.Logs), len(rec2.Logs))
	}
}
