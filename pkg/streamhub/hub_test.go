package streamhub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/PrisDen/Trednece-engine/pkg/executor"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

func TestPublishDeliversInOrder(t *testing.T) {
	h := New()
	sub := h.Register("r1")

	h.Publish("r1", LogMessage(executor.ExecutionLog{NodeID: "a"}))
	h.Publish("r1", LogMessage(executor.ExecutionLog{NodeID: "b"}))
	h.Publish("r1", StatusMessage(types.RunStatusCompleted, ""))

	ctx := context.Background()
	msg1, ok := sub.Receive(ctx)
	if !ok || msg1.Log.NodeID != "a" {
		t.Fatalf("first message = %+v, ok=%v", msg1, ok)
	}
	msg2, ok := sub.Receive(ctx)
	if !ok || msg2.Log.NodeID != "b" {
		t.Fatalf("second message = %+v, ok=%v", msg2, ok)
	}
	msg3, ok := sub.Receive(ctx)
	if !ok || msg3.Type != MessageTypeStatus || msg3.Status != types.RunStatusCompleted {
		t.Fatalf("third message = %+v, ok=%v", msg3, ok)
	}
}

func TestPublishFansOutToMultipleSubscribers(t *testing.T) {
	h := New()
	sub1 := h.Register("r1")
	sub2 := h.Register("r1")

	h.Publish("r1", LogMessage(executor.ExecutionLog{NodeID: "a"}))

	ctx := context.Background()
	m1, ok := sub1.Receive(ctx)
	if !ok || m1.Log.NodeID != "a" {
		t.Fatalf("sub1 = %+v, ok=%v", m1, ok)
	}
	m2, ok := sub2.Receive(ctx)
	if !ok || m2.Log.NodeID != "a" {
		t.Fatalf("sub2 = %+v, ok=%v", m2, ok)
	}
}

func TestPublishToUnknownRunIsSilent(t *testing.T) {
	h := New()
	h.Publish("no-such-run", LogMessage(executor.ExecutionLog{NodeID: "a"}))
}

func TestUnregisterReapsEmptyRun(t *testing.T) {
	h := New()
	sub := h.Register("r1")
	if h.SubscriberCount("r1") != 1 {
		t.Fatalf("count = %d, want 1", h.SubscriberCount("r1"))
	}
	h.Unregister("r1", sub)
	if h.SubscriberCount("r1") != 0 {
		t.Fatalf("count = %d, want 0 after unregister", h.SubscriberCount("r1"))
	}
}

func TestUnregisterUnknownIsSilentNoOp(t *testing.T) {
	h := New()
	sub := h.Register("r1")
	h.Unregister("r1", sub)
	h.Unregister("r1", sub) // second time: already gone
}

func TestReceiveUnblocksOnContextCancel(t *testing.T) {
	h := New()
	sub := h.Register("r1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := sub.Receive(ctx)
	if ok {
		t.Fatal("expected Receive to time out with no published message")
	}
}

func TestPublishIsNonBlockingUnderConcurrentLoad(t *testing.T) {
	h := New()
	sub := h.Register("r1")

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Publish("r1", LogMessage(executor.ExecutionLog{NodeID: "n"}))
		}(i)
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	count := 0
	for count < 200 {
		if _, ok := sub.Receive(ctx); !ok {
			t.Fatalf("only received %d of 200 messages", count)
		}
		count++
	}
}
