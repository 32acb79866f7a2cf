package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.CallStatusEvent
	err    error
	block  chan struct{}
}

func (s *recordingService) Process(_ context.Context, ev domain.CallStatusEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingService) snapshot() []domain.CallStatusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CallStatusEvent(nil), s.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		if err := d.Enqueue(domain.CallStatusEvent{CallID: id, UserID: "u1"}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	waitFor(t, func() bool { return len(svc.snapshot()) == 5 })
	for i, ev := range svc.snapshot() {
		if want := []string{"c1", "c2", "c3", "c4", "c5"}[i]; ev.CallID != want {
			t.Fatalf("event %d = %s, want %s", i, ev.CallID, want)
		}
	}
}

func TestDispatcher_ErrorsDoNotStopWorker(t *testing.T) {
	svc := &recordingService{err: errors.New("ledger down")}
	d := NewDispatcher(1, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	_ = d.Enqueue(domain.CallStatusEvent{CallID: "a", UserID: "u"})
	_ = d.Enqueue(domain.CallStatusEvent{CallID: "b", UserID: "u"})

	waitFor(t, func() bool { return len(svc.snapshot()) == 2 })
}

func TestDispatcher_QueueFull(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	d := NewDispatcher(1, svc, zerolog.Nop())
	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(domain.CallStatusEvent{UserID: "u"}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := d.Enqueue(domain.CallStatusEvent{UserID: "u"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())
	for i := 0; i < 10; i++ {
		_ = d.Enqueue(domain.CallStatusEvent{UserID: "u"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
	if got := len(svc.snapshot()); got != 10 {
		t.Fatalf("expected 10 drained events, got %d", got)
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	first := d.shardIndex("user-42")
	for i := 0; i < 10; i++ {
		if d.shardIndex("user-42") != first {
			t.Fatal("shard index must be stable")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("index out of range: %d", first)
	}
}
