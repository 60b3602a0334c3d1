package sequencer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"podbridge/internal/sequencer"
)

func startSequencer(t *testing.T, capacity int) *sequencer.Sequencer {
	t.Helper()
	s := sequencer.New(capacity, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func TestCommandsRunInSubmissionOrder(t *testing.T) {
	s := startSequencer(t, 10)

	var mu sync.Mutex
	var order []int
	release := make(chan struct{})
	done := make(chan struct{})

	s.Submit("first", func(ctx context.Context) error {
		<-release
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		return nil
	})
	s.Submit("second", func(ctx context.Context) error {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		return nil
	})
	s.Submit("third", func(ctx context.Context) error {
		mu.Lock()
		order = append(order, 3)
		mu.Unlock()
		close(done)
		return nil
	})

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("commands did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("execution order = %v, want [1 2 3]", order)
	}
}

func TestFullQueueDropsNewestSubmission(t *testing.T) {
	s := startSequencer(t, 2)

	block := make(chan struct{})
	defer close(block)

	// Occupy the worker so queued slots stay full.
	if !s.Submit("blocker", func(ctx context.Context) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}) {
		t.Fatalf("blocker submission rejected")
	}

	// Give the worker time to dequeue the blocker.
	deadline := time.Now().Add(time.Second)
	for s.Pending() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("worker never picked up the blocker")
		}
		time.Sleep(time.Millisecond)
	}

	if !s.Submit("q1", func(ctx context.Context) error { return nil }) {
		t.Fatalf("first queued submission rejected")
	}
	if !s.Submit("q2", func(ctx context.Context) error { return nil }) {
		t.Fatalf("second queued submission rejected")
	}
	if s.Submit("overflow", func(ctx context.Context) error { return nil }) {
		t.Fatalf("overflowing submission should be dropped")
	}
	if got := s.Pending(); got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}
}

func TestPanickingCommandDoesNotKillWorker(t *testing.T) {
	s := startSequencer(t, 10)

	done := make(chan struct{})
	s.Submit("panics", func(ctx context.Context) error { panic("boom") })
	s.Submit("survives", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not survive the panic")
	}
}

func TestDoubleStartFails(t *testing.T) {
	s := startSequencer(t, 10)
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("second Start should fail")
	}
}

func TestStopAbandonsQueuedCommands(t *testing.T) {
	s := sequencer.New(2, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	executed := make(chan struct{}, 1)
	s.Submit("blocker", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started
	s.Submit("abandoned", func(context.Context) error {
		executed <- struct{}{}
		return nil
	})

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return")
	}
	select {
	case <-executed:
		t.Fatalf("queued command ran after Stop")
	default:
	}
}

func TestInFlightCommandRunsToCompletionAcrossStop(t *testing.T) {
	s := sequencer.New(2, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan error, 1)
	s.Submit("long running", func(ctx context.Context) error {
		close(started)
		<-release
		finished <- ctx.Err()
		return nil
	})
	<-started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case ctxErr := <-finished:
		if ctxErr != nil {
			t.Fatalf("in-flight command context canceled during Stop: %v", ctxErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("in-flight command did not finish")
	}
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after the in-flight command finished")
	}
}
