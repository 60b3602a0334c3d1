package protocol_test

import (
	"context"
	"errors"
	"testing"

	"podbridge/internal/protocol"
)

func TestSessionStateHoldsLatestValues(t *testing.T) {
	state := protocol.NewSessionState()
	ctx := context.Background()

	if _, ok := state.Descriptor(); ok {
		t.Fatalf("fresh state should have no descriptor")
	}

	if err := state.Publish(ctx, protocol.Descriptor{State: protocol.StatePlaying, PositionMs: 500}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := state.Publish(ctx, protocol.Descriptor{State: protocol.StatePaused, PositionMs: 900}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	desc, ok := state.Descriptor()
	if !ok || desc.State != protocol.StatePaused || desc.PositionMs != 900 {
		t.Fatalf("Descriptor = %+v (ok=%v), want latest paused value", desc, ok)
	}

	if err := state.PublishMetadata(ctx, protocol.Metadata{Title: "Pilot"}); err != nil {
		t.Fatalf("PublishMetadata: %v", err)
	}
	if got := state.Metadata().Title; got != "Pilot" {
		t.Fatalf("Metadata.Title = %q", got)
	}

	state.SetActive(true)
	if !state.Active() {
		t.Fatalf("Active should be true")
	}
}

func TestSessionStateQueueIsCopied(t *testing.T) {
	state := protocol.NewSessionState()
	items := []protocol.QueueItem{{QueueID: 0, EpisodeID: "ep-1"}}
	if err := state.PublishQueue(context.Background(), items); err != nil {
		t.Fatalf("PublishQueue: %v", err)
	}
	items[0].EpisodeID = "mutated"

	got := state.Queue()
	if len(got) != 1 || got[0].EpisodeID != "ep-1" {
		t.Fatalf("Queue = %+v, want the published snapshot", got)
	}

	got[0].EpisodeID = "mutated again"
	if state.Queue()[0].EpisodeID != "ep-1" {
		t.Fatalf("returned queue slice should not alias internal state")
	}
}

type failingSink struct {
	protocol.SessionState
	err error
}

func (f *failingSink) Publish(context.Context, protocol.Descriptor) error { return f.err }

func TestFanoutReachesEverySinkAndReportsFirstError(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")
	bad := &failingSink{err: errBoom}
	good := protocol.NewSessionState()

	fanout := protocol.Fanout{bad, good}
	err := fanout.Publish(ctx, protocol.Descriptor{State: protocol.StatePlaying})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Publish error = %v, want %v", err, errBoom)
	}
	if desc, ok := good.Descriptor(); !ok || desc.State != protocol.StatePlaying {
		t.Fatalf("second sink should still receive the publication, got %+v (ok=%v)", desc, ok)
	}
}
