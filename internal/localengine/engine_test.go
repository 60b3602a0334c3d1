package localengine_test

import (
	"context"
	"testing"
	"time"

	"podbridge/internal/catalog"
	"podbridge/internal/localengine"
	"podbridge/internal/playback"
	"podbridge/internal/testsupport"
)

func newEngine(t *testing.T) (*localengine.Engine, *catalog.Store) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedPodcast(t, store, "pod-1", "Show", "")
	testsupport.SeedEpisode(t, store, "ep-1", "pod-1", "One")
	testsupport.SeedEpisode(t, store, "ep-2", "pod-1", "Two")
	testsupport.SeedEpisode(t, store, "ep-3", "pod-1", "Three")
	return localengine.New(store, cfg, nil), store
}

func nextSnapshot(t *testing.T, snaps <-chan playback.Snapshot) playback.Snapshot {
	t.Helper()

	select {
	case snap := <-snaps:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
		return playback.Snapshot{}
	}
}

func TestPlayEpisodeEmitsEpisodeChange(t *testing.T) {
	engine, _ := newEngine(t)
	snaps, cancel := engine.Subscribe()
	defer cancel()

	if err := engine.PlayEpisode(context.Background(), "ep-1"); err != nil {
		t.Fatalf("PlayEpisode: %v", err)
	}

	snap := nextSnapshot(t, snaps)
	if snap.State != playback.StatePlaying || snap.EpisodeID != "ep-1" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Reason != playback.ReasonEpisodeChange {
		t.Fatalf("reason = %q", snap.Reason)
	}
	if got := engine.CurrentEpisode(); got == nil || got.ID() != "ep-1" {
		t.Fatalf("current = %v", got)
	}
}

func TestPlayUnknownEpisodeFails(t *testing.T) {
	engine, _ := newEngine(t)
	if err := engine.PlayEpisode(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown episode")
	}
}

func TestPauseSavesPosition(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	if err := engine.PlayEpisode(ctx, "ep-1"); err != nil {
		t.Fatalf("PlayEpisode: %v", err)
	}
	if err := engine.SeekTo(ctx, 90_000); err != nil {
		t.Fatalf("SeekTo: %v", err)
	}
	if err := engine.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	episode, err := store.FindEpisode(ctx, "ep-1")
	if err != nil {
		t.Fatalf("FindEpisode: %v", err)
	}
	pe, ok := episode.(playback.PodcastEpisode)
	if !ok {
		t.Fatalf("episode type %T", episode)
	}
	if pe.PlayedMs != 90_000 {
		t.Fatalf("played_ms = %d", pe.PlayedMs)
	}
}

func TestResumeFromSavedPosition(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	if err := store.SavePosition(ctx, "ep-1", 120_000); err != nil {
		t.Fatalf("SavePosition: %v", err)
	}
	snaps, cancel := engine.Subscribe()
	defer cancel()
	if err := engine.PlayEpisode(ctx, "ep-1"); err != nil {
		t.Fatalf("PlayEpisode: %v", err)
	}
	snap := nextSnapshot(t, snaps)
	if snap.PositionMs != 120_000 {
		t.Fatalf("position = %d, want saved 120000", snap.PositionMs)
	}
}

func TestSkipClamping(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	snaps, cancel := engine.Subscribe()
	defer cancel()
	if err := engine.PlayEpisode(ctx, "ep-1"); err != nil {
		t.Fatalf("PlayEpisode: %v", err)
	}
	nextSnapshot(t, snaps)

	if err := engine.SkipBackward(ctx); err != nil {
		t.Fatalf("SkipBackward: %v", err)
	}
	snap := nextSnapshot(t, snaps)
	if snap.PositionMs != 0 {
		t.Fatalf("position after back skip at start = %d", snap.PositionMs)
	}
	if snap.Reason != playback.ReasonSeekCompleted {
		t.Fatalf("reason = %q", snap.Reason)
	}

	// 30-minute episode: seek near the end and overshoot.
	if err := engine.SeekTo(ctx, 30*60*1000-1000); err != nil {
		t.Fatalf("SeekTo: %v", err)
	}
	nextSnapshot(t, snaps)
	if err := engine.SkipForward(ctx); err != nil {
		t.Fatalf("SkipForward: %v", err)
	}
	snap = nextSnapshot(t, snaps)
	if snap.PositionMs != 30*60*1000 {
		t.Fatalf("position after clamped forward skip = %d", snap.PositionMs)
	}
}

func TestPlayEpisodesQueuesRest(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	if err := engine.PlayEpisodes(ctx, []string{"ep-1", "ep-2", "ep-3"}); err != nil {
		t.Fatalf("PlayEpisodes: %v", err)
	}
	if got := engine.CurrentEpisode(); got == nil || got.ID() != "ep-1" {
		t.Fatalf("current = %v", got)
	}
	queue := engine.Queue()
	if len(queue) != 2 || queue[0].ID() != "ep-2" || queue[1].ID() != "ep-3" {
		t.Fatalf("queue = %v", queue)
	}
}

func TestPlayQueueAdvances(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	if err := engine.PlayEpisodes(ctx, []string{"ep-1", "ep-2"}); err != nil {
		t.Fatalf("PlayEpisodes: %v", err)
	}
	if err := engine.PlayQueue(ctx); err != nil {
		t.Fatalf("PlayQueue: %v", err)
	}
	if got := engine.CurrentEpisode(); got == nil || got.ID() != "ep-2" {
		t.Fatalf("current = %v", got)
	}
	if queue := engine.Queue(); len(queue) != 0 {
		t.Fatalf("queue = %v", queue)
	}
}

func TestPlayNextInsertsAtFront(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	if err := engine.PlayEpisodes(ctx, []string{"ep-1", "ep-2"}); err != nil {
		t.Fatalf("PlayEpisodes: %v", err)
	}
	if err := engine.PlayNext(ctx, "ep-3"); err != nil {
		t.Fatalf("PlayNext: %v", err)
	}
	queue := engine.Queue()
	if len(queue) != 2 || queue[0].ID() != "ep-3" || queue[1].ID() != "ep-2" {
		t.Fatalf("queue = %v", queue)
	}
}

func TestSetSpeed(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	if err := engine.SetSpeed(ctx, 1.4); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	if got := engine.Speed(); got != 1.4 {
		t.Fatalf("speed = %v", got)
	}
	if err := engine.SetSpeed(ctx, 0); err == nil {
		t.Fatal("zero speed accepted")
	}
}

func TestPlayWithNothingLoadedStartsQueue(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	if err := engine.PlayNext(ctx, "ep-2"); err != nil {
		t.Fatalf("PlayNext: %v", err)
	}
	if err := engine.Play(ctx); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := engine.CurrentEpisode(); got == nil || got.ID() != "ep-2" {
		t.Fatalf("current = %v", got)
	}
}
