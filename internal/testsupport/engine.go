package testsupport

import (
	"context"
	"strconv"
	"sync"

	"podbridge/internal/playback"
)

// FakeEngine is a scriptable playback.Engine for tests. Control calls are
// recorded in order; snapshots are emitted through Emit.
type FakeEngine struct {
	*playback.Broadcaster

	mu      sync.Mutex
	calls   []string
	episode playback.Episode
	queue   []playback.Episode
	speed   float64
	err     error
}

// NewFakeEngine returns an engine with speed 1.0 and nothing loaded.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Broadcaster: playback.NewBroadcaster(),
		speed:       1.0,
	}
}

// Emit publishes a snapshot to all subscribers.
func (e *FakeEngine) Emit(snap playback.Snapshot) {
	e.Broadcaster.Publish(snap)
}

// SetCurrent replaces the now-playing episode.
func (e *FakeEngine) SetCurrent(episode playback.Episode) {
	e.mu.Lock()
	e.episode = episode
	e.mu.Unlock()
}

// SetQueue replaces the up-next list.
func (e *FakeEngine) SetQueue(episodes ...playback.Episode) {
	e.mu.Lock()
	e.queue = episodes
	e.mu.Unlock()
}

// SetSpeedValue sets the speed reported by Speed.
func (e *FakeEngine) SetSpeedValue(speed float64) {
	e.mu.Lock()
	e.speed = speed
	e.mu.Unlock()
}

// FailWith makes every subsequent control call return err.
func (e *FakeEngine) FailWith(err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
}

// Calls returns the control calls recorded so far.
func (e *FakeEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

func (e *FakeEngine) record(call string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
	return e.err
}

func (e *FakeEngine) Play(context.Context) error  { return e.record("play") }
func (e *FakeEngine) Pause(context.Context) error { return e.record("pause") }
func (e *FakeEngine) Stop(context.Context) error  { return e.record("stop") }

func (e *FakeEngine) SeekTo(_ context.Context, positionMs int64) error {
	return e.record("seek:" + strconv.FormatInt(positionMs, 10))
}

func (e *FakeEngine) SkipForward(context.Context) error  { return e.record("skip_forward") }
func (e *FakeEngine) SkipBackward(context.Context) error { return e.record("skip_backward") }

func (e *FakeEngine) PlayEpisode(_ context.Context, episodeID string) error {
	return e.record("play_episode:" + episodeID)
}

func (e *FakeEngine) PlayEpisodes(_ context.Context, episodeIDs []string) error {
	call := "play_episodes"
	for _, id := range episodeIDs {
		call += ":" + id
	}
	return e.record(call)
}

func (e *FakeEngine) PlayQueue(context.Context) error { return e.record("play_queue") }

func (e *FakeEngine) PlayNext(_ context.Context, episodeID string) error {
	return e.record("play_next:" + episodeID)
}

func (e *FakeEngine) SetSpeed(_ context.Context, speed float64) error {
	e.mu.Lock()
	e.speed = speed
	e.calls = append(e.calls, "set_speed")
	err := e.err
	e.mu.Unlock()
	return err
}

func (e *FakeEngine) CurrentEpisode() playback.Episode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.episode
}

func (e *FakeEngine) Queue() []playback.Episode {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]playback.Episode, len(e.queue))
	copy(out, e.queue)
	return out
}

func (e *FakeEngine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}
