package playback

import (
	"context"
	"sync"
)

// Engine is the control surface of the playback engine. All control
// operations may be long-running (network-backed) and must honor ctx.
// Implementations are safe for concurrent use.
type Engine interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	SeekTo(ctx context.Context, positionMs int64) error
	SkipForward(ctx context.Context) error
	SkipBackward(ctx context.Context) error
	PlayEpisode(ctx context.Context, episodeID string) error
	PlayEpisodes(ctx context.Context, episodeIDs []string) error
	PlayQueue(ctx context.Context) error
	PlayNext(ctx context.Context, episodeID string) error
	SetSpeed(ctx context.Context, speed float64) error

	// CurrentEpisode returns the now-playing episode, or nil.
	CurrentEpisode() Episode
	// Queue returns the up-next episodes after the current one.
	Queue() []Episode
	// Speed returns the current playback speed multiplier.
	Speed() float64
	// Subscribe registers a snapshot listener. The returned cancel func must
	// be called to release it.
	Subscribe() (<-chan Snapshot, func())
}

// subscriberBuffer bounds each listener channel. Slow listeners lose the
// oldest pending snapshots rather than blocking the engine.
const subscriberBuffer = 128

// Broadcaster fans snapshots out to subscribers. Engines embed or hold one to
// implement Subscribe.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Snapshot]struct{}
}

// NewBroadcaster returns an empty snapshot fanout.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Snapshot]struct{})}
}

// Subscribe registers a listener channel and returns it with a cancel func.
func (b *Broadcaster) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the snapshot to every subscriber without blocking. When a
// listener buffer is full the oldest pending snapshot is dropped first.
func (b *Broadcaster) Publish(snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
