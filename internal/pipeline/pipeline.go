package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"podbridge/internal/catalog"
	"podbridge/internal/logging"
	"podbridge/internal/playback"
	"podbridge/internal/projection"
	"podbridge/internal/protocol"
)

const defaultPublishRetries = 3

// Library resolves episode identifiers from snapshots into full records.
// *catalog.Store satisfies it.
type Library interface {
	FindEpisode(ctx context.Context, episodeID string) (playback.Episode, error)
	PodcastForEpisode(ctx context.Context, episode playback.Episode) (*playback.Podcast, error)
}

// Options configures a Pipeline. Engine, Library, and Sink are required.
type Options struct {
	Engine   playback.Engine
	Library  Library
	Sink     protocol.Sink
	Settings projection.Settings
	Device   projection.DeviceProfile
	Logger   *slog.Logger

	// PublishRetries bounds attempts per publication; zero means the
	// default of three.
	PublishRetries int

	// Now stamps descriptors; nil means time.Now.
	Now func() time.Time
}

// Pipeline converts engine snapshots into protocol publications.
type Pipeline struct {
	engine   playback.Engine
	library  Library
	sink     protocol.Sink
	settings projection.Settings
	device   projection.DeviceProfile
	logger   *slog.Logger
	retries  int
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// anchor is the identity of the episode behind the last publication,
	// used to let low-signal snapshots through when identity changed.
	anchor    playback.Episode
	published bool
}

// New constructs a pipeline from options.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	retries := opts.PublishRetries
	if retries <= 0 {
		retries = defaultPublishRetries
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		engine:   opts.Engine,
		library:  opts.Library,
		sink:     opts.Sink,
		settings: opts.Settings,
		device:   opts.Device,
		logger:   logger.With(logging.String(logging.FieldComponent, "pipeline")),
		retries:  retries,
		now:      now,
	}
}

// Start subscribes to the engine and launches the publishing goroutine.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("pipeline already running")
	}
	snapshots, unsubscribe := p.engine.Subscribe()
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	go p.run(runCtx, snapshots, unsubscribe, p.done)
	return nil
}

// Stop halts the publishing goroutine and cancels the subscription.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.running = false
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *Pipeline) run(ctx context.Context, snapshots <-chan playback.Snapshot, unsubscribe func(), done chan struct{}) {
	defer close(done)
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			p.handle(ctx, snap)
		}
	}
}

// Refresh recomputes and publishes the current state outside the snapshot
// flow, for callers that changed context the engine does not observe, such
// as a settings reload.
func (p *Pipeline) Refresh(ctx context.Context, snap playback.Snapshot) {
	p.handle(ctx, snap)
}

func (p *Pipeline) handle(ctx context.Context, snap playback.Snapshot) {
	episode := p.resolveEpisode(ctx, snap)

	p.mu.Lock()
	skip := p.published && snap.Reason.LowSignal() && playback.SameIdentity(p.anchor, episode)
	if !skip {
		p.anchor = episode
		p.published = true
	}
	p.mu.Unlock()
	if skip {
		return
	}

	podcast := p.resolvePodcast(ctx, episode)

	desc := projection.Project(snap, episode, podcast, p.settings, p.device)
	desc.UpdatedAt = p.now()
	meta := projection.ProjectMetadata(episode, podcast, p.settings, p.device)

	p.sink.SetActive(desc.State != protocol.StateError && (snap.IsPlaying() || snap.TransientLoss))

	p.publish(ctx, "descriptor", func(ctx context.Context) error {
		return p.sink.Publish(ctx, desc)
	})
	p.publish(ctx, "metadata", func(ctx context.Context) error {
		return p.sink.PublishMetadata(ctx, meta)
	})

	if snap.Reason == playback.ReasonEpisodeChange || snap.Reason == playback.ReasonStateChange {
		p.publishQueue(ctx)
	}
}

func (p *Pipeline) resolveEpisode(ctx context.Context, snap playback.Snapshot) playback.Episode {
	if snap.EpisodeID == "" || p.library == nil {
		return nil
	}
	episode, err := p.library.FindEpisode(ctx, snap.EpisodeID)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			p.logger.Warn("episode lookup failed",
				logging.String(logging.FieldEpisodeID, snap.EpisodeID),
				logging.Error(err),
			)
		}
		return nil
	}
	return episode
}

func (p *Pipeline) resolvePodcast(ctx context.Context, episode playback.Episode) *playback.Podcast {
	if episode == nil || p.library == nil {
		return nil
	}
	podcast, err := p.library.PodcastForEpisode(ctx, episode)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			p.logger.Warn("podcast lookup failed",
				logging.String(logging.FieldEpisodeID, episode.ID()),
				logging.Error(err),
			)
		}
		return nil
	}
	return podcast
}

func (p *Pipeline) publish(ctx context.Context, what string, fn func(ctx context.Context) error) {
	var err error
	for attempt := 1; attempt <= p.retries; attempt++ {
		if err = fn(ctx); err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
	p.logger.Warn("publication failed after retries",
		logging.String(logging.FieldEventType, "publish_failed"),
		logging.String("publication", what),
		logging.Int("attempts", p.retries),
		logging.Error(err),
	)
}

// publishQueue pushes the engine's up-next list. Queue failures are logged
// and otherwise ignored; the next state change republishes.
func (p *Pipeline) publishQueue(ctx context.Context) {
	episodes := p.engine.Queue()
	items := make([]protocol.QueueItem, 0, len(episodes))
	for i, episode := range episodes {
		if episode == nil {
			continue
		}
		podcast := p.resolvePodcast(ctx, episode)
		items = append(items, protocol.QueueItem{
			QueueID:    int64(i),
			EpisodeID:  episode.ID(),
			Title:      episode.Title(),
			Subtitle:   playback.DisplaySubtitle(episode, podcast),
			ArtworkURI: projection.ArtworkURI(episode, podcast, p.settings.UseEpisodeArtwork),
		})
	}
	p.publish(ctx, "queue", func(ctx context.Context) error {
		return p.sink.PublishQueue(ctx, items)
	})
}
