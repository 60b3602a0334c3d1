package localengine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"podbridge/internal/catalog"
	"podbridge/internal/config"
	"podbridge/internal/logging"
	"podbridge/internal/playback"
)

const tickInterval = time.Second

// Library is the catalog surface the engine reads and writes. *catalog.Store
// satisfies it.
type Library interface {
	FindEpisode(ctx context.Context, episodeID string) (playback.Episode, error)
	SavePosition(ctx context.Context, episodeID string, positionMs int64) error
	MarkPlayed(ctx context.Context, episodeID string) error
}

// Engine is a catalog-backed playback.Engine implementation.
type Engine struct {
	broadcaster *playback.Broadcaster
	library     Library
	logger      *slog.Logger
	skipFwdMs   int64
	skipBackMs  int64

	mu       sync.Mutex
	state    playback.State
	current  playback.Episode
	queue    []playback.Episode
	position int64
	speed    float64
	errMsg   string

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs an engine using the configured skip intervals.
func New(library Library, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		broadcaster: playback.NewBroadcaster(),
		library:     library,
		logger:      logger.With(logging.String(logging.FieldComponent, "localengine")),
		skipFwdMs:   int64(cfg.Playback.SkipForwardSeconds) * 1000,
		skipBackMs:  int64(cfg.Playback.SkipBackSeconds) * 1000,
		state:       playback.StateEmpty,
		speed:       1.0,
	}
}

// Start launches the progress ticker.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return errors.New("engine already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	go e.tickLoop(runCtx, e.done)
	return nil
}

// Close stops the ticker and persists the play position.
func (e *Engine) Close() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	cancel := e.cancel
	done := e.done
	e.running = false
	e.cancel = nil
	e.mu.Unlock()

	cancel()
	<-done

	e.mu.Lock()
	current := e.current
	position := e.position
	e.mu.Unlock()
	if current != nil {
		e.savePosition(current.ID(), position)
	}
}

func (e *Engine) tickLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick advances the play head by one interval at the current speed. Reaching
// the end of the episode marks it played and advances to the next queued
// episode.
func (e *Engine) tick(ctx context.Context) {
	e.mu.Lock()
	if e.state != playback.StatePlaying || e.current == nil {
		e.mu.Unlock()
		return
	}
	e.position += int64(float64(tickInterval.Milliseconds()) * e.speed)
	duration := e.current.DurationMs()
	finished := duration > 0 && e.position >= duration
	current := e.current
	snap := e.snapshotLocked(playback.ReasonProgressTick)
	e.mu.Unlock()

	if !finished {
		e.broadcaster.Publish(snap)
		e.savePosition(current.ID(), snap.PositionMs)
		return
	}

	if err := e.library.MarkPlayed(ctx, current.ID()); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		e.logger.Warn("mark played failed",
			logging.String(logging.FieldEpisodeID, current.ID()),
			logging.Error(err),
		)
	}
	e.advance()
}

// advance moves to the next queued episode, or empties the engine.
func (e *Engine) advance() {
	e.mu.Lock()
	if len(e.queue) > 0 {
		e.current = e.queue[0]
		e.queue = e.queue[1:]
		e.position = 0
		e.state = playback.StatePlaying
	} else {
		e.current = nil
		e.position = 0
		e.state = playback.StateEmpty
	}
	snap := e.snapshotLocked(playback.ReasonEpisodeChange)
	e.mu.Unlock()
	e.broadcaster.Publish(snap)
}

func (e *Engine) snapshotLocked(reason playback.ChangeReason) playback.Snapshot {
	snap := playback.Snapshot{
		State:        e.state,
		PositionMs:   e.position,
		Speed:        e.speed,
		ErrorMessage: e.errMsg,
		Reason:       reason,
	}
	if e.current != nil {
		snap.EpisodeID = e.current.ID()
	}
	return snap
}

func (e *Engine) savePosition(episodeID string, positionMs int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.library.SavePosition(ctx, episodeID, positionMs); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		e.logger.Warn("save position failed",
			logging.String(logging.FieldEpisodeID, episodeID),
			logging.Error(err),
		)
	}
}

// Play resumes the current episode, or starts the queue when nothing is
// loaded.
func (e *Engine) Play(ctx context.Context) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return e.PlayQueue(ctx)
	}
	e.state = playback.StatePlaying
	e.errMsg = ""
	snap := e.snapshotLocked(playback.ReasonStateChange)
	e.mu.Unlock()
	e.broadcaster.Publish(snap)
	return nil
}

// Pause pauses playback and persists the position.
func (e *Engine) Pause(ctx context.Context) error {
	return e.halt(ctx, playback.StatePaused)
}

// Stop stops playback and persists the position.
func (e *Engine) Stop(ctx context.Context) error {
	return e.halt(ctx, playback.StateStopped)
}

func (e *Engine) halt(ctx context.Context, state playback.State) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return nil
	}
	e.state = state
	current := e.current
	position := e.position
	snap := e.snapshotLocked(playback.ReasonStateChange)
	e.mu.Unlock()
	e.broadcaster.Publish(snap)
	if err := e.library.SavePosition(ctx, current.ID(), position); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	return nil
}

// SeekTo moves the play head to an absolute position.
func (e *Engine) SeekTo(ctx context.Context, positionMs int64) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return nil
	}
	e.position = clamp(positionMs, e.current.DurationMs())
	snap := e.snapshotLocked(playback.ReasonSeekCompleted)
	current := e.current
	position := e.position
	e.mu.Unlock()
	e.broadcaster.Publish(snap)
	if err := e.library.SavePosition(ctx, current.ID(), position); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	return nil
}

// SkipForward jumps ahead by the configured interval.
func (e *Engine) SkipForward(ctx context.Context) error {
	return e.skip(ctx, e.skipFwdMs)
}

// SkipBackward jumps back by the configured interval.
func (e *Engine) SkipBackward(ctx context.Context) error {
	return e.skip(ctx, -e.skipBackMs)
}

func (e *Engine) skip(ctx context.Context, deltaMs int64) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return nil
	}
	position := e.position + deltaMs
	e.mu.Unlock()
	return e.SeekTo(ctx, position)
}

// PlayEpisode loads the identified episode and starts playing from its saved
// position.
func (e *Engine) PlayEpisode(ctx context.Context, episodeID string) error {
	episode, err := e.library.FindEpisode(ctx, episodeID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.current = episode
	e.position = savedPosition(episode)
	e.state = playback.StatePlaying
	e.errMsg = ""
	snap := e.snapshotLocked(playback.ReasonEpisodeChange)
	e.mu.Unlock()
	e.broadcaster.Publish(snap)
	return nil
}

// PlayEpisodes plays the first episode and queues the rest.
func (e *Engine) PlayEpisodes(ctx context.Context, episodeIDs []string) error {
	if len(episodeIDs) == 0 {
		return nil
	}
	rest := make([]playback.Episode, 0, len(episodeIDs)-1)
	for _, id := range episodeIDs[1:] {
		episode, err := e.library.FindEpisode(ctx, id)
		if err != nil {
			return err
		}
		rest = append(rest, episode)
	}
	if err := e.PlayEpisode(ctx, episodeIDs[0]); err != nil {
		return err
	}
	e.mu.Lock()
	e.queue = rest
	e.mu.Unlock()
	return nil
}

// PlayQueue starts the first queued episode.
func (e *Engine) PlayQueue(ctx context.Context) error {
	e.mu.Lock()
	if len(e.queue) == 0 {
		e.mu.Unlock()
		return nil
	}
	next := e.queue[0]
	e.queue = e.queue[1:]
	e.mu.Unlock()
	return e.PlayEpisode(ctx, next.ID())
}

// PlayNext inserts the identified episode at the front of the queue.
func (e *Engine) PlayNext(ctx context.Context, episodeID string) error {
	episode, err := e.library.FindEpisode(ctx, episodeID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.queue = append([]playback.Episode{episode}, e.queue...)
	e.mu.Unlock()
	return nil
}

// SetSpeed changes the playback speed multiplier.
func (e *Engine) SetSpeed(_ context.Context, speed float64) error {
	if speed <= 0 {
		return errors.New("speed must be positive")
	}
	e.mu.Lock()
	e.speed = speed
	snap := e.snapshotLocked(playback.ReasonSpeedChange)
	e.mu.Unlock()
	e.broadcaster.Publish(snap)
	return nil
}

// CurrentEpisode returns the loaded episode, or nil.
func (e *Engine) CurrentEpisode() playback.Episode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Queue returns the up-next episodes.
func (e *Engine) Queue() []playback.Episode {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]playback.Episode, len(e.queue))
	copy(out, e.queue)
	return out
}

// Speed returns the playback speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// Subscribe registers a snapshot listener.
func (e *Engine) Subscribe() (<-chan playback.Snapshot, func()) {
	return e.broadcaster.Subscribe()
}

func savedPosition(episode playback.Episode) int64 {
	if pe, ok := episode.(playback.PodcastEpisode); ok && !pe.Finished {
		return pe.PlayedMs
	}
	return 0
}

func clamp(position, duration int64) int64 {
	if position < 0 {
		return 0
	}
	if duration > 0 && position > duration {
		return duration
	}
	return position
}
