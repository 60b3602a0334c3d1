package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"podbridge/internal/catalog"
	"podbridge/internal/config"
	"podbridge/internal/logging"
	"podbridge/internal/mediakeys"
	"podbridge/internal/pipeline"
	"podbridge/internal/playback"
	"podbridge/internal/projection"
	"podbridge/internal/protocol"
	"podbridge/internal/sequencer"
	"podbridge/internal/voicesearch"
)

// ErrBusy reports that the command queue was full and the submission was
// dropped.
var ErrBusy = errors.New("session: command queue full")

// Library is the catalog surface the bridge mutates. *catalog.Store
// satisfies it.
type Library interface {
	FindEpisode(ctx context.Context, episodeID string) (playback.Episode, error)
	SetStarred(ctx context.Context, episodeID string, starred bool) error
	SetArchived(ctx context.Context, episodeID string, archived bool) error
	MarkPlayed(ctx context.Context, episodeID string) error
}

// Options configures a Bridge.
type Options struct {
	Engine   playback.Engine
	Library  Library
	Resolver *voicesearch.Resolver
	State    *protocol.SessionState
	Pipeline *pipeline.Pipeline
	Config   *config.Config
	Logger   *slog.Logger
}

// Bridge accepts session-protocol callbacks and drives the engine. All
// callbacks are safe for concurrent use; engine commands are serialized
// through an internal FIFO queue.
type Bridge struct {
	engine   playback.Engine
	library  Library
	resolver *voicesearch.Resolver
	state    *protocol.SessionState
	pipeline *pipeline.Pipeline
	cfg      *config.Config
	logger   *slog.Logger
	seq      *sequencer.Sequencer
	taps     *mediakeys.Disambiguator
}

// New constructs a bridge from options. Engine, State, and Config are
// required.
func New(opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	tapTimeout := time.Duration(opts.Config.Session.TapTimeoutMs) * time.Millisecond
	seq := sequencer.New(opts.Config.Session.CommandQueueCapacity, logger)
	if opts.Resolver != nil {
		// The resolver's playback starts share the bridge's command queue.
		opts.Resolver.BindSequencer(seq)
	}
	return &Bridge{
		engine:   opts.Engine,
		library:  opts.Library,
		resolver: opts.Resolver,
		state:    opts.State,
		pipeline: opts.Pipeline,
		cfg:      opts.Config,
		logger:   logger.With(logging.String(logging.FieldComponent, "session")),
		seq:      seq,
		taps:     mediakeys.New(tapTimeout),
	}
}

// Start launches the command worker and the publishing pipeline.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.seq.Start(ctx); err != nil {
		return err
	}
	if b.pipeline != nil {
		if err := b.pipeline.Start(ctx); err != nil {
			b.seq.Stop()
			return err
		}
	}
	return nil
}

// Close stops the pipeline and the command worker.
func (b *Bridge) Close() {
	if b.pipeline != nil {
		b.pipeline.Stop()
	}
	b.seq.Stop()
}

func (b *Bridge) submit(label string, run func(ctx context.Context) error) error {
	if !b.seq.Submit(label, run) {
		return ErrBusy
	}
	return nil
}

// Play starts or resumes playback.
func (b *Bridge) Play() error {
	return b.submit("play", b.engine.Play)
}

// Pause pauses playback.
func (b *Bridge) Pause() error {
	return b.submit("pause", b.engine.Pause)
}

// StopPlayback handles the protocol stop callback. Car head units send stop
// when they mean pause, so pausing is the less destructive response and
// keeps a later play working.
func (b *Bridge) StopPlayback() error {
	return b.submit("stop", b.engine.Pause)
}

// TogglePlayPause flips between playing and paused based on the last
// published state.
func (b *Bridge) TogglePlayPause() error {
	if b.playing() {
		return b.Pause()
	}
	return b.Play()
}

// SeekTo moves playback to an absolute position.
func (b *Bridge) SeekTo(positionMs int64) error {
	return b.submit(fmt.Sprintf("seek to %d", positionMs), func(ctx context.Context) error {
		return b.engine.SeekTo(ctx, positionMs)
	})
}

// SkipForward jumps ahead by the configured interval.
func (b *Bridge) SkipForward() error {
	return b.submit("skip forward", b.engine.SkipForward)
}

// SkipBackward jumps back by the configured interval.
func (b *Bridge) SkipBackward() error {
	return b.submit("skip backward", b.engine.SkipBackward)
}

// SkipToNext handles the protocol next-track callback, which for episodic
// audio means a forward jump, not a track change.
func (b *Bridge) SkipToNext() error { return b.SkipForward() }

// SkipToPrevious handles the protocol previous-track callback as a backward
// jump.
func (b *Bridge) SkipToPrevious() error { return b.SkipBackward() }

// PlayFromID starts the identified episode. Unknown identifiers are ignored.
func (b *Bridge) PlayFromID(ctx context.Context, episodeID string) error {
	if episodeID == "" {
		return nil
	}
	episode, err := b.library.FindEpisode(ctx, episodeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			b.logger.Info("ignoring play request for unknown episode",
				logging.String(logging.FieldEpisodeID, episodeID))
			return nil
		}
		return err
	}
	id := episode.ID()
	return b.submit("play from id", func(ctx context.Context) error {
		return b.engine.PlayEpisode(ctx, id)
	})
}

// PlayFromSearch resolves a voice query. It runs outside the command queue;
// a newer query cancels the previous one.
func (b *Bridge) PlayFromSearch(ctx context.Context, query string) error {
	if b.resolver == nil {
		return nil
	}
	return b.resolver.Resolve(ctx, query)
}

// SkipToQueueItem starts the queued episode with the given position.
func (b *Bridge) SkipToQueueItem(queueID int64) error {
	queued := b.engine.Queue()
	if queueID < 0 || queueID >= int64(len(queued)) || queued[queueID] == nil {
		return nil
	}
	id := queued[queueID].ID()
	return b.submit("skip to queue item", func(ctx context.Context) error {
		return b.engine.PlayEpisode(ctx, id)
	})
}

// SetRating maps the protocol rating callback onto star and unstar.
func (b *Bridge) SetRating(ctx context.Context, starred bool) error {
	return b.setStarred(ctx, starred)
}

// CustomAction dispatches a custom action by its advertised name. Unknown
// names are ignored.
func (b *Bridge) CustomAction(ctx context.Context, name string) error {
	switch name {
	case protocol.ActionNameSkipBack:
		return b.SkipBackward()
	case protocol.ActionNameSkipForward:
		return b.SkipForward()
	case protocol.ActionNameStar:
		return b.setStarred(ctx, true)
	case protocol.ActionNameUnstar:
		return b.setStarred(ctx, false)
	case protocol.ActionNameArchive:
		return b.archive(ctx)
	case protocol.ActionNameMarkPlayed:
		return b.markPlayed(ctx)
	case protocol.ActionNameChangeSpeed:
		return b.changeSpeed(ctx)
	case protocol.ActionNamePlayNext:
		return b.playNextInQueue()
	default:
		b.logger.Info("ignoring unknown custom action", logging.String("action", name))
		return nil
	}
}

// HandleKey records a raw media-button press and acts on the resolved
// gesture. It blocks until the press cluster settles; superseded presses
// return without acting.
func (b *Bridge) HandleKey(ctx context.Context, key mediakeys.Key) error {
	intent, ok := b.taps.Tap(ctx, key)
	if !ok {
		return ctx.Err()
	}
	b.logger.Debug("media key resolved",
		logging.String("key", key.String()),
		logging.String("intent", intent.String()),
	)
	switch intent {
	case mediakeys.IntentSingle:
		return b.TogglePlayPause()
	case mediakeys.IntentDouble:
		return b.headphoneAction(b.cfg.Controls.HeadphoneNextAction)
	case mediakeys.IntentTriple:
		return b.headphoneAction(b.cfg.Controls.HeadphonePreviousAction)
	default:
		return nil
	}
}

// headphoneAction performs a configured headphone gesture. Skipping forward
// while paused also resumes, since the listener clearly wants to keep going.
func (b *Bridge) headphoneAction(action string) error {
	switch action {
	case config.ActionSkipBack:
		return b.SkipBackward()
	case config.ActionSkipForward:
		resume := !b.playing()
		return b.submit("headphone skip forward", func(ctx context.Context) error {
			if err := b.engine.SkipForward(ctx); err != nil {
				return err
			}
			if resume {
				return b.engine.Play(ctx)
			}
			return nil
		})
	default:
		return nil
	}
}

func (b *Bridge) playing() bool {
	if b.state == nil {
		return false
	}
	desc, ok := b.state.Descriptor()
	if !ok {
		return false
	}
	return desc.State == protocol.StatePlaying || desc.State == protocol.StateBuffering
}

func (b *Bridge) setStarred(ctx context.Context, starred bool) error {
	episode := b.engine.CurrentEpisode()
	if episode == nil || !episode.SupportsStarring() {
		return nil
	}
	if err := b.library.SetStarred(ctx, episode.ID(), starred); err != nil {
		return err
	}
	b.republish(ctx)
	return nil
}

func (b *Bridge) archive(ctx context.Context) error {
	episode := b.engine.CurrentEpisode()
	if episode == nil || !episode.SupportsStarring() {
		// Only podcast episodes archive through this surface.
		return nil
	}
	if err := b.library.SetArchived(ctx, episode.ID(), true); err != nil {
		return err
	}
	b.republish(ctx)
	return nil
}

func (b *Bridge) markPlayed(ctx context.Context) error {
	episode := b.engine.CurrentEpisode()
	if episode == nil {
		return nil
	}
	if err := b.library.MarkPlayed(ctx, episode.ID()); err != nil {
		return err
	}
	b.republish(ctx)
	return nil
}

func (b *Bridge) changeSpeed(context.Context) error {
	return b.submit("change speed", func(ctx context.Context) error {
		next := projection.NextSpeed(b.engine.Speed())
		if err := b.engine.SetSpeed(ctx, next); err != nil {
			return err
		}
		b.republish(ctx)
		return nil
	})
}

func (b *Bridge) playNextInQueue() error {
	queued := b.engine.Queue()
	if len(queued) == 0 || queued[0] == nil {
		return nil
	}
	id := queued[0].ID()
	return b.submit("play next in queue", func(ctx context.Context) error {
		return b.engine.PlayEpisode(ctx, id)
	})
}

// republish feeds the last published state back through the pipeline so a
// catalog or speed change shows up without waiting for an engine snapshot.
func (b *Bridge) republish(ctx context.Context) {
	if b.pipeline == nil || b.state == nil {
		return
	}
	desc, ok := b.state.Descriptor()
	if !ok {
		return
	}
	snap := playback.Snapshot{
		PositionMs: desc.PositionMs,
		Speed:      b.engine.Speed(),
		EpisodeID:  desc.Extras[protocol.ExtraEpisodeID],
		Reason:     playback.ReasonEpisodeChange,
	}
	switch desc.State {
	case protocol.StatePlaying:
		snap.State = playback.StatePlaying
	case protocol.StateBuffering:
		snap.State = playback.StateBuffering
	case protocol.StatePaused:
		snap.State = playback.StatePaused
	case protocol.StateStopped:
		snap.State = playback.StateStopped
	default:
		snap.State = playback.StateEmpty
	}
	b.pipeline.Refresh(ctx, snap)
}

// Pending reports the number of queued, unstarted commands.
func (b *Bridge) Pending() int { return b.seq.Pending() }
