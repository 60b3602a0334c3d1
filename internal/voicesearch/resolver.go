package voicesearch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"podbridge/internal/catalog"
	"podbridge/internal/logging"
	"podbridge/internal/playback"
	"podbridge/internal/projection"
	"podbridge/internal/protocol"
)

// playlistEpisodeCap bounds how many episodes a matched curated list starts
// playing.
const playlistEpisodeCap = 5

// NoResultsMessage is the error text surfaced when nothing matches.
const NoResultsMessage = "No search results"

// ErrNoResults reports that a query matched nothing in any tier.
var ErrNoResults = errors.New("voicesearch: no results")

// ErrBusy reports that the matched playback start was dropped because the
// command queue was full.
var ErrBusy = errors.New("voicesearch: command queue full")

// Catalog is the search surface the resolver queries. *catalog.Store
// satisfies it.
type Catalog interface {
	SearchPodcastByTitle(ctx context.Context, query string) (*playback.Podcast, error)
	SearchEpisodes(ctx context.Context, query string) (playback.Episode, error)
	FindPlaylistByTitle(ctx context.Context, query string) (*playback.Playlist, error)
	PlaylistEpisodes(ctx context.Context, playlistID int64, limit int) ([]playback.Episode, error)
	LatestUnfinishedEpisode(ctx context.Context, podcastUUID string) (playback.Episode, error)
}

// Sequencer serializes engine control calls. *sequencer.Sequencer satisfies
// it.
type Sequencer interface {
	Submit(label string, run func(ctx context.Context) error) bool
}

// Resolver turns voice queries into engine playback calls. Matching runs on
// the caller's goroutine; the final playback start goes through the bound
// sequencer so it cannot interleave with other engine commands. A new Resolve
// cancels the previous outstanding one; only the latest utterance wins.
type Resolver struct {
	engine  playback.Engine
	catalog Catalog
	sink    protocol.Sink
	logger  *slog.Logger
	lower   cases.Caser
	seq     Sequencer

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New constructs a resolver. The sink receives the error descriptor on a
// total miss and may be nil.
func New(engine playback.Engine, cat Catalog, sink protocol.Sink, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		engine:  engine,
		catalog: cat,
		sink:    sink,
		logger:  logger.With(logging.String(logging.FieldComponent, "voicesearch")),
		lower:   cases.Lower(language.Und),
	}
}

// BindSequencer routes the resolver's playback starts through seq. An
// unbound resolver starts playback on the caller's goroutine.
func (r *Resolver) BindSequencer(seq Sequencer) { r.seq = seq }

// startPlayback hands the matched engine call to the sequencer. The
// resolution context is checked again at execution time so a superseded
// utterance never starts playback from the queue.
func (r *Resolver) startPlayback(resolveCtx context.Context, label string, run func(ctx context.Context) error) error {
	if r.seq == nil {
		return run(resolveCtx)
	}
	submitted := r.seq.Submit(label, func(ctx context.Context) error {
		if resolveCtx.Err() != nil {
			return nil
		}
		return run(ctx)
	})
	if !submitted {
		return ErrBusy
	}
	return nil
}

// Candidates expands a query into search candidates: the full query first,
// then prefixes dropping one trailing word at a time.
func Candidates(query string) []string {
	options := []string{query}
	parts := strings.Fields(query)
	for i := len(parts) - 1; i >= 1; i-- {
		options = append(options, strings.Join(parts[:i], " "))
	}
	return options
}

// Resolve matches the query and starts playback. It returns ErrNoResults
// after publishing the error descriptor when nothing matches, and nil when
// the query is empty or playback started.
func (r *Resolver) Resolve(ctx context.Context, query string) error {
	query = r.lower.String(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	ctx = r.begin(ctx)

	r.logger.Info("resolving voice query", logging.String(logging.FieldQuery, query))

	if strings.HasPrefix(query, "up next") {
		return r.startPlayback(ctx, "voice play queue", r.engine.PlayQueue)
	}

	if strings.HasPrefix(query, "next episode") || strings.HasPrefix(query, "next podcast") {
		if queued := r.engine.Queue(); len(queued) > 0 && queued[0] != nil {
			id := queued[0].ID()
			return r.startPlayback(ctx, "voice play next", func(ctx context.Context) error {
				return r.engine.PlayEpisode(ctx, id)
			})
		}
		// Empty queue: fall through to the normal tiers.
	}

	candidates := Candidates(query)

	for _, option := range candidates {
		podcast, err := r.catalog.SearchPodcastByTitle(ctx, option)
		if err != nil {
			if tierFailed(err) {
				return err
			}
			continue
		}
		return r.playPodcast(ctx, podcast, option)
	}

	for _, option := range candidates {
		episode, err := r.catalog.SearchEpisodes(ctx, option)
		if err != nil {
			if tierFailed(err) {
				return err
			}
			continue
		}
		r.logger.Info("voice query matched episode",
			logging.String(logging.FieldQuery, option),
			logging.String(logging.FieldEpisodeID, episode.ID()),
		)
		id := episode.ID()
		return r.startPlayback(ctx, "voice play episode", func(ctx context.Context) error {
			return r.engine.PlayEpisode(ctx, id)
		})
	}

	for _, option := range candidates {
		playlist, err := r.catalog.FindPlaylistByTitle(ctx, option)
		if err != nil {
			if tierFailed(err) {
				return err
			}
			continue
		}
		episodes, err := r.catalog.PlaylistEpisodes(ctx, playlist.ID, playlistEpisodeCap)
		if err != nil {
			return err
		}
		if len(episodes) == 0 {
			return nil
		}
		ids := make([]string, len(episodes))
		for i, episode := range episodes {
			ids[i] = episode.ID()
		}
		r.logger.Info("voice query matched curated list", logging.String(logging.FieldQuery, option))
		return r.startPlayback(ctx, "voice play curated list", func(ctx context.Context) error {
			return r.engine.PlayEpisodes(ctx, ids)
		})
	}

	r.logger.Info("voice query matched nothing", logging.String(logging.FieldQuery, query))
	if r.sink != nil {
		if err := r.sink.Publish(ctx, projection.ErrorDescriptor(NoResultsMessage)); err != nil {
			r.logger.Warn("error descriptor publication failed", logging.Error(err))
		}
	}
	return ErrNoResults
}

// begin cancels the previous outstanding resolution and registers this one.
func (r *Resolver) begin(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.mu.Unlock()
	return ctx
}

func (r *Resolver) playPodcast(ctx context.Context, podcast *playback.Podcast, option string) error {
	episode, err := r.catalog.LatestUnfinishedEpisode(ctx, podcast.UUID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil
		}
		return err
	}
	r.logger.Info("voice query matched podcast",
		logging.String(logging.FieldQuery, option),
		logging.String(logging.FieldEpisodeID, episode.ID()),
	)
	id := episode.ID()
	return r.startPlayback(ctx, "voice play podcast", func(ctx context.Context) error {
		return r.engine.PlayEpisode(ctx, id)
	})
}

// tierFailed distinguishes a clean miss from a store failure that should
// abort the resolution.
func tierFailed(err error) bool {
	return !errors.Is(err, catalog.ErrNotFound)
}
