package protocol

import "time"

// StateCode is the coarse playback state advertised to the session consumer.
type StateCode int

const (
	StateNone StateCode = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateStopped
	StateError
)

func (s StateCode) String() string {
	switch s {
	case StateNone:
		return "none"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Actions is the capability bitmask advertised alongside a descriptor.
type Actions uint64

const (
	ActionPlay Actions = 1 << iota
	ActionPause
	ActionPlayPause
	ActionStop
	ActionSeekTo
	ActionPlayFromSearch
	ActionPlayFromID
	ActionSkipToQueueItem
	ActionFastForward
	ActionRewind
	ActionPrepare
	ActionPrepareFromSearch
	ActionPrepareFromID
	ActionSkipToPrevious
	ActionSkipToNext
)

// Has reports whether the mask advertises the given action.
func (a Actions) Has(action Actions) bool { return a&action != 0 }

// Names of the custom actions a descriptor may advertise. These are the
// identifiers the consumer echoes back through the custom-action callback.
const (
	ActionNameSkipBack    = "jumpBack"
	ActionNameSkipForward = "jumpFwd"
	ActionNameArchive     = "archive"
	ActionNameMarkPlayed  = "markAsPlayed"
	ActionNamePlayNext    = "playNext"
	ActionNameChangeSpeed = "changeSpeed"
	ActionNameStar        = "star"
	ActionNameUnstar      = "unstar"
)

// Extras map keys carried on descriptors for consumers that need finer state
// than the coarse code provides.
const (
	ExtraEpisodeID     = "media_id"
	ExtraTransientLoss = "transient_loss"
)

// CustomAction is an app-specific control advertised next to the standard
// capability bitmask.
type CustomAction struct {
	Name  string
	Label string
	Icon  string
}

// Descriptor is the externally published projection of a snapshot plus
// context. It is recomputed on every admitted change and never mutated after
// publication.
type Descriptor struct {
	State         StateCode
	PositionMs    int64
	Speed         float64
	UpdatedAt     time.Time
	ErrorMessage  string
	Actions       Actions
	Extras        map[string]string
	CustomActions []CustomAction
}

// Rating mirrors the favorite flag for episode types that support it.
type Rating struct {
	Supported bool
	Starred   bool
}

// Metadata is the now-playing record published alongside descriptors.
type Metadata struct {
	EpisodeID  string
	Title      string
	Artist     string
	Album      string
	Genre      string
	DurationMs int64
	Rating     Rating
	ArtworkURI string
	// ArtworkEmbedded marks that the consumer should receive an inline
	// raster in addition to the URI. Constrained device classes never set it.
	ArtworkEmbedded bool
}

// NothingPlaying is the metadata record published when no episode is loaded.
func NothingPlaying() Metadata {
	return Metadata{}
}

// QueueItem is one up-next entry published to the consumer.
type QueueItem struct {
	QueueID    int64
	EpisodeID  string
	Title      string
	Subtitle   string
	ArtworkURI string
}
