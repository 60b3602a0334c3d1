package playback

// State is the engine lifecycle state captured in a snapshot.
type State int

const (
	StateEmpty State = iota
	StateError
	StatePlaying
	StatePaused
	StateBuffering
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ChangeReason tags a snapshot with the engine event that produced it.
type ChangeReason string

const (
	ReasonStateChange    ChangeReason = "state_change"
	ReasonEpisodeChange  ChangeReason = "episode_change"
	ReasonSpeedChange    ChangeReason = "speed_change"
	ReasonSeekCompleted  ChangeReason = "seek_completed"
	ReasonBufferPosition ChangeReason = "buffer_position"
	ReasonProgressTick   ChangeReason = "progress_tick"
	ReasonUserSeeking    ChangeReason = "user_seeking"
)

// LowSignal reports whether the reason carries no information the session
// consumer cannot recompute locally from its last anchor.
func (r ChangeReason) LowSignal() bool {
	switch r {
	case ReasonBufferPosition, ReasonProgressTick, ReasonUserSeeking:
		return true
	default:
		return false
	}
}

// Snapshot is an immutable point-in-time description of playback state.
// Engines issue a new value on every observable change.
type Snapshot struct {
	State         State
	PositionMs    int64
	Speed         float64
	ErrorMessage  string
	TransientLoss bool
	EpisodeID     string
	Reason        ChangeReason
}

// IsEmpty reports whether nothing is loaded.
func (s Snapshot) IsEmpty() bool { return s.State == StateEmpty }

// IsError reports whether the engine is in a terminal error state.
func (s Snapshot) IsError() bool { return s.State == StateError }

// IsPlaying reports whether audio is progressing or about to progress.
func (s Snapshot) IsPlaying() bool { return s.State == StatePlaying || s.State == StateBuffering }

// IsBuffering reports whether the engine is stalled filling its buffer.
func (s Snapshot) IsBuffering() bool { return s.State == StateBuffering }
