package ipc

// PlayRequest resumes playback, or starts a specific episode when EpisodeID
// is set.
type PlayRequest struct {
	EpisodeID string `json:"episode_id"`
}

// PlayResponse indicates whether the command was accepted.
type PlayResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// PauseRequest pauses playback.
type PauseRequest struct{}

// PauseResponse indicates whether the command was accepted.
type PauseResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// StopRequest delivers the protocol stop callback.
type StopRequest struct{}

// StopResponse indicates whether the command was accepted.
type StopResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// SeekRequest moves playback to an absolute position.
type SeekRequest struct {
	PositionMs int64 `json:"position_ms"`
}

// SeekResponse indicates whether the command was accepted.
type SeekResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// KeyRequest delivers a raw media-button press. Key is one of "play_pause",
// "next", or "previous".
type KeyRequest struct {
	Key string `json:"key"`
}

// KeyResponse reports how the press cluster resolved.
type KeyResponse struct {
	Handled bool   `json:"handled"`
	Message string `json:"message"`
}

// SearchRequest resolves a voice query.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse reports whether the query matched anything.
type SearchResponse struct {
	Matched bool   `json:"matched"`
	Message string `json:"message"`
}

// CustomActionRequest dispatches a custom action by its advertised name.
type CustomActionRequest struct {
	Name string `json:"name"`
}

// CustomActionResponse indicates whether the action was accepted.
type CustomActionResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// SkipToQueueItemRequest starts the queued episode with the given position.
type SkipToQueueItemRequest struct {
	QueueID int64 `json:"queue_id"`
}

// SkipToQueueItemResponse indicates whether the command was accepted.
type SkipToQueueItemResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// StatusRequest fetches the published session state.
type StatusRequest struct{}

// StatusResponse mirrors the last published descriptor and now-playing
// record.
type StatusResponse struct {
	State         string   `json:"state"`
	PositionMs    int64    `json:"position_ms"`
	Speed         float64  `json:"speed"`
	UpdatedAt     string   `json:"updated_at"`
	ErrorMessage  string   `json:"error_message"`
	Active        bool     `json:"active"`
	CustomActions []string `json:"custom_actions"`

	EpisodeID  string `json:"episode_id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	DurationMs int64  `json:"duration_ms"`
	Starred    bool   `json:"starred"`

	PendingCommands int `json:"pending_commands"`
}

// QueueRequest fetches the published up-next list.
type QueueRequest struct{}

// QueueEntry is one published up-next item.
type QueueEntry struct {
	QueueID   int64  `json:"queue_id"`
	EpisodeID string `json:"episode_id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
}

// QueueResponse contains the published up-next items.
type QueueResponse struct {
	Items []QueueEntry `json:"items"`
}
