package playback

import "time"

// Episode is the shared read-only view over the playable variants. Only
// podcast-backed episodes support starring and carry a parent podcast.
type Episode interface {
	ID() string
	Title() string
	DurationMs() int64
	Starred() bool
	SupportsStarring() bool
	Archived() bool
}

// Podcast is the parent collection of podcast episodes.
type Podcast struct {
	UUID   string
	Title  string
	Author string
}

// Playlist is a curated list of episodes addressable by title.
type Playlist struct {
	ID    int64
	Title string
}

// PodcastEpisode is an episode belonging to a subscribed podcast.
type PodcastEpisode struct {
	UUID        string
	PodcastUUID string
	Name        string
	Duration    int64 // milliseconds
	IsStarred   bool
	IsArchived  bool
	PlayedMs    int64
	Finished    bool
	PublishedAt time.Time
}

func (e PodcastEpisode) ID() string             { return e.UUID }
func (e PodcastEpisode) Title() string          { return e.Name }
func (e PodcastEpisode) DurationMs() int64      { return e.Duration }
func (e PodcastEpisode) Starred() bool          { return e.IsStarred }
func (e PodcastEpisode) SupportsStarring() bool { return true }
func (e PodcastEpisode) Archived() bool         { return e.IsArchived }

// UserEpisode is a standalone uploaded file with no parent podcast.
type UserEpisode struct {
	UUID       string
	Name       string
	Duration   int64 // milliseconds
	IsArchived bool
}

func (e UserEpisode) ID() string             { return e.UUID }
func (e UserEpisode) Title() string          { return e.Name }
func (e UserEpisode) DurationMs() int64      { return e.Duration }
func (e UserEpisode) Starred() bool          { return false }
func (e UserEpisode) SupportsStarring() bool { return false }
func (e UserEpisode) Archived() bool         { return e.IsArchived }

// SameIdentity reports whether two episodes are identical as far as the
// session consumer can observe: id, duration, and starred flag. It tolerates
// nil on either side.
func SameIdentity(a, b Episode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID() && a.DurationMs() == b.DurationMs() && a.Starred() == b.Starred()
}

// DisplaySubtitle derives the artist-style line shown under the episode
// title. Podcast episodes show the podcast title; standalone uploads show a
// fixed label.
func DisplaySubtitle(episode Episode, podcast *Podcast) string {
	if podcast != nil && podcast.Title != "" {
		return podcast.Title
	}
	if _, ok := episode.(UserEpisode); ok {
		return "Files"
	}
	return ""
}
