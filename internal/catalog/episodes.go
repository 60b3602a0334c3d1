package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"podbridge/internal/playback"
)

const episodeColumns = `uuid, podcast_uuid, title, duration_ms, starred, archived, played_ms, finished, published_at`

// AddPodcast inserts or replaces a podcast.
func (s *Store) AddPodcast(ctx context.Context, p playback.Podcast) error {
	if strings.TrimSpace(p.UUID) == "" {
		return errors.New("podcast uuid is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("podcast title is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO podcasts (uuid, title, author, added_at) VALUES (?, ?, ?, ?)`,
		p.UUID, p.Title, p.Author, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert podcast: %w", err)
	}
	return nil
}

// AddEpisode inserts or replaces a podcast episode.
func (s *Store) AddEpisode(ctx context.Context, e playback.PodcastEpisode) error {
	if strings.TrimSpace(e.UUID) == "" {
		return errors.New("episode uuid is required")
	}
	if strings.TrimSpace(e.PodcastUUID) == "" {
		return errors.New("episode podcast uuid is required")
	}
	published := ""
	if !e.PublishedAt.IsZero() {
		published = e.PublishedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO episodes (`+episodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UUID, e.PodcastUUID, e.Name, e.Duration, boolInt(e.IsStarred), boolInt(e.IsArchived),
		e.PlayedMs, boolInt(e.Finished), published,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// AddUserEpisode inserts or replaces a standalone uploaded episode.
func (s *Store) AddUserEpisode(ctx context.Context, e playback.UserEpisode) error {
	if strings.TrimSpace(e.UUID) == "" {
		return errors.New("episode uuid is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO episodes (`+episodeColumns+`) VALUES (?, NULL, ?, ?, 0, ?, 0, 0, '')`,
		e.UUID, e.Name, e.Duration, boolInt(e.IsArchived),
	)
	if err != nil {
		return fmt.Errorf("insert user episode: %w", err)
	}
	return nil
}

// FindEpisode returns the episode with the given id, or ErrNotFound.
func (s *Store) FindEpisode(ctx context.Context, episodeID string) (playback.Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE uuid = ?`, episodeID)
	return scanEpisode(row)
}

// FindPodcast returns the podcast with the given uuid, or ErrNotFound.
func (s *Store) FindPodcast(ctx context.Context, podcastUUID string) (*playback.Podcast, error) {
	var p playback.Podcast
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, title, author FROM podcasts WHERE uuid = ?`, podcastUUID,
	).Scan(&p.UUID, &p.Title, &p.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find podcast: %w", err)
	}
	return &p, nil
}

// PodcastForEpisode returns the parent podcast of an episode, or nil for
// standalone uploads.
func (s *Store) PodcastForEpisode(ctx context.Context, episode playback.Episode) (*playback.Podcast, error) {
	pe, ok := episode.(playback.PodcastEpisode)
	if !ok {
		return nil, nil
	}
	podcast, err := s.FindPodcast(ctx, pe.PodcastUUID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return podcast, err
}

// LatestUnfinishedEpisode returns the most recently published episode of the
// podcast that has not been finished or archived.
func (s *Store) LatestUnfinishedEpisode(ctx context.Context, podcastUUID string) (playback.Episode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes
         WHERE podcast_uuid = ? AND finished = 0 AND archived = 0
         ORDER BY published_at DESC LIMIT 1`, podcastUUID)
	return scanEpisode(row)
}

// SetStarred updates the starred flag of a podcast episode.
func (s *Store) SetStarred(ctx context.Context, episodeID string, starred bool) error {
	return s.updateEpisode(ctx, episodeID, `UPDATE episodes SET starred = ? WHERE uuid = ? AND podcast_uuid IS NOT NULL`, boolInt(starred))
}

// SetArchived updates the archived flag of an episode.
func (s *Store) SetArchived(ctx context.Context, episodeID string, archived bool) error {
	return s.updateEpisode(ctx, episodeID, `UPDATE episodes SET archived = ? WHERE uuid = ?`, boolInt(archived))
}

// MarkPlayed marks an episode finished with its position at the end.
func (s *Store) MarkPlayed(ctx context.Context, episodeID string) error {
	return s.updateEpisode(ctx, episodeID, `UPDATE episodes SET finished = 1, played_ms = duration_ms WHERE uuid = ?`, nil)
}

// SavePosition records playback progress for an episode.
func (s *Store) SavePosition(ctx context.Context, episodeID string, positionMs int64) error {
	return s.updateEpisode(ctx, episodeID, `UPDATE episodes SET played_ms = ? WHERE uuid = ?`, positionMs)
}

func (s *Store) updateEpisode(ctx context.Context, episodeID, query string, value any) error {
	var (
		res sql.Result
		err error
	)
	if value == nil {
		res, err = s.db.ExecContext(ctx, query, episodeID)
	} else {
		res, err = s.db.ExecContext(ctx, query, value, episodeID)
	}
	if err != nil {
		return fmt.Errorf("update episode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPodcasts returns every podcast ordered by title.
func (s *Store) ListPodcasts(ctx context.Context) ([]playback.Podcast, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT uuid, title, author FROM podcasts ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list podcasts: %w", err)
	}
	defer rows.Close()

	var podcasts []playback.Podcast
	for rows.Next() {
		var p playback.Podcast
		if err := rows.Scan(&p.UUID, &p.Title, &p.Author); err != nil {
			return nil, fmt.Errorf("scan podcast: %w", err)
		}
		podcasts = append(podcasts, p)
	}
	return podcasts, rows.Err()
}

// ListEpisodes returns the episodes of a podcast, newest first.
func (s *Store) ListEpisodes(ctx context.Context, podcastUUID string) ([]playback.Episode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE podcast_uuid = ? ORDER BY published_at DESC`, podcastUUID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()
	return collectEpisodes(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (playback.Episode, error) {
	var (
		uuid, title, published string
		podcastUUID            sql.NullString
		durationMs, playedMs   int64
		starred, archived      int
		finished               int
	)
	err := row.Scan(&uuid, &podcastUUID, &title, &durationMs, &starred, &archived, &playedMs, &finished, &published)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan episode: %w", err)
	}

	if !podcastUUID.Valid {
		return playback.UserEpisode{
			UUID:       uuid,
			Name:       title,
			Duration:   durationMs,
			IsArchived: archived != 0,
		}, nil
	}

	var publishedAt time.Time
	if published != "" {
		publishedAt, _ = time.Parse(time.RFC3339Nano, published)
	}
	return playback.PodcastEpisode{
		UUID:        uuid,
		PodcastUUID: podcastUUID.String,
		Name:        title,
		Duration:    durationMs,
		IsStarred:   starred != 0,
		IsArchived:  archived != 0,
		PlayedMs:    playedMs,
		Finished:    finished != 0,
		PublishedAt: publishedAt,
	}, nil
}

func collectEpisodes(rows *sql.Rows) ([]playback.Episode, error) {
	var episodes []playback.Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
