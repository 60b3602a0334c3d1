package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"podbridge/internal/playback"
)

// SearchPodcastByTitle returns the podcast whose title matches the query,
// preferring an exact case-insensitive match over a prefix match, or
// ErrNotFound.
func (s *Store) SearchPodcastByTitle(ctx context.Context, query string) (*playback.Podcast, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}
	var p playback.Podcast
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, title, author FROM podcasts
         WHERE lower(title) = lower(?) OR lower(title) LIKE lower(?) || '%'
         ORDER BY CASE WHEN lower(title) = lower(?) THEN 0 ELSE 1 END, title
         LIMIT 1`,
		query, query, query,
	).Scan(&p.UUID, &p.Title, &p.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("search podcast: %w", err)
	}
	return &p, nil
}

// SearchEpisodes returns the newest unarchived episode whose title contains
// the query, or ErrNotFound.
func (s *Store) SearchEpisodes(ctx context.Context, query string) (playback.Episode, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes
         WHERE archived = 0 AND lower(title) LIKE '%' || lower(?) || '%'
         ORDER BY published_at DESC LIMIT 1`, query)
	return scanEpisode(row)
}

// FindPlaylistByTitle returns the curated list with a matching title, or
// ErrNotFound.
func (s *Store) FindPlaylistByTitle(ctx context.Context, query string) (*playback.Playlist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}
	var pl playback.Playlist
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM playlists WHERE lower(title) = lower(?) LIMIT 1`, query,
	).Scan(&pl.ID, &pl.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	return &pl, nil
}

// PlaylistEpisodes returns up to limit unarchived episodes of the playlist in
// list order. A limit of 0 means unlimited.
func (s *Store) PlaylistEpisodes(ctx context.Context, playlistID int64, limit int) ([]playback.Episode, error) {
	q := `SELECT ` + episodeColumnsPrefixed + ` FROM playlist_episodes pe
          JOIN episodes e ON e.uuid = pe.episode_uuid
          WHERE pe.playlist_id = ? AND e.archived = 0
          ORDER BY pe.position`
	args := []any{playlistID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("playlist episodes: %w", err)
	}
	defer rows.Close()
	return collectEpisodes(rows)
}

// CreatePlaylist inserts a curated list with the given member episodes.
func (s *Store) CreatePlaylist(ctx context.Context, title string, episodeIDs []string) (*playback.Playlist, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("playlist title is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin playlist tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO playlists (title) VALUES (?)`, title)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("playlist id: %w", err)
	}
	for position, episodeID := range episodeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playlist_episodes (playlist_id, episode_uuid, position) VALUES (?, ?, ?)`,
			id, episodeID, position,
		); err != nil {
			return nil, fmt.Errorf("insert playlist member: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit playlist: %w", err)
	}
	return &playback.Playlist{ID: id, Title: title}, nil
}

const episodeColumnsPrefixed = `e.uuid, e.podcast_uuid, e.title, e.duration_ms, e.starred, e.archived, e.played_ms, e.finished, e.published_at`
