package catalog

// schemaVersion tracks the catalog schema. Bump it when the statements below
// change shape; the store recreates tables only when the version moves.
const schemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_info (
        version INTEGER NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS podcasts (
        uuid TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        author TEXT NOT NULL DEFAULT '',
        added_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS episodes (
        uuid TEXT PRIMARY KEY,
        podcast_uuid TEXT REFERENCES podcasts(uuid) ON DELETE CASCADE,
        title TEXT NOT NULL,
        duration_ms INTEGER NOT NULL DEFAULT 0,
        starred INTEGER NOT NULL DEFAULT 0,
        archived INTEGER NOT NULL DEFAULT 0,
        played_ms INTEGER NOT NULL DEFAULT 0,
        finished INTEGER NOT NULL DEFAULT 0,
        published_at TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_podcast ON episodes(podcast_uuid)`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_published ON episodes(published_at)`,
	`CREATE TABLE IF NOT EXISTS playlists (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS playlist_episodes (
        playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
        episode_uuid TEXT NOT NULL REFERENCES episodes(uuid) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        PRIMARY KEY (playlist_id, episode_uuid)
    )`,
}
