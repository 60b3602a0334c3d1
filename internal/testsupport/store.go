package testsupport

import (
	"context"
	"testing"
	"time"

	"podbridge/internal/catalog"
	"podbridge/internal/config"
	"podbridge/internal/playback"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedPodcast inserts a podcast for tests.
func SeedPodcast(t testing.TB, store *catalog.Store, uuid, title, author string) playback.Podcast {
	t.Helper()

	podcast := playback.Podcast{UUID: uuid, Title: title, Author: author}
	if err := store.AddPodcast(context.Background(), podcast); err != nil {
		t.Fatalf("store.AddPodcast: %v", err)
	}
	return podcast
}

// SeedEpisode inserts a podcast episode for tests. The parent podcast must
// already exist.
func SeedEpisode(t testing.TB, store *catalog.Store, uuid, podcastUUID, name string) playback.PodcastEpisode {
	t.Helper()

	episode := playback.PodcastEpisode{
		UUID:        uuid,
		PodcastUUID: podcastUUID,
		Name:        name,
		Duration:    30 * 60 * 1000,
		PublishedAt: time.Now().UTC(),
	}
	if err := store.AddEpisode(context.Background(), episode); err != nil {
		t.Fatalf("store.AddEpisode: %v", err)
	}
	return episode
}
