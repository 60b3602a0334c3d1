package playback_test

import (
	"testing"

	"podbridge/internal/playback"
)

func TestSameIdentity(t *testing.T) {
	base := playback.PodcastEpisode{UUID: "ep-1", Duration: 1000}
	cases := []struct {
		name string
		a, b playback.Episode
		want bool
	}{
		{"identical", base, base, true},
		{"different id", base, playback.PodcastEpisode{UUID: "ep-2", Duration: 1000}, false},
		{"different duration", base, playback.PodcastEpisode{UUID: "ep-1", Duration: 2000}, false},
		{"starred flips", base, playback.PodcastEpisode{UUID: "ep-1", Duration: 1000, IsStarred: true}, false},
		{"both nil", nil, nil, true},
		{"one nil", base, nil, false},
	}
	for _, tc := range cases {
		if got := playback.SameIdentity(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: SameIdentity = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisplaySubtitle(t *testing.T) {
	podcast := &playback.Podcast{UUID: "pod-1", Title: "The Show"}
	episode := playback.PodcastEpisode{UUID: "ep-1", PodcastUUID: "pod-1"}
	if got := playback.DisplaySubtitle(episode, podcast); got != "The Show" {
		t.Fatalf("DisplaySubtitle = %q, want %q", got, "The Show")
	}
	if got := playback.DisplaySubtitle(playback.UserEpisode{UUID: "up-1"}, nil); got != "Files" {
		t.Fatalf("DisplaySubtitle for upload = %q, want %q", got, "Files")
	}
	if got := playback.DisplaySubtitle(episode, nil); got != "" {
		t.Fatalf("DisplaySubtitle without podcast = %q, want empty", got)
	}
}

func TestLowSignalReasons(t *testing.T) {
	low := []playback.ChangeReason{
		playback.ReasonBufferPosition,
		playback.ReasonProgressTick,
		playback.ReasonUserSeeking,
	}
	for _, r := range low {
		if !r.LowSignal() {
			t.Fatalf("%s should be low signal", r)
		}
	}
	high := []playback.ChangeReason{
		playback.ReasonStateChange,
		playback.ReasonEpisodeChange,
		playback.ReasonSpeedChange,
		playback.ReasonSeekCompleted,
	}
	for _, r := range high {
		if r.LowSignal() {
			t.Fatalf("%s should not be low signal", r)
		}
	}
}

func TestBroadcasterDeliversToAllSubscribers(t *testing.T) {
	b := playback.NewBroadcaster()
	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(playback.Snapshot{State: playback.StatePlaying, EpisodeID: "ep-1"})

	for i, ch := range []<-chan playback.Snapshot{ch1, ch2} {
		select {
		case snap := <-ch:
			if snap.EpisodeID != "ep-1" {
				t.Fatalf("subscriber %d got episode %q", i, snap.EpisodeID)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestBroadcasterDropsOldestForSlowSubscriber(t *testing.T) {
	b := playback.NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Overfill the subscriber buffer so the oldest entries are shed.
	for i := 0; i < 200; i++ {
		b.Publish(playback.Snapshot{PositionMs: int64(i)})
	}

	first := <-ch
	if first.PositionMs == 0 {
		t.Fatalf("oldest snapshot should have been dropped")
	}

	var last playback.Snapshot
drain:
	for {
		select {
		case snap := <-ch:
			last = snap
		default:
			break drain
		}
	}
	if last.PositionMs != 199 {
		t.Fatalf("newest snapshot position = %d, want 199", last.PositionMs)
	}
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	b := playback.NewBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()
	b.Publish(playback.Snapshot{State: playback.StatePlaying})
	if _, open := <-ch; open {
		t.Fatalf("cancelled subscriber channel should be closed and empty")
	}
}
