package main

import (
	"bytes"
	"strings"
	"testing"

	"podbridge/internal/ipc"
)

func TestFormatMillis(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{61_000, "1:01"},
		{599_000, "9:59"},
		{3_725_000, "1:02:05"},
		{-500, "0:00"},
	}
	for _, tc := range cases {
		if got := formatMillis(tc.ms); got != tc.want {
			t.Fatalf("formatMillis(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestRenderStatusLoadedEpisode(t *testing.T) {
	var buf bytes.Buffer
	status := &ipc.StatusResponse{
		State:         "playing",
		PositionMs:    90_000,
		Speed:         1.2,
		Active:        true,
		CustomActions: []string{"jumpBack", "jumpFwd", "changeSpeed"},
		EpisodeID:     "ep-1",
		Title:         "Pilot",
		Artist:        "The Show",
		Album:         "Acme Audio",
		DurationMs:    1_800_000,
		Starred:       true,
	}
	got := renderStatus(&buf, status)
	for _, want := range []string{"playing", "1:30", "1.2x", "Pilot", "The Show", "Acme Audio", "30:00", "jumpBack, jumpFwd, changeSpeed"} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered status missing %q:\n%s", want, got)
		}
	}
}

func TestRenderStatusEmptySession(t *testing.T) {
	var buf bytes.Buffer
	status := &ipc.StatusResponse{State: "none", Speed: 0}
	got := renderStatus(&buf, status)
	if strings.Contains(got, "Episode") {
		t.Fatalf("empty session should not render episode rows:\n%s", got)
	}
	if !strings.Contains(got, "none") {
		t.Fatalf("rendered status missing state:\n%s", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	got := renderTable(&buf, []string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(got, "only") {
		t.Fatalf("rendered table missing cell:\n%s", got)
	}
}
