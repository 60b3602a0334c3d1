package projection

import (
	"strconv"
	"strings"

	"podbridge/internal/config"
	"podbridge/internal/playback"
	"podbridge/internal/protocol"
)

// maxCustomActions caps the advertised custom-action list: the two skip
// buttons plus at most maxVisibleUserControls user-selected controls.
const (
	maxCustomActions       = 5
	maxVisibleUserControls = 3
)

const genrePodcast = "Podcast"

// Project computes the external descriptor for a snapshot. The episode and
// podcast may be nil; settings and device decide capabilities and custom
// actions. The function is pure.
func Project(snap playback.Snapshot, episode playback.Episode, podcast *playback.Podcast, settings Settings, device DeviceProfile) protocol.Descriptor {
	if snap.IsError() {
		return protocol.Descriptor{
			State:        protocol.StateError,
			ErrorMessage: snap.ErrorMessage,
		}
	}

	if snap.IsEmpty() || episode == nil {
		return protocol.Descriptor{
			State:   protocol.StateNone,
			Actions: emptyActions(),
		}
	}

	var state protocol.StateCode
	switch {
	case snap.IsPlaying() && snap.IsBuffering():
		state = protocol.StateBuffering
	case snap.IsPlaying():
		state = protocol.StatePlaying
	case snap.State == playback.StateStopped:
		state = protocol.StateStopped
	default:
		state = protocol.StatePaused
	}

	desc := protocol.Descriptor{
		State:      state,
		PositionMs: snap.PositionMs,
		Speed:      snap.Speed,
		Actions:    loadedActions(settings, device),
		Extras: map[string]string{
			protocol.ExtraEpisodeID:     episode.ID(),
			protocol.ExtraTransientLoss: strconv.FormatBool(snap.TransientLoss),
		},
	}

	// Wearable consumers choke on custom actions; everything else gets them.
	if device.Class != config.DeviceWearable {
		desc.CustomActions = customActions(snap, episode, settings, device)
	}

	return desc
}

// ErrorDescriptor builds the descriptor published when an operation must
// surface a user-visible failure, such as an unresolvable voice search.
func ErrorDescriptor(message string) protocol.Descriptor {
	return protocol.Descriptor{
		State:        protocol.StateError,
		ErrorMessage: message,
		Actions:      emptyActions(),
	}
}

func emptyActions() protocol.Actions {
	return protocol.ActionPlayFromSearch | protocol.ActionPlayFromID | prepareActions()
}

func prepareActions() protocol.Actions {
	return protocol.ActionPrepare | protocol.ActionPrepareFromSearch | protocol.ActionPrepareFromID
}

func loadedActions(settings Settings, device DeviceProfile) protocol.Actions {
	actions := protocol.ActionPlay |
		protocol.ActionPause |
		protocol.ActionSeekTo |
		protocol.ActionPlayFromSearch |
		protocol.ActionPlayFromID |
		protocol.ActionPlayPause |
		protocol.ActionStop |
		protocol.ActionSkipToQueueItem |
		protocol.ActionFastForward |
		protocol.ActionRewind |
		prepareActions()

	if !UseCustomSkipButtons(settings, device) {
		actions |= protocol.ActionSkipToPrevious | protocol.ActionSkipToNext
	}
	return actions
}

func customActions(snap playback.Snapshot, episode playback.Episode, settings Settings, device DeviceProfile) []protocol.CustomAction {
	actions := make([]protocol.CustomAction, 0, maxCustomActions)

	if UseCustomSkipButtons(settings, device) {
		actions = append(actions,
			protocol.CustomAction{Name: protocol.ActionNameSkipBack, Label: "Skip back", Icon: "media_skip_back"},
			protocol.CustomAction{Name: protocol.ActionNameSkipForward, Label: "Skip forward", Icon: "media_skip_forward"},
		)
	}

	visible := 0
	if settings.ShowCustomActions {
		visible = maxVisibleUserControls
	}
	for _, item := range settings.Items {
		if visible == 0 || len(actions) >= maxCustomActions {
			break
		}
		action, ok := userControlAction(item, snap, episode)
		if !ok {
			continue
		}
		actions = append(actions, action)
		visible--
	}

	return actions
}

func userControlAction(item string, snap playback.Snapshot, episode playback.Episode) (protocol.CustomAction, bool) {
	switch item {
	case config.ControlArchive:
		return protocol.CustomAction{Name: protocol.ActionNameArchive, Label: "Archive", Icon: "archive"}, true
	case config.ControlMarkPlayed:
		return protocol.CustomAction{Name: protocol.ActionNameMarkPlayed, Label: "Mark as played", Icon: "mark_as_played"}, true
	case config.ControlPlayNext:
		return protocol.CustomAction{Name: protocol.ActionNamePlayNext, Label: "Play next", Icon: "play_next"}, true
	case config.ControlChangeSpeed:
		return protocol.CustomAction{Name: protocol.ActionNameChangeSpeed, Label: "Change speed", Icon: SpeedIcon(snap.Speed)}, true
	case config.ControlStar:
		if !episode.SupportsStarring() {
			return protocol.CustomAction{}, false
		}
		if episode.Starred() {
			return protocol.CustomAction{Name: protocol.ActionNameUnstar, Label: "Unstar", Icon: "star_filled"}, true
		}
		return protocol.CustomAction{Name: protocol.ActionNameStar, Label: "Star", Icon: "star"}, true
	default:
		return protocol.CustomAction{}, false
	}
}

// ProjectMetadata computes the now-playing record for an episode. The podcast
// may be nil. The function is pure.
func ProjectMetadata(episode playback.Episode, podcast *playback.Podcast, settings Settings, device DeviceProfile) protocol.Metadata {
	if episode == nil {
		return protocol.NothingPlaying()
	}

	meta := protocol.Metadata{
		EpisodeID:  episode.ID(),
		Title:      episode.Title(),
		Artist:     sanitizeArtist(playback.DisplaySubtitle(episode, podcast)),
		Genre:      genrePodcast,
		DurationMs: episode.DurationMs(),
		Rating: protocol.Rating{
			Supported: episode.SupportsStarring(),
			Starred:   episode.SupportsStarring() && episode.Starred(),
		},
	}
	if podcast != nil && podcast.Author != "" {
		meta.Album = podcast.Author
	}

	if settings.LockScreenArtwork {
		meta.ArtworkURI = ArtworkURI(episode, podcast, settings.UseEpisodeArtwork)
		// Some unconstrained consumers cannot load URIs and need the raster
		// inline; constrained classes only ever get the reference.
		meta.ArtworkEmbedded = !device.Constrained()
	}

	return meta
}

// ArtworkURI returns the artwork reference for an episode. Episode-level
// artwork is preferred when enabled; otherwise the parent podcast artwork is
// referenced.
func ArtworkURI(episode playback.Episode, podcast *playback.Podcast, useEpisodeArtwork bool) string {
	if useEpisodeArtwork && episode != nil {
		return "artwork://episode/" + episode.ID()
	}
	if podcast != nil {
		return "artwork://podcast/" + podcast.UUID
	}
	if episode != nil {
		return "artwork://episode/" + episode.ID()
	}
	return ""
}

// sanitizeArtist neutralizes characters some consumers interpret as format
// directives.
func sanitizeArtist(value string) string {
	return strings.ReplaceAll(value, "%", "pct")
}
