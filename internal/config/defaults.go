package config

const (
	defaultDataDir              = "~/.local/share/podbridge"
	defaultLogDir               = "~/.local/share/podbridge/logs"
	defaultSocketPath           = "~/.local/share/podbridge/podbridged.sock"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultCommandQueueCapacity = 10
	defaultTapTimeoutMs         = 400
	defaultPublishRetries       = 3
	defaultSkipForwardSeconds   = 30
	defaultSkipBackSeconds      = 10
	defaultDeviceClass          = "standard"

	// ActionSkipForward and ActionSkipBack are the accepted values for the
	// headphone tap action settings.
	ActionSkipForward = "skip_forward"
	ActionSkipBack    = "skip_back"
)

// Control item names accepted in controls.items.
const (
	ControlArchive     = "archive"
	ControlMarkPlayed  = "mark_played"
	ControlPlayNext    = "play_next"
	ControlChangeSpeed = "change_speed"
	ControlStar        = "star"
)

// Device classes accepted in device.class.
const (
	DeviceStandard = "standard"
	DeviceAuto     = "auto"
	DeviceWearable = "wearable"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Session: Session{
			CommandQueueCapacity: defaultCommandQueueCapacity,
			TapTimeoutMs:         defaultTapTimeoutMs,
			PublishRetries:       defaultPublishRetries,
		},
		Playback: Playback{
			SkipForwardSeconds: defaultSkipForwardSeconds,
			SkipBackSeconds:    defaultSkipBackSeconds,
		},
		Controls: Controls{
			HideNextPrevious:        false,
			ShowCustomActions:       true,
			Items:                   []string{ControlChangeSpeed, ControlStar, ControlMarkPlayed, ControlArchive, ControlPlayNext},
			LockScreenArtwork:       true,
			UseEpisodeArtwork:       false,
			HeadphoneNextAction:     ActionSkipForward,
			HeadphonePreviousAction: ActionSkipBack,
		},
		Device: Device{
			Class:                       defaultDeviceClass,
			Manufacturer:                "",
			HideCustomSkipManufacturers: []string{"mercedes-benz"},
		},
	}
}
