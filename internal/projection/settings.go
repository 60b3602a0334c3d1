package projection

import (
	"podbridge/internal/config"
)

// Settings captures the user preferences the projector consults.
type Settings struct {
	// HideNextPrevious hides the native previous/next track capabilities and
	// advertises the equivalent skip custom actions instead.
	HideNextPrevious  bool
	ShowCustomActions bool
	// Items is the ordered user selection of optional controls, using the
	// config control names.
	Items             []string
	LockScreenArtwork bool
	UseEpisodeArtwork bool
}

// DeviceProfile describes the connected device for capability decisions.
type DeviceProfile struct {
	Class        string
	Manufacturer string
	// HideCustomSkipManufacturers lists manufacturers whose head units
	// misbehave without native previous/next buttons; the skip custom
	// actions are suppressed for them and the native buttons kept.
	HideCustomSkipManufacturers []string
}

// Constrained reports whether the device class should only ever receive
// artwork URI references, never embedded rasters.
func (p DeviceProfile) Constrained() bool {
	return p.Class == config.DeviceAuto || p.Class == config.DeviceWearable
}

// SuppressesCustomSkip reports whether the manufacturer exception table
// forces the native previous/next buttons for this device.
func (p DeviceProfile) SuppressesCustomSkip() bool {
	for _, name := range p.HideCustomSkipManufacturers {
		if name == p.Manufacturer {
			return true
		}
	}
	return false
}

// UseCustomSkipButtons decides between native previous/next capabilities and
// the equivalent skip custom actions. Exactly one of the two is ever
// advertised.
func UseCustomSkipButtons(settings Settings, device DeviceProfile) bool {
	return settings.HideNextPrevious && !device.SuppressesCustomSkip()
}

// SettingsFromConfig derives projector settings from the loaded config.
func SettingsFromConfig(cfg *config.Config) Settings {
	items := make([]string, len(cfg.Controls.Items))
	copy(items, cfg.Controls.Items)
	return Settings{
		HideNextPrevious:  cfg.Controls.HideNextPrevious,
		ShowCustomActions: cfg.Controls.ShowCustomActions,
		Items:             items,
		LockScreenArtwork: cfg.Controls.LockScreenArtwork,
		UseEpisodeArtwork: cfg.Controls.UseEpisodeArtwork,
	}
}

// DeviceFromConfig derives the device profile from the loaded config.
func DeviceFromConfig(cfg *config.Config) DeviceProfile {
	manufacturers := make([]string, len(cfg.Device.HideCustomSkipManufacturers))
	copy(manufacturers, cfg.Device.HideCustomSkipManufacturers)
	return DeviceProfile{
		Class:                       cfg.Device.Class,
		Manufacturer:                cfg.Device.Manufacturer,
		HideCustomSkipManufacturers: manufacturers,
	}
}
