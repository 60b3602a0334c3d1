package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeSession()
	c.normalizeControls()
	c.normalizeDevice()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = defaultSocketPath
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeSession() {
	if c.Session.CommandQueueCapacity <= 0 {
		c.Session.CommandQueueCapacity = defaultCommandQueueCapacity
	}
	if c.Session.TapTimeoutMs <= 0 {
		c.Session.TapTimeoutMs = defaultTapTimeoutMs
	}
	if c.Session.PublishRetries < 0 {
		c.Session.PublishRetries = defaultPublishRetries
	}
	if c.Playback.SkipForwardSeconds <= 0 {
		c.Playback.SkipForwardSeconds = defaultSkipForwardSeconds
	}
	if c.Playback.SkipBackSeconds <= 0 {
		c.Playback.SkipBackSeconds = defaultSkipBackSeconds
	}
}

func (c *Config) normalizeControls() {
	items := make([]string, 0, len(c.Controls.Items))
	seen := map[string]struct{}{}
	for _, item := range c.Controls.Items {
		name := strings.ToLower(strings.TrimSpace(item))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		items = append(items, name)
	}
	c.Controls.Items = items

	c.Controls.HeadphoneNextAction = strings.ToLower(strings.TrimSpace(c.Controls.HeadphoneNextAction))
	if c.Controls.HeadphoneNextAction == "" {
		c.Controls.HeadphoneNextAction = ActionSkipForward
	}
	c.Controls.HeadphonePreviousAction = strings.ToLower(strings.TrimSpace(c.Controls.HeadphonePreviousAction))
	if c.Controls.HeadphonePreviousAction == "" {
		c.Controls.HeadphonePreviousAction = ActionSkipBack
	}
}

func (c *Config) normalizeDevice() {
	c.Device.Class = strings.ToLower(strings.TrimSpace(c.Device.Class))
	if c.Device.Class == "" {
		c.Device.Class = defaultDeviceClass
	}
	c.Device.Manufacturer = strings.ToLower(strings.TrimSpace(c.Device.Manufacturer))

	manufacturers := make([]string, 0, len(c.Device.HideCustomSkipManufacturers))
	for _, name := range c.Device.HideCustomSkipManufacturers {
		trimmed := strings.ToLower(strings.TrimSpace(name))
		if trimmed != "" {
			manufacturers = append(manufacturers, trimmed)
		}
	}
	c.Device.HideCustomSkipManufacturers = manufacturers
}
