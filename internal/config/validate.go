package config

import (
	"fmt"
)

var validControlItems = map[string]struct{}{
	ControlArchive:     {},
	ControlMarkPlayed:  {},
	ControlPlayNext:    {},
	ControlChangeSpeed: {},
	ControlStar:        {},
}

var validDeviceClasses = map[string]struct{}{
	DeviceStandard: {},
	DeviceAuto:     {},
	DeviceWearable: {},
}

var validHeadphoneActions = map[string]struct{}{
	ActionSkipForward: {},
	ActionSkipBack:    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateControls(); err != nil {
		return err
	}
	if err := c.validateDevice(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateControls() error {
	for _, item := range c.Controls.Items {
		if _, ok := validControlItems[item]; !ok {
			return fmt.Errorf("controls.items contains unknown control %q", item)
		}
	}
	if _, ok := validHeadphoneActions[c.Controls.HeadphoneNextAction]; !ok {
		return fmt.Errorf("controls.headphone_next_action must be %s or %s, got %q", ActionSkipForward, ActionSkipBack, c.Controls.HeadphoneNextAction)
	}
	if _, ok := validHeadphoneActions[c.Controls.HeadphonePreviousAction]; !ok {
		return fmt.Errorf("controls.headphone_previous_action must be %s or %s, got %q", ActionSkipForward, ActionSkipBack, c.Controls.HeadphonePreviousAction)
	}
	return nil
}

func (c *Config) validateDevice() error {
	if _, ok := validDeviceClasses[c.Device.Class]; !ok {
		return fmt.Errorf("device.class must be standard, auto, or wearable, got %q", c.Device.Class)
	}
	return nil
}
