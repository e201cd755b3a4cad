package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBridge(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBridge() error {
	if _, _, err := net.SplitHostPort(c.Bridge.Bind); err != nil {
		return fmt.Errorf("bridge.bind %q is not a host:port address: %w", c.Bridge.Bind, err)
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.AutoStopTabs > c.Engine.AutoStartTabs {
		return fmt.Errorf("engine.auto_stop_tabs (%d) must not exceed engine.auto_start_tabs (%d)",
			c.Engine.AutoStopTabs, c.Engine.AutoStartTabs)
	}
	if c.Engine.ReleaseDelaySeconds < c.Engine.ReleasePollSeconds {
		return fmt.Errorf("engine.release_delay_seconds (%d) must be at least engine.release_poll_seconds (%d)",
			c.Engine.ReleaseDelaySeconds, c.Engine.ReleasePollSeconds)
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
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}
