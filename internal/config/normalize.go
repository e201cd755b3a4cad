package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBridge()
	c.normalizeEngine()
	c.normalizeNotifications()
	c.normalizeLogging()
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
	return nil
}

func (c *Config) normalizeBridge() {
	c.Bridge.Bind = strings.TrimSpace(c.Bridge.Bind)
	if c.Bridge.Bind == "" {
		c.Bridge.Bind = defaultBridgeBind
	}
	if c.Bridge.Token == "" {
		if value, ok := os.LookupEnv("TABSHELF_BRIDGE_TOKEN"); ok {
			c.Bridge.Token = value
		}
	}
	c.Bridge.Token = strings.TrimSpace(c.Bridge.Token)
	if c.Bridge.PollWaitSeconds <= 0 {
		c.Bridge.PollWaitSeconds = defaultBridgePollWaitSeconds
	}
	if c.Bridge.CommandTimeoutSeconds <= 0 {
		c.Bridge.CommandTimeoutSeconds = defaultBridgeCommandTimeout
	}
}

func (c *Config) normalizeEngine() {
	c.Engine.GroupTitle = strings.TrimSpace(c.Engine.GroupTitle)
	if c.Engine.GroupTitle == "" {
		c.Engine.GroupTitle = defaultGroupTitle
	}
	if c.Engine.ThresholdMinutes <= 0 {
		c.Engine.ThresholdMinutes = defaultThresholdMinutes
	}
	if c.Engine.MinGroupTabs <= 0 {
		c.Engine.MinGroupTabs = defaultMinGroupTabs
	}
	if c.Engine.AutoStartTabs <= 0 {
		c.Engine.AutoStartTabs = defaultAutoStartTabs
	}
	if c.Engine.AutoStopTabs <= 0 {
		c.Engine.AutoStopTabs = defaultAutoStopTabs
	}
	if c.Engine.CheckIntervalSeconds <= 0 {
		c.Engine.CheckIntervalSeconds = defaultCheckIntervalSeconds
	}
	if c.Engine.ReconcileIntervalSeconds <= 0 {
		c.Engine.ReconcileIntervalSeconds = defaultReconcileIntervalSeconds
	}
	if c.Engine.ReleaseDelaySeconds <= 0 {
		c.Engine.ReleaseDelaySeconds = defaultReleaseDelaySeconds
	}
	if c.Engine.ReleasePollSeconds <= 0 {
		c.Engine.ReleasePollSeconds = defaultReleasePollSeconds
	}
	if c.Engine.GroupingTimeoutSeconds <= 0 {
		c.Engine.GroupingTimeoutSeconds = defaultGroupingTimeoutSeconds
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
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
