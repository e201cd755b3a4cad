package config

const (
	defaultDataDir                  = "~/.local/share/tabshelf"
	defaultLogDir                   = "~/.local/share/tabshelf/logs"
	defaultBridgeBind               = "127.0.0.1:8274"
	defaultBridgePollWaitSeconds    = 25
	defaultBridgeCommandTimeout     = 10
	defaultGroupTitle               = "Inactive Tabs"
	defaultThresholdMinutes         = 30
	defaultMinGroupTabs             = 5
	defaultAutoStartTabs            = 10
	defaultAutoStopTabs             = 5
	defaultCheckIntervalSeconds     = 120
	defaultReconcileIntervalSeconds = 600
	defaultReleaseDelaySeconds      = 10
	defaultReleasePollSeconds       = 5
	defaultGroupingTimeoutSeconds   = 30
	defaultNotifyRequestTimeout     = 10
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Bridge: Bridge{
			Bind:                  defaultBridgeBind,
			PollWaitSeconds:       defaultBridgePollWaitSeconds,
			CommandTimeoutSeconds: defaultBridgeCommandTimeout,
		},
		Engine: Engine{
			GroupTitle:               defaultGroupTitle,
			ThresholdMinutes:         defaultThresholdMinutes,
			MinGroupTabs:             defaultMinGroupTabs,
			AutoGroup:                true,
			AutoUngroup:              true,
			AutoStartTabs:            defaultAutoStartTabs,
			AutoStopTabs:             defaultAutoStopTabs,
			CheckIntervalSeconds:     defaultCheckIntervalSeconds,
			ReconcileIntervalSeconds: defaultReconcileIntervalSeconds,
			ReleaseDelaySeconds:      defaultReleaseDelaySeconds,
			ReleasePollSeconds:       defaultReleasePollSeconds,
			GroupingTimeoutSeconds:   defaultGroupingTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Grouping:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
