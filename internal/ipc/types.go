package ipc

import (
	"tabshelf/internal/engine"
	"tabshelf/internal/events"
)

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon and engine status information.
type StatusResponse struct {
	Running          bool   `json:"running"`
	PID              int    `json:"pid"`
	BridgeAttached   bool   `json:"bridge_attached"`
	BridgeAddr       string `json:"bridge_addr"`
	StateDBPath      string `json:"state_db_path"`
	LockPath         string `json:"lock_path"`
	SessionStartTime string `json:"session_start_time,omitempty"`

	CountdownRunning bool   `json:"countdown_running"`
	CountdownEnd     string `json:"countdown_end,omitempty"`
	ThresholdMinutes int    `json:"threshold_minutes"`
	MinGroupTabs     int    `json:"min_group_tabs"`
	AutoGroup        bool   `json:"auto_group"`
	AutoUngroup      bool   `json:"auto_ungroup"`
	GroupingInFlight bool   `json:"grouping_in_flight"`
	TrackedTabs      int    `json:"tracked_tabs"`
	QueuedReleases   int    `json:"queued_releases"`
	HoldingGroupID   *int64 `json:"holding_group_id,omitempty"`
}

// GroupNowRequest triggers an immediate grouping pass. Zero minutes uses the
// effective threshold.
type GroupNowRequest struct {
	Minutes int `json:"minutes"`
}

// GroupNowResponse reports the pass outcome.
type GroupNowResponse struct {
	Grouped bool   `json:"grouped"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// StartCountdownRequest arms the grouping countdown. Zero minutes uses the
// effective threshold.
type StartCountdownRequest struct {
	Minutes int `json:"minutes"`
}

// StartCountdownResponse reports the armed threshold.
type StartCountdownResponse struct {
	Minutes int `json:"minutes"`
}

// StopCountdownRequest disarms the countdown.
type StopCountdownRequest struct{}

// StopCountdownResponse reports whether a countdown was running.
type StopCountdownResponse struct {
	WasRunning bool `json:"was_running"`
}

// ResetRequest discards transient engine state and rebuilds from the browser.
type ResetRequest struct{}

// ResetResponse reports reset outcome.
type ResetResponse struct {
	Message string `json:"message"`
}

// EventsRequest fetches recently published engine events.
type EventsRequest struct{}

// EventsResponse returns the recent event ring, oldest first.
type EventsResponse struct {
	Events []events.Event `json:"events"`
}

// TabsRequest fetches the tab inspection listing.
type TabsRequest struct{}

// TabsResponse returns tab rows joined with tracked idle times.
type TabsResponse struct {
	Tabs []engine.TabInfo `json:"tabs"`
}

// ConfigureRequest applies runtime setting overrides. Nil fields are left
// unchanged.
type ConfigureRequest struct {
	ThresholdMinutes *int  `json:"threshold_minutes,omitempty"`
	MinGroupTabs     *int  `json:"min_group_tabs,omitempty"`
	AutoGroup        *bool `json:"auto_group,omitempty"`
	AutoUngroup      *bool `json:"auto_ungroup,omitempty"`
}

// ConfigureResponse reports configure outcome.
type ConfigureResponse struct {
	Message string `json:"message"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
