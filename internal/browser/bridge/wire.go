package bridge

import (
	"encoding/json"

	"tabshelf/internal/browser"
)

// Op names a browser operation the extension executes on the daemon's
// behalf. Values follow the extension API surface they map onto.
type Op string

const (
	OpTabsQuery   Op = "tabs.query"
	OpTabGet      Op = "tabs.get"
	OpWindowGet   Op = "windows.get"
	OpGroupsList  Op = "tabGroups.query"
	OpGroupGet    Op = "tabGroups.get"
	OpTabsGroup   Op = "tabs.group"
	OpTabsUngroup Op = "tabs.ungroup"
	OpGroupUpdate Op = "tabGroups.update"
)

// Command is one queued operation delivered to a polling extension.
type Command struct {
	ID     string          `json:"id"`
	Op     Op              `json:"op"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Result error codes the extension reports for reference failures.
const (
	CodeNoTab   = "no_tab"
	CodeNoGroup = "no_group"
)

// Result is the extension's reply to one command.
type Result struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Code  string          `json:"code,omitempty"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type tabParams struct {
	TabID browser.TabID `json:"tab_id"`
}

type windowParams struct {
	WindowID browser.WindowID `json:"window_id"`
}

type groupParams struct {
	GroupID browser.GroupID `json:"group_id"`
}

type groupTabsParams struct {
	GroupID browser.GroupID `json:"group_id"`
	TabIDs  []browser.TabID `json:"tab_ids"`
}

type groupTabsResult struct {
	GroupID browser.GroupID `json:"group_id"`
}

type ungroupParams struct {
	TabIDs []browser.TabID `json:"tab_ids"`
}

type groupUpdateParams struct {
	GroupID   browser.GroupID `json:"group_id"`
	Title     *string         `json:"title,omitempty"`
	Collapsed *bool           `json:"collapsed,omitempty"`
}
