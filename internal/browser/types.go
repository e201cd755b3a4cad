package browser

import "time"

// TabID identifies a tab for the lifetime of the browser session.
type TabID int64

// WindowID identifies a browser window.
type WindowID int64

// GroupID identifies a tab group.
type GroupID int64

// NoGroup marks a tab that is not a member of any group. The value mirrors
// the browser's TAB_GROUP_ID_NONE sentinel.
const NoGroup GroupID = -1

// WindowType classifies a browser window.
type WindowType string

const (
	WindowNormal   WindowType = "normal"
	WindowPopup    WindowType = "popup"
	WindowApp      WindowType = "app"
	WindowDevTools WindowType = "devtools"
)

// Tab is a point-in-time snapshot of a browser tab.
type Tab struct {
	ID           TabID      `json:"id"`
	WindowID     WindowID   `json:"window_id"`
	GroupID      GroupID    `json:"group_id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Active       bool       `json:"active"`
	Pinned       bool       `json:"pinned"`
	Audible      bool       `json:"audible"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

// Grouped reports whether the tab is a member of any tab group.
func (t Tab) Grouped() bool {
	return t.GroupID != NoGroup && t.GroupID != 0
}

// Window is a point-in-time snapshot of a browser window.
type Window struct {
	ID   WindowID   `json:"id"`
	Type WindowType `json:"type"`
}

// TabGroup is a point-in-time snapshot of a tab group.
type TabGroup struct {
	ID        GroupID  `json:"id"`
	WindowID  WindowID `json:"window_id"`
	Title     string   `json:"title"`
	Collapsed bool     `json:"collapsed"`
}

// Query filters tab enumeration. Nil fields match everything.
type Query struct {
	GroupID  *GroupID  `json:"group_id,omitempty"`
	WindowID *WindowID `json:"window_id,omitempty"`
}

// InGroup builds a query matching members of one group.
func InGroup(id GroupID) Query {
	return Query{GroupID: &id}
}

// GroupUpdate carries partial updates for a tab group. Nil fields are left
// unchanged.
type GroupUpdate struct {
	Title     *string `json:"title,omitempty"`
	Collapsed *bool   `json:"collapsed,omitempty"`
}

// EventKind enumerates lifecycle notifications forwarded by the extension.
type EventKind string

const (
	EventTabActivated EventKind = "tab_activated"
	EventTabUpdated   EventKind = "tab_updated"
	EventTabRemoved   EventKind = "tab_removed"
	EventGroupRemoved EventKind = "group_removed"
)

// Event is one lifecycle notification. Fields beyond Kind and the subject id
// are populated per kind: TabUpdated carries Status/URL and, when the tab
// lost focus mid-load, Active=false; GroupRemoved carries only GroupID.
type Event struct {
	Kind    EventKind `json:"kind"`
	TabID   TabID     `json:"tab_id,omitempty"`
	GroupID GroupID   `json:"group_id,omitempty"`
	Active  *bool     `json:"active,omitempty"`
	Status  string    `json:"status,omitempty"`
	URL     string    `json:"url,omitempty"`
}
