package browser

import (
	"context"
	"errors"
)

// ErrNoTab indicates the referenced tab no longer exists.
var ErrNoTab = errors.New("tab not found")

// ErrNoGroup indicates the referenced tab group no longer exists.
var ErrNoGroup = errors.New("tab group not found")

// ErrNoBrowser indicates no extension is currently attached to the bridge, so
// platform calls cannot be serviced.
var ErrNoBrowser = errors.New("browser not connected")

// Client is the platform capability consumed by the engine. Implementations
// must be safe for concurrent use; every method may block on browser-side
// work and honors context cancellation.
type Client interface {
	// Tabs enumerates tabs matching the query.
	Tabs(ctx context.Context, q Query) ([]Tab, error)
	// Tab fetches a single tab. Returns ErrNoTab when it is gone.
	Tab(ctx context.Context, id TabID) (Tab, error)
	// Window fetches a single window.
	Window(ctx context.Context, id WindowID) (Window, error)
	// Groups enumerates all tab groups.
	Groups(ctx context.Context) ([]TabGroup, error)
	// Group fetches a single tab group. Returns ErrNoGroup when it is gone.
	Group(ctx context.Context, id GroupID) (TabGroup, error)
	// GroupTabs moves tabs into the given group and returns its id. Passing
	// NoGroup creates a fresh group seeded with the given tabs.
	GroupTabs(ctx context.Context, id GroupID, tabs []TabID) (GroupID, error)
	// UngroupTabs removes tabs from whatever group currently holds them.
	UngroupTabs(ctx context.Context, tabs []TabID) error
	// UpdateGroup applies a partial update to a group.
	UpdateGroup(ctx context.Context, id GroupID, update GroupUpdate) error
}
