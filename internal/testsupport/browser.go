package testsupport

import (
	"context"
	"sync"

	"tabshelf/internal/browser"
)

// FakeBrowser implements browser.Client against an in-memory tab model.
// The zero value is not usable; construct with NewFakeBrowser.
//
// Hook, when set, runs before every operation with the operation name and may
// return an error to abort it, or block to simulate a stalled browser.
type FakeBrowser struct {
	Hook func(op string) error

	mu        sync.Mutex
	tabs      map[browser.TabID]*browser.Tab
	windows   map[browser.WindowID]browser.Window
	groups    map[browser.GroupID]*browser.TabGroup
	nextGroup browser.GroupID
	calls     []string
}

var _ browser.Client = (*FakeBrowser)(nil)

// NewFakeBrowser returns an empty fake with one normal window (id 1).
func NewFakeBrowser() *FakeBrowser {
	f := &FakeBrowser{
		tabs:      make(map[browser.TabID]*browser.Tab),
		windows:   make(map[browser.WindowID]browser.Window),
		groups:    make(map[browser.GroupID]*browser.TabGroup),
		nextGroup: 100,
	}
	f.windows[1] = browser.Window{ID: 1, Type: browser.WindowNormal}
	return f
}

// AddWindow registers a window.
func (f *FakeBrowser) AddWindow(id browser.WindowID, kind browser.WindowType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[id] = browser.Window{ID: id, Type: kind}
}

// AddTab registers a tab snapshot. A zero WindowID defaults to window 1 and
// a zero GroupID is normalized to ungrouped.
func (f *FakeBrowser) AddTab(tab browser.Tab) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tab.WindowID == 0 {
		tab.WindowID = 1
	}
	if tab.GroupID == 0 {
		tab.GroupID = browser.NoGroup
	}
	copied := tab
	f.tabs[tab.ID] = &copied
}

// AddGroup registers a tab group.
func (f *FakeBrowser) AddGroup(group browser.TabGroup) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if group.WindowID == 0 {
		group.WindowID = 1
	}
	copied := group
	f.groups[group.ID] = &copied
}

// RemoveTab drops a tab from the model.
func (f *FakeBrowser) RemoveTab(id browser.TabID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tabs, id)
}

// SetActive marks one tab active and deactivates the rest in its window.
func (f *FakeBrowser) SetActive(id browser.TabID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.tabs[id]
	if !ok {
		return
	}
	for _, tab := range f.tabs {
		if tab.WindowID == target.WindowID {
			tab.Active = tab.ID == id
		}
	}
}

// Calls returns the ordered operation log.
func (f *FakeBrowser) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// TabSnapshot returns the current state of one tab.
func (f *FakeBrowser) TabSnapshot(id browser.TabID) (browser.Tab, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, ok := f.tabs[id]
	if !ok {
		return browser.Tab{}, false
	}
	return *tab, true
}

// GroupSnapshot returns the current state of one group.
func (f *FakeBrowser) GroupSnapshot(id browser.GroupID) (browser.TabGroup, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[id]
	if !ok {
		return browser.TabGroup{}, false
	}
	return *group, true
}

func (f *FakeBrowser) begin(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	hook := f.Hook
	f.mu.Unlock()
	if hook != nil {
		return hook(op)
	}
	return nil
}

func (f *FakeBrowser) Tabs(_ context.Context, q browser.Query) ([]browser.Tab, error) {
	if err := f.begin("tabs.query"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []browser.Tab
	for _, tab := range f.tabs {
		if q.GroupID != nil && tab.GroupID != *q.GroupID {
			continue
		}
		if q.WindowID != nil && tab.WindowID != *q.WindowID {
			continue
		}
		out = append(out, *tab)
	}
	return out, nil
}

func (f *FakeBrowser) Tab(_ context.Context, id browser.TabID) (browser.Tab, error) {
	if err := f.begin("tabs.get"); err != nil {
		return browser.Tab{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, ok := f.tabs[id]
	if !ok {
		return browser.Tab{}, browser.ErrNoTab
	}
	return *tab, nil
}

func (f *FakeBrowser) Window(_ context.Context, id browser.WindowID) (browser.Window, error) {
	if err := f.begin("windows.get"); err != nil {
		return browser.Window{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	window, ok := f.windows[id]
	if !ok {
		return browser.Window{}, browser.ErrNoBrowser
	}
	return window, nil
}

func (f *FakeBrowser) Groups(_ context.Context) ([]browser.TabGroup, error) {
	if err := f.begin("tabGroups.query"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []browser.TabGroup
	for _, group := range f.groups {
		out = append(out, *group)
	}
	return out, nil
}

func (f *FakeBrowser) Group(_ context.Context, id browser.GroupID) (browser.TabGroup, error) {
	if err := f.begin("tabGroups.get"); err != nil {
		return browser.TabGroup{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[id]
	if !ok {
		return browser.TabGroup{}, browser.ErrNoGroup
	}
	return *group, nil
}

func (f *FakeBrowser) GroupTabs(_ context.Context, id browser.GroupID, tabs []browser.TabID) (browser.GroupID, error) {
	if err := f.begin("tabs.group"); err != nil {
		return browser.NoGroup, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == browser.NoGroup {
		if len(tabs) == 0 {
			return browser.NoGroup, browser.ErrNoTab
		}
		seed, ok := f.tabs[tabs[0]]
		if !ok {
			return browser.NoGroup, browser.ErrNoTab
		}
		f.nextGroup++
		id = f.nextGroup
		f.groups[id] = &browser.TabGroup{ID: id, WindowID: seed.WindowID}
	} else if _, ok := f.groups[id]; !ok {
		return browser.NoGroup, browser.ErrNoGroup
	}
	for _, tabID := range tabs {
		tab, ok := f.tabs[tabID]
		if !ok {
			return browser.NoGroup, browser.ErrNoTab
		}
		tab.GroupID = id
	}
	return id, nil
}

func (f *FakeBrowser) UngroupTabs(_ context.Context, tabs []browser.TabID) error {
	if err := f.begin("tabs.ungroup"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	emptied := make(map[browser.GroupID]struct{})
	for _, tabID := range tabs {
		tab, ok := f.tabs[tabID]
		if !ok {
			return browser.ErrNoTab
		}
		previous := tab.GroupID
		tab.GroupID = browser.NoGroup
		if previous != browser.NoGroup {
			emptied[previous] = struct{}{}
		}
	}
	// The browser removes groups whose last member leaves.
	for groupID := range emptied {
		inUse := false
		for _, tab := range f.tabs {
			if tab.GroupID == groupID {
				inUse = true
				break
			}
		}
		if !inUse {
			delete(f.groups, groupID)
		}
	}
	return nil
}

func (f *FakeBrowser) UpdateGroup(_ context.Context, id browser.GroupID, update browser.GroupUpdate) error {
	if err := f.begin("tabGroups.update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[id]
	if !ok {
		return browser.ErrNoGroup
	}
	if update.Title != nil {
		group.Title = *update.Title
	}
	if update.Collapsed != nil {
		group.Collapsed = *update.Collapsed
	}
	return nil
}
