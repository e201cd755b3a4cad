package engine

import (
	"context"
	"sort"

	"tabshelf/internal/browser"
)

// TabInfo is one row of the tab inspection listing.
type TabInfo struct {
	ID            browser.TabID `json:"id"`
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	Active        bool          `json:"active"`
	Pinned        bool          `json:"pinned"`
	Audible       bool          `json:"audible"`
	Grouped       bool          `json:"grouped"`
	IdleSeconds   int64         `json:"idle_seconds"`
	QueuedRelease bool          `json:"queued_release"`
}

// ListTabs snapshots eligible tabs joined with tracked idle times, sorted
// most idle first. Untracked tabs report zero idle time.
func (e *Engine) ListTabs(ctx context.Context) ([]TabInfo, error) {
	tabs, err := e.eligibleTabs(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now()

	e.mu.Lock()
	queued := make(map[browser.TabID]struct{}, len(e.release))
	for id := range e.release {
		queued[id] = struct{}{}
	}
	e.mu.Unlock()

	infos := make([]TabInfo, 0, len(tabs))
	for _, tab := range tabs {
		info := TabInfo{
			ID:      tab.ID,
			Title:   tab.Title,
			URL:     tab.URL,
			Active:  tab.Active,
			Pinned:  tab.Pinned,
			Audible: tab.Audible,
			Grouped: tab.Grouped(),
		}
		if tabState, ok := e.tabs.State(tab.ID); ok && !tabState.Active {
			idle := now.Sub(tabState.LastAccessed)
			if idle > 0 {
				info.IdleSeconds = int64(idle.Seconds())
			}
		}
		if _, ok := queued[tab.ID]; ok {
			info.QueuedRelease = true
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].IdleSeconds != infos[j].IdleSeconds {
			return infos[i].IdleSeconds > infos[j].IdleSeconds
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}
