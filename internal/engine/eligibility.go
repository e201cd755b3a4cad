package engine

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"tabshelf/internal/browser"
	"tabshelf/internal/logging"
)

// eligibleTabs enumerates tabs that live in normal windows. Window lookups
// are cached per pass; a tab whose window cannot be resolved is skipped, not
// fatal.
func (e *Engine) eligibleTabs(ctx context.Context) ([]browser.Tab, error) {
	all, err := e.client.Tabs(ctx, browser.Query{})
	if err != nil {
		return nil, err
	}

	kinds := make(map[browser.WindowID]browser.WindowType, 4)
	eligible := make([]browser.Tab, 0, len(all))
	for _, tab := range all {
		kind, ok := kinds[tab.WindowID]
		if !ok {
			window, err := e.client.Window(ctx, tab.WindowID)
			if err != nil {
				e.logger.Debug("skipping tab with unresolvable window",
					logging.Int64(logging.FieldTabID, int64(tab.ID)),
					logging.Error(err))
				continue
			}
			kind = window.Type
			kinds[tab.WindowID] = kind
		}
		if kind != browser.WindowNormal {
			continue
		}
		eligible = append(eligible, tab)
	}
	return eligible, nil
}

// countable is the auto control loop's population predicate: a tab that could
// still be consolidated. Tabs already in any group cannot become more
// consolidated and would overstate pressure.
func countable(tab browser.Tab) bool {
	return !tab.Pinned && !tab.Audible && !tab.Grouped()
}

// groupCandidate is the consolidation predicate applied on top of idleness.
func groupCandidate(tab browser.Tab) bool {
	return !tab.Active && !tab.Pinned && !tab.Audible
}

// titlesEqual compares group titles after trimming and case folding, so a
// holding group renamed only in letter case is still recognized.
func titlesEqual(a, b string) bool {
	return cases.Fold().String(strings.TrimSpace(a)) == cases.Fold().String(strings.TrimSpace(b))
}
