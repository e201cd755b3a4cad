// Package tracker owns the per-tab activity table.
//
// Every lifecycle event lands here: activations and load completions refresh
// lastAccessed, removals delete the entry, and a periodic reconcile drops
// entries for tabs the browser no longer reports. The table is rebuilt from
// live queries at startup rather than persisted.
package tracker

import (
	"sync"
	"time"

	"tabshelf/internal/browser"
)

// backdateWindow is how far into the past bootstrap pushes lastAccessed for
// tabs already inside the holding group, so a restart does not re-flag them
// as freshly inactive.
const backdateWindow = 365 * 24 * time.Hour

// TabState is the tracked activity snapshot for one tab.
type TabState struct {
	LastAccessed time.Time
	Active       bool
}

// Table maps tab ids to activity state. Safe for concurrent use.
type Table struct {
	mu     sync.Mutex
	states map[browser.TabID]TabState
	now    func() time.Time
}

// New constructs an empty table using wall-clock time.
func New() *Table {
	return NewWithClock(time.Now)
}

// NewWithClock constructs an empty table with an injectable clock. Tests use
// this to step time deterministically.
func NewWithClock(now func() time.Time) *Table {
	if now == nil {
		now = time.Now
	}
	return &Table{states: make(map[browser.TabID]TabState), now: now}
}

// RecordActivation marks a tab as focused right now.
func (t *Table) RecordActivation(id browser.TabID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = TabState{LastAccessed: t.now(), Active: true}
}

// RecordSettled refreshes lastAccessed when a tab finishes loading or
// navigates. It does not change the active flag for known tabs; a previously
// unseen tab is created with the reported focus state.
func (t *Table) RecordSettled(id browser.TabID, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[id]
	if !ok {
		t.states[id] = TabState{LastAccessed: t.now(), Active: active}
		return
	}
	state.LastAccessed = t.now()
	t.states[id] = state
}

// Ensure creates an entry for an unseen tab without touching existing state.
// When the browser reports its own lastAccessed it seeds the entry, otherwise
// the current time does.
func (t *Table) Ensure(id browser.TabID, lastAccessed *time.Time, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.states[id]; ok {
		return
	}
	accessed := t.now()
	if lastAccessed != nil && !lastAccessed.IsZero() {
		accessed = *lastAccessed
	}
	t.states[id] = TabState{LastAccessed: accessed, Active: active}
}

// MarkGrouped resets tabs to inactive after they were moved into the holding
// group.
func (t *Table) MarkGrouped(ids []browser.TabID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		state, ok := t.states[id]
		if !ok {
			continue
		}
		state.Active = false
		t.states[id] = state
	}
}

// Remove deletes a tab's entry.
func (t *Table) Remove(id browser.TabID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, id)
}

// Reconcile removes entries for tabs absent from the live set and returns how
// many were dropped.
func (t *Table) Reconcile(live []browser.TabID) int {
	alive := make(map[browser.TabID]struct{}, len(live))
	for _, id := range live {
		alive[id] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id := range t.states {
		if _, ok := alive[id]; !ok {
			delete(t.states, id)
			removed++
		}
	}
	return removed
}

// Bootstrap replaces the table from a live tab enumeration. Tabs already
// inside the holding group get a backdated lastAccessed and are unconditionally
// inactive; everything else starts fresh from now.
func (t *Table) Bootstrap(tabs []browser.Tab, holding browser.GroupID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.states = make(map[browser.TabID]TabState, len(tabs))
	for _, tab := range tabs {
		if holding != browser.NoGroup && tab.GroupID == holding {
			t.states[tab.ID] = TabState{LastAccessed: now.Add(-backdateWindow), Active: false}
			continue
		}
		t.states[tab.ID] = TabState{LastAccessed: now, Active: tab.Active}
	}
}

// State returns the entry for a tab, if tracked.
func (t *Table) State(id browser.TabID) (TabState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[id]
	return state, ok
}

// Len reports the number of tracked tabs.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}
