package engine

import (
	"context"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/events"
	"tabshelf/internal/logging"
)

// Bootstrap initializes engine state from a live browser snapshot. It is
// called once when the daemon's bridge first attaches: the holding group is
// re-resolved, the activity table is rebuilt with holding-group members
// backdated, and a fresh session is marked in the store. The given context
// also backs work started from timer callbacks for the rest of the run.
func (e *Engine) Bootstrap(ctx context.Context) error {
	e.mu.Lock()
	e.timerCtx = ctx
	e.mu.Unlock()

	e.resetTransient()

	holding, err := e.adoptHoldingGroup(ctx)
	if err != nil {
		return err
	}

	tabs, err := e.eligibleTabs(ctx)
	if err != nil {
		return err
	}
	e.tabs.Bootstrap(tabs, holding)

	if e.store != nil {
		if err := e.store.MarkSessionReady(ctx, e.now()); err != nil {
			e.logger.Warn("marking session ready failed", logging.Error(err))
		}
	}

	e.logger.Info("engine bootstrapped",
		logging.String(logging.FieldEventType, "bootstrap"),
		logging.Int("tracked_tabs", e.tabs.Len()),
		logging.Bool("holding_group_found", holding != browser.NoGroup))
	return nil
}

// ForceReset discards all transient state and rebuilds from a live snapshot.
// Unlike Bootstrap, the holding group is resolved by title only; a persisted
// id is assumed poisoned and dropped first.
func (e *Engine) ForceReset(ctx context.Context) error {
	e.StopCountdown()
	e.resetTransient()
	e.clearHoldingGroup()
	if e.store != nil {
		if err := e.store.ClearHoldingGroupID(ctx); err != nil {
			e.logger.Warn("clearing holding group id failed", logging.Error(err))
		}
	}

	holding, err := e.adoptHoldingGroup(ctx)
	if err != nil {
		return err
	}

	tabs, err := e.eligibleTabs(ctx)
	if err != nil {
		return err
	}
	e.tabs.Bootstrap(tabs, holding)

	if e.store != nil {
		if err := e.store.MarkSessionReady(ctx, e.now()); err != nil {
			e.logger.Warn("marking session ready failed", logging.Error(err))
		}
	}

	e.logger.Info("engine force-reset",
		logging.String(logging.FieldEventType, "force_reset"),
		logging.Int("tracked_tabs", e.tabs.Len()))
	e.publish(events.Event{Kind: events.Stopped, Message: "engine reset"})
	return nil
}

// Reconcile drops activity entries and queued releases for tabs that no
// longer exist. Returns the number of pruned activity entries.
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	tabs, err := e.client.Tabs(ctx, browser.Query{})
	if err != nil {
		return 0, err
	}
	live := make([]browser.TabID, len(tabs))
	liveSet := make(map[browser.TabID]struct{}, len(tabs))
	for i, tab := range tabs {
		live[i] = tab.ID
		liveSet[tab.ID] = struct{}{}
	}

	pruned := e.tabs.Reconcile(live)

	e.mu.Lock()
	for id := range e.release {
		if _, ok := liveSet[id]; !ok {
			delete(e.release, id)
		}
	}
	e.mu.Unlock()

	if pruned > 0 {
		e.logger.Debug("pruned stale activity entries", logging.Int("pruned", pruned))
	}
	return pruned, nil
}

// Shutdown quiesces the engine and records a clean session close.
func (e *Engine) Shutdown(ctx context.Context) {
	e.mu.Lock()
	if e.countdown != nil {
		e.countdown.timer.Stop()
		e.countdown = nil
	}
	e.mu.Unlock()

	e.resetTransient()

	if e.store != nil {
		if err := e.store.MarkSessionClean(ctx, e.now()); err != nil {
			e.logger.Warn("marking session clean failed", logging.Error(err))
		}
	}
}

// adoptHoldingGroup finds an existing holding group by title and caches it.
// It never creates one; grouping passes do that on demand.
func (e *Engine) adoptHoldingGroup(ctx context.Context) (browser.GroupID, error) {
	groups, err := e.client.Groups(ctx)
	if err != nil {
		return browser.NoGroup, err
	}
	for _, group := range groups {
		if titlesEqual(group.Title, e.cfg.GroupTitle) {
			e.persistHoldingGroup(ctx, group.ID)
			return group.ID, nil
		}
	}
	return browser.NoGroup, nil
}

// resetTransient clears guards, timers, and the release queue.
func (e *Engine) resetTransient() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.groupingUnlock != nil {
		e.groupingUnlock.timer.Stop()
		e.groupingUnlock = nil
	}
	e.grouping = false
	e.releasing = false
	e.release = make(map[browser.TabID]time.Time)
}
