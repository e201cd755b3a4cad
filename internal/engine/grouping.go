package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/events"
	"tabshelf/internal/logging"
)

// GroupNow runs one consolidation pass with the given idle threshold. A
// non-positive threshold uses the effective configured value. Returns the
// number of tabs consolidated.
//
// The pass is single-flight: a request arriving while another is running is
// rejected with ErrGroupingInFlight. A force-unlock safeguard clears a wedged
// guard after the configured grouping timeout.
func (e *Engine) GroupNow(ctx context.Context, minutes int) (int, error) {
	if minutes <= 0 {
		minutes = e.effectiveThreshold(ctx)
	}

	e.mu.Lock()
	if e.grouping {
		e.mu.Unlock()
		e.publish(events.Event{Kind: events.Error, Message: "grouping already in progress"})
		return 0, ErrGroupingInFlight
	}
	e.grouping = true
	timeout := time.Duration(e.cfg.GroupingTimeoutSeconds) * time.Second
	guard := &groupingGuard{}
	guard.timer = e.timeAft(timeout, func() { e.forceUnlockGrouping(guard) })
	e.groupingUnlock = guard
	e.mu.Unlock()

	grouped, err := e.runGroupingPass(ctx, minutes)
	e.finishGrouping(guard)

	if err != nil {
		var notEnough NotEnoughTabsError
		if errors.As(err, &notEnough) {
			e.publish(events.Event{Kind: events.NotEnoughTabs, Required: notEnough.Required})
			return 0, err
		}
		e.logger.Error("grouping pass failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "grouping_failed"),
			logging.String(logging.FieldErrorHint, "check the extension bridge connection"))
		e.publish(events.Event{Kind: events.Error, Message: err.Error()})
		return 0, err
	}

	e.logger.Info("grouping pass complete",
		logging.String(logging.FieldEventType, "grouping_complete"),
		logging.Int("grouped", grouped))
	e.publish(events.Event{Kind: events.GroupingComplete, Grouped: grouped})
	return grouped, nil
}

// groupingGuard ties the timeout safeguard to the pass that armed it.
// Identity matters: a callback that already started when its pass completed
// would otherwise clear the guard of whatever pass runs next.
type groupingGuard struct {
	timer *time.Timer
}

// forceUnlockGrouping is the timeout safeguard for one pass. It wins over
// that pass's normal completion, but a firing for a pass that has already
// released the guard is dropped.
func (e *Engine) forceUnlockGrouping(guard *groupingGuard) {
	e.mu.Lock()
	if !e.grouping || e.groupingUnlock != guard {
		e.mu.Unlock()
		return
	}
	e.grouping = false
	e.groupingUnlock = nil
	e.mu.Unlock()

	e.logger.Warn("grouping pass timed out; guard force-cleared",
		logging.String(logging.FieldEventType, "grouping_timeout"),
		logging.String(logging.FieldImpact, "the in-flight pass result will be discarded"),
		logging.String(logging.FieldErrorHint, "check browser responsiveness"))
	e.publish(events.Event{Kind: events.Error, Message: "grouping timed out, please try again"})
}

// finishGrouping releases the guard for the pass that armed the given
// safeguard. If the safeguard already fired (or another pass has since
// started), the guard is left alone.
func (e *Engine) finishGrouping(guard *groupingGuard) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.groupingUnlock != guard {
		return
	}
	guard.timer.Stop()
	e.groupingUnlock = nil
	e.grouping = false
}

func (e *Engine) runGroupingPass(ctx context.Context, minutes int) (int, error) {
	now := e.now()

	tabs, err := e.eligibleTabs(ctx)
	if err != nil {
		return 0, fmt.Errorf("enumerate tabs: %w", err)
	}

	// Activation events may have been missed while the bridge was down,
	// so the live snapshot wins for currently-active tabs.
	for _, tab := range tabs {
		e.tabs.Ensure(tab.ID, tab.LastAccessed, tab.Active)
		if tab.Active {
			e.tabs.RecordActivation(tab.ID)
		}
	}

	idleCutoff := time.Duration(minutes) * time.Minute
	candidates := make([]browser.Tab, 0, len(tabs))
	for _, tab := range tabs {
		if !groupCandidate(tab) || tab.Grouped() {
			continue
		}
		tabState, ok := e.tabs.State(tab.ID)
		if !ok || tabState.Active {
			continue
		}
		if now.Sub(tabState.LastAccessed) <= idleCutoff {
			continue
		}
		candidates = append(candidates, tab)
	}

	required := e.effectiveMinGroupTabs(ctx)
	if len(candidates) < required {
		return 0, NotEnoughTabsError{Required: required}
	}

	e.publish(events.Event{Kind: events.GroupingStarted})

	ids := make([]browser.TabID, len(candidates))
	for i, tab := range candidates {
		ids[i] = tab.ID
	}

	gid, seeded, err := e.resolveHoldingGroup(ctx, ids[0])
	if err != nil {
		return 0, err
	}
	remaining := ids
	if seeded {
		remaining = ids[1:]
	}
	if len(remaining) > 0 {
		if _, err := e.client.GroupTabs(ctx, gid, remaining); err != nil {
			return 0, fmt.Errorf("move tabs into holding group: %w", err)
		}
	}

	e.tabs.MarkGrouped(ids)
	return len(ids), nil
}

// resolveHoldingGroup finds or creates the destination group, in order:
// persisted id revalidated by title, live title search, then creation seeded
// with the given candidate. Reports whether the seed tab was consumed.
func (e *Engine) resolveHoldingGroup(ctx context.Context, seed browser.TabID) (browser.GroupID, bool, error) {
	title := e.cfg.GroupTitle

	if e.store != nil {
		stored, ok, err := e.store.HoldingGroupID(ctx)
		if err != nil {
			e.logger.Warn("reading persisted holding group failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "state_read_failed"),
				logging.String(logging.FieldErrorHint, "check the state database"))
		} else if ok {
			group, err := e.client.Group(ctx, stored)
			if err == nil && titlesEqual(group.Title, title) {
				e.setHoldingGroup(stored)
				return stored, false, nil
			}
			// Stale reference: discard silently and fall through.
			e.clearHoldingGroup()
			if clearErr := e.store.ClearHoldingGroupID(ctx); clearErr != nil {
				e.logger.Warn("clearing stale holding group id failed", logging.Error(clearErr))
			}
		}
	}

	groups, err := e.client.Groups(ctx)
	if err != nil {
		return browser.NoGroup, false, fmt.Errorf("enumerate groups: %w", err)
	}
	for _, group := range groups {
		if titlesEqual(group.Title, title) {
			e.persistHoldingGroup(ctx, group.ID)
			return group.ID, false, nil
		}
	}

	gid, err := e.client.GroupTabs(ctx, browser.NoGroup, []browser.TabID{seed})
	if err != nil {
		return browser.NoGroup, false, fmt.Errorf("create holding group: %w", err)
	}
	collapsed := true
	if err := e.client.UpdateGroup(ctx, gid, browser.GroupUpdate{Title: &title, Collapsed: &collapsed}); err != nil {
		return browser.NoGroup, false, fmt.Errorf("label holding group: %w", err)
	}
	e.persistHoldingGroup(ctx, gid)
	return gid, true, nil
}

func (e *Engine) persistHoldingGroup(ctx context.Context, id browser.GroupID) {
	e.setHoldingGroup(id)
	if e.store == nil {
		return
	}
	if err := e.store.SetHoldingGroupID(ctx, id); err != nil {
		e.logger.Warn("persisting holding group id failed",
			logging.Error(err),
			logging.Int64(logging.FieldGroupID, int64(id)),
			logging.String(logging.FieldEventType, "state_write_failed"),
			logging.String(logging.FieldImpact, "the group will be re-resolved by title after a restart"))
	}
}
