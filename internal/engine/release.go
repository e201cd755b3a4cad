package engine

import (
	"context"
	"errors"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/logging"
)

// queueRelease schedules a tab for delayed removal from the holding group.
// Re-queueing keeps the original timestamp, so rapid activate/deactivate
// churn cannot push the release out indefinitely.
func (e *Engine) queueRelease(id browser.TabID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.release[id]; ok {
		return
	}
	e.release[id] = e.now()
}

// dequeueRelease cancels a pending release, if any.
func (e *Engine) dequeueRelease(id browser.TabID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.release, id)
}

// DrainReleases ungroups queued tabs whose delay has elapsed, provided each
// is still the active member of a group carrying the reserved title.
// Single-flight: overlapping drains are dropped, not queued.
func (e *Engine) DrainReleases(ctx context.Context) error {
	delay := time.Duration(e.cfg.ReleaseDelaySeconds) * time.Second

	e.mu.Lock()
	if e.releasing || len(e.release) == 0 {
		e.mu.Unlock()
		return nil
	}
	e.releasing = true
	now := e.now()
	due := make([]browser.TabID, 0, len(e.release))
	for id, queuedAt := range e.release {
		if now.Sub(queuedAt) >= delay {
			due = append(due, id)
		}
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.releasing = false
		e.mu.Unlock()
	}()

	if len(due) == 0 {
		return nil
	}

	// Entries stay queued while the flag is off, so re-enabling it resumes
	// releases where they left off.
	if !e.effectiveAutoUngroup(ctx) {
		return nil
	}

	recollapseID := browser.NoGroup
	var firstErr error
	for _, id := range due {
		gid, ok, err := e.releaseOne(ctx, id)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if ok && recollapseID == browser.NoGroup {
			recollapseID = gid
		}
	}

	if recollapseID != browser.NoGroup {
		e.recollapse(ctx, recollapseID)
	}
	return firstErr
}

// releaseOne ungroups a single queued tab if it still qualifies. The queue
// entry is removed up front and never requeued: a failed release is dropped,
// not retried. The tab's group title is checked here rather than at enqueue
// time, since the group may have been renamed while the delay ran.
func (e *Engine) releaseOne(ctx context.Context, id browser.TabID) (browser.GroupID, bool, error) {
	e.dequeueRelease(id)

	tab, err := e.client.Tab(ctx, id)
	if errors.Is(err, browser.ErrNoTab) {
		return browser.NoGroup, false, nil
	}
	if err != nil {
		return browser.NoGroup, false, err
	}

	if !tab.Active || !tab.Grouped() {
		return browser.NoGroup, false, nil
	}

	group, err := e.client.Group(ctx, tab.GroupID)
	if errors.Is(err, browser.ErrNoGroup) {
		return browser.NoGroup, false, nil
	}
	if err != nil {
		return browser.NoGroup, false, err
	}
	if !titlesEqual(group.Title, e.cfg.GroupTitle) {
		return browser.NoGroup, false, nil
	}

	if err := e.client.UngroupTabs(ctx, []browser.TabID{id}); err != nil {
		e.logger.Warn("release failed; entry dropped",
			logging.Error(err),
			logging.Int64(logging.FieldTabID, int64(id)),
			logging.String(logging.FieldEventType, "release_failed"))
		return browser.NoGroup, false, err
	}

	e.tabs.RecordActivation(id)
	e.logger.Info("released tab from holding group",
		logging.Int64(logging.FieldTabID, int64(id)),
		logging.String(logging.FieldEventType, "tab_released"))
	return tab.GroupID, true, nil
}

// recollapse restores the collapsed presentation after releases, since the
// browser expands a group when its active member leaves it. An empty group
// is left alone; the browser removes it on its own.
func (e *Engine) recollapse(ctx context.Context, gid browser.GroupID) {
	members, err := e.client.Tabs(ctx, browser.Query{GroupID: &gid})
	if err != nil || len(members) == 0 {
		return
	}
	collapsed := true
	if err := e.client.UpdateGroup(ctx, gid, browser.GroupUpdate{Collapsed: &collapsed}); err != nil {
		e.logger.Debug("re-collapsing holding group failed", logging.Error(err))
	}
}
