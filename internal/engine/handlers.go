package engine

import (
	"context"

	"tabshelf/internal/browser"
	"tabshelf/internal/logging"
)

// HandleEvent ingests one lifecycle event from the browser bridge. Events
// for unknown tabs create tracking entries, and stale references are
// discarded without surfacing an error.
func (e *Engine) HandleEvent(ctx context.Context, ev browser.Event) {
	switch ev.Kind {
	case browser.EventTabActivated:
		e.handleActivated(ctx, ev)
	case browser.EventTabUpdated:
		e.handleUpdated(ev)
	case browser.EventTabRemoved:
		e.tabs.Remove(ev.TabID)
		e.dequeueRelease(ev.TabID)
	case browser.EventGroupRemoved:
		e.handleGroupRemoved(ctx, ev)
	default:
		e.logger.Debug("ignoring unknown browser event",
			logging.String(logging.FieldEventType, string(ev.Kind)))
	}
}

func (e *Engine) handleActivated(ctx context.Context, ev browser.Event) {
	e.tabs.RecordActivation(ev.TabID)

	gid := ev.GroupID
	if gid == 0 {
		gid = browser.NoGroup
	}
	if gid == browser.NoGroup {
		return
	}
	if !e.isHoldingGroup(ctx, gid) {
		return
	}
	e.queueRelease(ev.TabID)
	e.logger.Debug("queued release for activated tab",
		logging.Int64(logging.FieldTabID, int64(ev.TabID)),
		logging.Int64(logging.FieldGroupID, int64(gid)))
}

func (e *Engine) handleUpdated(ev browser.Event) {
	if ev.Status == "complete" || ev.URL != "" {
		active := false
		if ev.Active != nil {
			active = *ev.Active
		}
		e.tabs.RecordSettled(ev.TabID, active)
	}
	// A tab that lost focus before its delay elapsed stays put.
	if ev.Active != nil && !*ev.Active {
		e.dequeueRelease(ev.TabID)
	}
}

func (e *Engine) handleGroupRemoved(ctx context.Context, ev browser.Event) {
	holding, known := e.holdingGroup()
	if !known || ev.GroupID != holding {
		return
	}
	e.clearHoldingGroup()
	if e.store != nil {
		if err := e.store.ClearHoldingGroupID(ctx); err != nil {
			e.logger.Warn("clearing removed holding group id failed", logging.Error(err))
		}
	}
	e.logger.Info("holding group removed by browser",
		logging.Int64(logging.FieldGroupID, int64(ev.GroupID)),
		logging.String(logging.FieldEventType, "group_removed"))
}

// isHoldingGroup reports whether the given group is the holding group,
// using the cache when populated and falling back to a title check.
func (e *Engine) isHoldingGroup(ctx context.Context, id browser.GroupID) bool {
	if holding, known := e.holdingGroup(); known {
		return id == holding
	}
	group, err := e.client.Group(ctx, id)
	if err != nil {
		return false
	}
	if !titlesEqual(group.Title, e.cfg.GroupTitle) {
		return false
	}
	e.setHoldingGroup(id)
	return true
}
