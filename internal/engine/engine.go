package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/config"
	"tabshelf/internal/events"
	"tabshelf/internal/logging"
	"tabshelf/internal/state"
	"tabshelf/internal/tracker"
)

// ErrGroupingInFlight indicates a grouping pass was requested while another
// one holds the guard. The request is rejected, never queued.
var ErrGroupingInFlight = errors.New("grouping already in progress")

// NotEnoughTabsError indicates a grouping pass found fewer candidates than
// the configured floor. It is an expected outcome, not a failure.
type NotEnoughTabsError struct {
	Required int
}

func (e NotEnoughTabsError) Error() string {
	return fmt.Sprintf("not enough inactive tabs to group (need %d)", e.Required)
}

// Engine coordinates activity tracking, grouping, the auto countdown, and
// delayed release of reactivated tabs.
type Engine struct {
	cfg     config.Engine
	logger  *slog.Logger
	client  browser.Client
	store   *state.Store
	bus     *events.Bus
	tabs    *tracker.Table
	now     func() time.Time
	timeAft func(d time.Duration, f func()) *time.Timer

	// timerCtx backs work started from timer callbacks, which have no caller
	// context. Set by Bootstrap to the daemon's run context.
	timerCtx context.Context

	mu             sync.Mutex
	grouping       bool
	groupingUnlock *groupingGuard
	countdown      *countdownState
	releasing      bool
	release        map[browser.TabID]time.Time
	holding        browser.GroupID
	holdingKnown   bool
}

type countdownState struct {
	minutes int
	endTime time.Time
	timer   *time.Timer
}

// Status is the read-only projection exposed over IPC.
type Status struct {
	Running          bool
	ThresholdMinutes int
	MinGroupTabs     int
	AutoGroup        bool
	AutoUngroup      bool
	CountdownEnd     *time.Time
	GroupingInFlight bool
	TrackedTabs      int
	QueuedReleases   int
	HoldingGroupID   *browser.GroupID
}

// Option adjusts engine construction. Used by tests.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an engine. The tracker table shares the engine's clock.
func New(cfg config.Engine, client browser.Client, store *state.Store, bus *events.Bus, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "engine"),
		client:   client,
		store:    store,
		bus:      bus,
		now:      time.Now,
		timeAft:  time.AfterFunc,
		timerCtx: context.Background(),
		release:  make(map[browser.TabID]time.Time),
		holding:  browser.NoGroup,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tabs = tracker.NewWithClock(e.now)
	return e
}

// Tracker exposes the activity table.
func (e *Engine) Tracker() *tracker.Table {
	return e.tabs
}

// Status snapshots engine state.
func (e *Engine) Status(ctx context.Context) Status {
	threshold := e.effectiveThreshold(ctx)
	minTabs := e.effectiveMinGroupTabs(ctx)
	autoGroup := e.effectiveAutoGroup(ctx)
	autoUngroup := e.effectiveAutoUngroup(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	status := Status{
		Running:          e.countdown != nil,
		ThresholdMinutes: threshold,
		MinGroupTabs:     minTabs,
		AutoGroup:        autoGroup,
		AutoUngroup:      autoUngroup,
		GroupingInFlight: e.grouping,
		TrackedTabs:      e.tabs.Len(),
		QueuedReleases:   len(e.release),
	}
	if e.countdown != nil {
		end := e.countdown.endTime
		status.CountdownEnd = &end
	}
	if e.holdingKnown {
		id := e.holding
		status.HoldingGroupID = &id
	}
	return status
}

func (e *Engine) publish(event events.Event) {
	if e.bus != nil {
		e.bus.Publish(event)
	}
}

// holdingGroup returns the cached holding group id, if known.
func (e *Engine) holdingGroup() (browser.GroupID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.holding, e.holdingKnown
}

func (e *Engine) setHoldingGroup(id browser.GroupID) {
	e.mu.Lock()
	e.holding = id
	e.holdingKnown = true
	e.mu.Unlock()
}

func (e *Engine) clearHoldingGroup() {
	e.mu.Lock()
	e.holding = browser.NoGroup
	e.holdingKnown = false
	e.mu.Unlock()
}

// Effective settings come from the persisted store when an override exists
// and fall back to the config file. Store read failures fall back too; a
// broken settings database must not stall the engine.

func (e *Engine) effectiveThreshold(ctx context.Context) int {
	if e.store != nil {
		if v, ok, err := e.store.ThresholdMinutes(ctx); err == nil && ok && v > 0 {
			return v
		}
	}
	return e.cfg.ThresholdMinutes
}

func (e *Engine) effectiveMinGroupTabs(ctx context.Context) int {
	if e.store != nil {
		if v, ok, err := e.store.MinGroupTabs(ctx); err == nil && ok && v > 0 {
			return v
		}
	}
	return e.cfg.MinGroupTabs
}

func (e *Engine) effectiveAutoGroup(ctx context.Context) bool {
	if e.store != nil {
		if v, ok, err := e.store.AutoGroup(ctx); err == nil && ok {
			return v
		}
	}
	return e.cfg.AutoGroup
}

func (e *Engine) effectiveAutoUngroup(ctx context.Context) bool {
	if e.store != nil {
		if v, ok, err := e.store.AutoUngroup(ctx); err == nil && ok {
			return v
		}
	}
	return e.cfg.AutoUngroup
}
