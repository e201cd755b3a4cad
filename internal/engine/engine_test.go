package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/config"
	"tabshelf/internal/engine"
	"tabshelf/internal/events"
	"tabshelf/internal/logging"
	"tabshelf/internal/state"
	"tabshelf/internal/testsupport"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	engine *engine.Engine
	fake   *testsupport.FakeBrowser
	bus    *events.Bus
	clock  *fakeClock
	store  *state.Store
}

func newFixture(t *testing.T, mutate func(*config.Engine)) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Engine.MinGroupTabs = 2
	if mutate != nil {
		mutate(&cfg.Engine)
	}

	store := testsupport.MustOpenStore(t, cfg)
	fake := testsupport.NewFakeBrowser()
	bus := events.NewBus()
	clock := newFakeClock()
	eng := engine.New(cfg.Engine, fake, store, bus, logging.NewNop(), engine.WithClock(clock.Now))

	return &fixture{engine: eng, fake: fake, bus: bus, clock: clock, store: store}
}

func eventKinds(bus *events.Bus) []events.Kind {
	recent := bus.Recent()
	kinds := make([]events.Kind, len(recent))
	for i, ev := range recent {
		kinds[i] = ev.Kind
	}
	return kinds
}

func hasEventKind(bus *events.Bus, kind events.Kind) bool {
	for _, k := range eventKinds(bus) {
		if k == kind {
			return true
		}
	}
	return false
}

func countCalls(fake *testsupport.FakeBrowser, op string) int {
	n := 0
	for _, call := range fake.Calls() {
		if call == op {
			n++
		}
	}
	return n
}

func TestGroupNowConsolidatesIdleTabs(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	fx.fake.AddTab(browser.Tab{ID: 1, Title: "docs"})
	fx.fake.AddTab(browser.Tab{ID: 2, Title: "mail"})
	fx.fake.AddTab(browser.Tab{ID: 3, Title: "news"})
	fx.fake.AddTab(browser.Tab{ID: 4, Title: "work", Active: true})

	if err := fx.engine.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fx.clock.Advance(31 * time.Minute)

	grouped, err := fx.engine.GroupNow(ctx, 0)
	if err != nil {
		t.Fatalf("GroupNow: %v", err)
	}
	if grouped != 3 {
		t.Fatalf("expected 3 tabs grouped, got %d", grouped)
	}

	var gid browser.GroupID
	for _, id := range []browser.TabID{1, 2, 3} {
		tab, ok := fx.fake.TabSnapshot(id)
		if !ok {
			t.Fatalf("tab %d vanished", id)
		}
		if !tab.Grouped() {
			t.Fatalf("expected tab %d grouped", id)
		}
		if gid == 0 {
			gid = tab.GroupID
		} else if tab.GroupID != gid {
			t.Fatalf("tabs landed in different groups: %d and %d", gid, tab.GroupID)
		}
	}
	if tab, _ := fx.fake.TabSnapshot(4); tab.Grouped() {
		t.Fatal("active tab must not be grouped")
	}

	group, ok := fx.fake.GroupSnapshot(gid)
	if !ok {
		t.Fatalf("holding group %d missing", gid)
	}
	if group.Title != "Inactive Tabs" {
		t.Fatalf("unexpected group title %q", group.Title)
	}
	if !group.Collapsed {
		t.Fatal("expected holding group collapsed")
	}

	stored, ok, err := fx.store.HoldingGroupID(ctx)
	if err != nil || !ok {
		t.Fatalf("holding group id not persisted: ok=%v err=%v", ok, err)
	}
	if stored != gid {
		t.Fatalf("persisted group id %d, want %d", stored, gid)
	}

	if !hasEventKind(fx.bus, events.GroupingStarted) || !hasEventKind(fx.bus, events.GroupingComplete) {
		t.Fatalf("missing grouping events, got %v", eventKinds(fx.bus))
	}
}

func TestGroupNowBelowFloor(t *testing.T) {
	fx := newFixture(t, func(cfg *config.Engine) {
		cfg.MinGroupTabs = 5
	})
	ctx := context.Background()

	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	if err := fx.engine.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fx.clock.Advance(time.Hour)

	_, err := fx.engine.GroupNow(ctx, 0)
	var notEnough engine.NotEnoughTabsError
	if !errors.As(err, &notEnough) {
		t.Fatalf("expected NotEnoughTabsError, got %v", err)
	}
	if notEnough.Required != 5 {
		t.Fatalf("expected required 5, got %d", notEnough.Required)
	}
	if countCalls(fx.fake, "tabs.group") != 0 {
		t.Fatal("no tabs should be moved below the floor")
	}
	if !hasEventKind(fx.bus, events.NotEnoughTabs) {
		t.Fatalf("expected NOT_ENOUGH_TABS event, got %v", eventKinds(fx.bus))
	}
	if hasEventKind(fx.bus, events.GroupingStarted) {
		t.Fatal("grouping must not start below the floor")
	}
}

func TestGroupNowRespectsThresholdArgument(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	if err := fx.engine.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fx.clock.Advance(6 * time.Minute)

	grouped, err := fx.engine.GroupNow(ctx, 5)
	if err != nil {
		t.Fatalf("GroupNow with explicit threshold: %v", err)
	}
	if grouped != 2 {
		t.Fatalf("expected 2 tabs grouped, got %d", grouped)
	}
}

func TestGroupNowSkipsProtectedTabs(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	fx.fake.AddTab(browser.Tab{ID: 3, Pinned: true})
	fx.fake.AddTab(browser.Tab{ID: 4, Audible: true})
	fx.fake.AddGroup(browser.TabGroup{ID: 50, Title: "research"})
	fx.fake.AddTab(browser.Tab{ID: 5, GroupID: 50})
	fx.fake.AddWindow(9, browser.WindowPopup)
	fx.fake.AddTab(browser.Tab{ID: 6, WindowID: 9})

	if err := fx.engine.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fx.clock.Advance(time.Hour)

	grouped, err := fx.engine.GroupNow(ctx, 0)
	if err != nil {
		t.Fatalf("GroupNow: %v", err)
	}
	if grouped != 2 {
		t.Fatalf("expected only the 2 plain tabs grouped, got %d", grouped)
	}
	for _, id := range []browser.TabID{3, 4, 6} {
		if tab, ok := fx.fake.TabSnapshot(id); ok && tab.Grouped() {
			t.Fatalf("protected tab %d was grouped", id)
		}
	}
	if tab, _ := fx.fake.TabSnapshot(5); tab.GroupID != 50 {
		t.Fatal("tab in a user group must not be moved")
	}
}

func TestGroupNowSingleFlight(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	if err := fx.engine.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fx.clock.Advance(time.Hour)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fx.fake.Hook = func(op string) error {
		if op == "tabs.query" {
			once.Do(func() {
				close(started)
				<-release
			})
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := fx.engine.GroupNow(ctx, 0)
		done <- err
	}()
	<-started

	if _, err := fx.engine.GroupNow(ctx, 0); !errors.Is(err, engine.ErrGroupingInFlight) {
		t.Fatalf("expected ErrGroupingInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	// Guard released: a fresh request goes through.
	past := fx.clock.Now().Add(-time.Hour)
	fx.fake.AddTab(browser.Tab{ID: 3, LastAccessed: &past})
	fx.fake.AddTab(browser.Tab{ID: 4, LastAccessed: &past})
	if _, err := fx.engine.GroupNow(ctx, 0); err != nil {
		t.Fatalf("pass after release failed: %v", err)
	}
}

func TestGroupNowReusesExistingGroupByTitle(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	fx.fake.AddGroup(browser.TabGroup{ID: 7, Title: "inactive tabs"})
	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	if err := fx.engine.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fx.clock.Advance(time.Hour)

	if _, err := fx.engine.GroupNow(ctx, 0); err != nil {
		t.Fatalf("GroupNow: %v", err)
	}
	for _, id := range []browser.TabID{1, 2} {
		tab, _ := fx.fake.TabSnapshot(id)
		if tab.GroupID != 7 {
			t.Fatalf("tab %d in group %d, want existing group 7", id, tab.GroupID)
		}
	}
}

func TestGroupNowDiscardsStaleStoredGroup(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	if err := fx.store.SetHoldingGroupID(ctx, 999); err != nil {
		t.Fatalf("seed stale id: %v", err)
	}
	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	fx.clock.Advance(time.Hour)
	fx.engine.Tracker().Bootstrap([]browser.Tab{{ID: 1}, {ID: 2}}, browser.NoGroup)
	fx.clock.Advance(time.Hour)

	if _, err := fx.engine.GroupNow(ctx, 0); err != nil {
		t.Fatalf("GroupNow: %v", err)
	}

	tab, _ := fx.fake.TabSnapshot(1)
	if tab.GroupID == 999 || !tab.Grouped() {
		t.Fatalf("stale group reused or tab not grouped: group=%d", tab.GroupID)
	}
	stored, ok, err := fx.store.HoldingGroupID(ctx)
	if err != nil || !ok {
		t.Fatalf("new group id not persisted: ok=%v err=%v", ok, err)
	}
	if stored == 999 {
		t.Fatal("stale group id still persisted")
	}
}

func TestCountdownLifecycle(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	fx.engine.StartCountdown(ctx, 25)
	if !fx.engine.CountdownRunning() {
		t.Fatal("countdown should be running")
	}
	status := fx.engine.Status(ctx)
	if status.CountdownEnd == nil {
		t.Fatal("status missing countdown end")
	}
	want := fx.clock.Now().Add(25 * time.Minute)
	if !status.CountdownEnd.Equal(want) {
		t.Fatalf("countdown end %v, want %v", status.CountdownEnd, want)
	}

	if !fx.engine.StopCountdown() {
		t.Fatal("StopCountdown should report it stopped one")
	}
	if fx.engine.StopCountdown() {
		t.Fatal("second StopCountdown should be a no-op")
	}
	if !hasEventKind(fx.bus, events.TimerStarted) || !hasEventKind(fx.bus, events.Stopped) {
		t.Fatalf("missing countdown events, got %v", eventKinds(fx.bus))
	}
}

func TestAutoCheckHysteresis(t *testing.T) {
	fx := newFixture(t, func(cfg *config.Engine) {
		cfg.AutoStartTabs = 3
		cfg.AutoStopTabs = 1
	})
	ctx := context.Background()

	fx.fake.AddTab(browser.Tab{ID: 1})
	fx.fake.AddTab(browser.Tab{ID: 2})
	fx.fake.AddTab(browser.Tab{ID: 10, Pinned: true})
	if err := fx.engine.AutoCheck(ctx); err != nil {
		t.Fatalf("AutoCheck: %v", err)
	}
	if fx.engine.CountdownRunning() {
		t.Fatal("countdown started below the start threshold")
	}

	fx.fake.AddTab(browser.Tab{ID: 3})
	if err := fx.engine.AutoCheck(ctx); err != nil {
		t.Fatalf("AutoCheck: %v", err)
	}
	if !fx.engine.CountdownRunning() {
		t.Fatal("countdown should start at the start threshold")
	}

	// Inside the hysteresis band nothing changes.
	fx.fake.RemoveTab(3)
	if err := fx.engine.AutoCheck(ctx); err != nil {
		t.Fatalf("AutoCheck: %v", err)
	}
	if !fx.engine.CountdownRunning() {
		t.Fatal("countdown must keep running between the thresholds")
	}

	// Exactly at the stop threshold the countdown keeps running.
	fx.fake.RemoveTab(2)
	if err := fx.engine.AutoCheck(ctx); err != nil {
		t.Fatalf("AutoCheck: %v", err)
	}
	if !fx.engine.CountdownRunning() {
		t.Fatal("countdown must keep running at the stop threshold")
	}

	fx.fake.RemoveTab(1)
	if err := fx.engine.AutoCheck(ctx); err != nil {
		t.Fatalf("AutoCheck: %v", err)
	}
	if fx.engine.CountdownRunning() {
		t.Fatal("countdown should stop below the stop threshold")
	}
}

func TestAutoCheckDisabledStopsCountdown(t *testing.T) {
	fx := newFixture(t, func(cfg *config.Engine) {
		cfg.AutoGroup = false
	})
	ctx := context.Background()

	fx.engine.StartCountdown(ctx, 30)
	if err := fx.engine.AutoCheck(ctx); err != nil {
		t.Fatalf("AutoCheck: %v", err)
	}
	if fx.engine.CountdownRunning() {
		t.Fatal("countdown should stop when auto grouping is disabled")
	}
}

func bootstrapWithHolding(t *testing.T, fx *fixture) browser.GroupID {
	t.Helper()
	fx.fake.AddGroup(browser.TabGroup{ID: 40, Title: "Inactive Tabs", Collapsed: true})
	fx.fake.AddTab(browser.Tab{ID: 1, GroupID: 40})
	fx.fake.AddTab(browser.Tab{ID: 2, GroupID: 40})
	fx.fake.AddTab(browser.Tab{ID: 3, Active: true})
	if err := fx.engine.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return 40
}

func TestActivatedHoldingTabReleasedAfterDelay(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})

	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases: %v", err)
	}
	if tab, _ := fx.fake.TabSnapshot(1); !tab.Grouped() {
		t.Fatal("tab released before the delay elapsed")
	}

	fx.clock.Advance(11 * time.Second)
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases: %v", err)
	}
	tab, _ := fx.fake.TabSnapshot(1)
	if tab.Grouped() {
		t.Fatal("tab should be released after the delay")
	}
	if group, ok := fx.fake.GroupSnapshot(gid); !ok || !group.Collapsed {
		t.Fatal("holding group should be re-collapsed after a release")
	}
	if fx.engine.Status(ctx).QueuedReleases != 0 {
		t.Fatal("release queue should be empty")
	}
}

func TestDeactivationCancelsQueuedRelease(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})

	inactive := false
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabUpdated, TabID: 1, Active: &inactive})

	fx.clock.Advance(time.Minute)
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases: %v", err)
	}
	if tab, _ := fx.fake.TabSnapshot(1); !tab.Grouped() {
		t.Fatal("tab must stay grouped when focus moved away before the delay")
	}
	if countCalls(fx.fake, "tabs.ungroup") != 0 {
		t.Fatal("no ungroup call expected")
	}
}

func TestReleaseSkipsTabNoLongerActive(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})
	fx.fake.SetActive(3)

	fx.clock.Advance(time.Minute)
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases: %v", err)
	}
	if tab, _ := fx.fake.TabSnapshot(1); !tab.Grouped() {
		t.Fatal("inactive tab must not be released")
	}
	if fx.engine.Status(ctx).QueuedReleases != 0 {
		t.Fatal("stale release entry should be dropped")
	}
}

func TestReleaseFailureDropsQueueEntry(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})
	fx.clock.Advance(time.Minute)

	boom := errors.New("bridge hiccup")
	fx.fake.Hook = func(op string) error {
		if op == "tabs.ungroup" {
			return boom
		}
		return nil
	}
	if err := fx.engine.DrainReleases(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected failure surfaced, got %v", err)
	}
	if fx.engine.Status(ctx).QueuedReleases != 0 {
		t.Fatal("entry must leave the queue regardless of outcome")
	}

	// No retry: the next drain leaves the tab alone.
	fx.fake.Hook = nil
	fx.clock.Advance(time.Minute)
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("drain after failure: %v", err)
	}
	if countCalls(fx.fake, "tabs.ungroup") != 1 {
		t.Fatalf("failed release must not be retried, got %d ungroup calls", countCalls(fx.fake, "tabs.ungroup"))
	}
	if tab, _ := fx.fake.TabSnapshot(1); !tab.Grouped() {
		t.Fatal("tab should stay grouped after the dropped release")
	}
}

func TestRenamedGroupSuppressesRelease(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})

	// The user renames the group while the delay runs; the tab now lives in
	// a group they curate themselves.
	fx.fake.AddGroup(browser.TabGroup{ID: gid, Title: "My Research", Collapsed: true})

	fx.clock.Advance(time.Minute)
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases: %v", err)
	}
	if tab, _ := fx.fake.TabSnapshot(1); !tab.Grouped() {
		t.Fatal("tab must stay in the renamed group")
	}
	if countCalls(fx.fake, "tabs.ungroup") != 0 {
		t.Fatal("no ungroup call expected for a renamed group")
	}
	if fx.engine.Status(ctx).QueuedReleases != 0 {
		t.Fatal("entry should be discarded silently")
	}
}

func TestAutoUngroupOffSuppressesDrain(t *testing.T) {
	fx := newFixture(t, func(cfg *config.Engine) {
		cfg.AutoUngroup = false
	})
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})

	fx.clock.Advance(time.Minute)
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases: %v", err)
	}
	if tab, _ := fx.fake.TabSnapshot(1); !tab.Grouped() {
		t.Fatal("tab must stay grouped while auto ungroup is off")
	}
	if fx.engine.Status(ctx).QueuedReleases != 1 {
		t.Fatal("entry should stay queued while auto ungroup is off")
	}

	// Re-enabling the flag lets the queued entry drain.
	if err := fx.store.SetAutoUngroup(ctx, true); err != nil {
		t.Fatalf("SetAutoUngroup: %v", err)
	}
	if err := fx.engine.DrainReleases(ctx); err != nil {
		t.Fatalf("DrainReleases after enabling: %v", err)
	}
	if tab, _ := fx.fake.TabSnapshot(1); tab.Grouped() {
		t.Fatal("queued entry should drain once auto ungroup is back on")
	}
}

func TestRemovedTabDropsQueuedRelease(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabRemoved, TabID: 1})

	status := fx.engine.Status(ctx)
	if status.QueuedReleases != 0 {
		t.Fatal("removed tab should leave the release queue")
	}
	if _, ok := fx.engine.Tracker().State(1); ok {
		t.Fatal("removed tab should leave the activity table")
	}
}

func TestHandleGroupRemovedClearsHoldingGroup(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventGroupRemoved, GroupID: gid})

	if fx.engine.Status(ctx).HoldingGroupID != nil {
		t.Fatal("holding group cache should be cleared")
	}
	if _, ok, err := fx.store.HoldingGroupID(ctx); err != nil {
		t.Fatalf("read store: %v", err)
	} else if ok {
		t.Fatal("persisted holding group id should be cleared")
	}
}

func TestBootstrapBackdatesHoldingMembers(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	bootstrapWithHolding(t, fx)

	infos, err := fx.engine.ListTabs(ctx)
	if err != nil {
		t.Fatalf("ListTabs: %v", err)
	}
	byID := make(map[browser.TabID]engine.TabInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}
	if byID[1].IdleSeconds == 0 {
		t.Fatal("holding-group member should report accumulated idle time")
	}
	if byID[3].IdleSeconds != 0 {
		t.Fatal("active tab should report zero idle time")
	}
	if infos[0].ID != 1 && infos[0].ID != 2 {
		t.Fatalf("expected holding members sorted first, got tab %d", infos[0].ID)
	}
}

func TestStatusReflectsStoreOverrides(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	if err := fx.store.SetThresholdMinutes(ctx, 45); err != nil {
		t.Fatalf("SetThresholdMinutes: %v", err)
	}
	if err := fx.store.SetMinGroupTabs(ctx, 3); err != nil {
		t.Fatalf("SetMinGroupTabs: %v", err)
	}
	if err := fx.store.SetAutoGroup(ctx, false); err != nil {
		t.Fatalf("SetAutoGroup: %v", err)
	}

	status := fx.engine.Status(ctx)
	if status.ThresholdMinutes != 45 {
		t.Fatalf("threshold %d, want 45", status.ThresholdMinutes)
	}
	if status.MinGroupTabs != 3 {
		t.Fatalf("min group tabs %d, want 3", status.MinGroupTabs)
	}
	if status.AutoGroup {
		t.Fatal("auto group override should win over config")
	}
	if !status.AutoUngroup {
		t.Fatal("unset override should fall back to config")
	}
}

func TestForceResetClearsTransientState(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})
	fx.engine.StartCountdown(ctx, 30)

	if err := fx.engine.ForceReset(ctx); err != nil {
		t.Fatalf("ForceReset: %v", err)
	}

	status := fx.engine.Status(ctx)
	if status.Running {
		t.Fatal("countdown should be stopped after reset")
	}
	if status.QueuedReleases != 0 {
		t.Fatal("release queue should be empty after reset")
	}
	if status.HoldingGroupID == nil || *status.HoldingGroupID != gid {
		t.Fatal("holding group should be re-adopted by title")
	}
	if !hasEventKind(fx.bus, events.Stopped) {
		t.Fatalf("expected STOPPED event, got %v", eventKinds(fx.bus))
	}
}

func TestReconcilePrunesDeadTabs(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	gid := bootstrapWithHolding(t, fx)

	fx.fake.SetActive(1)
	fx.engine.HandleEvent(ctx, browser.Event{Kind: browser.EventTabActivated, TabID: 1, GroupID: gid})
	fx.fake.RemoveTab(1)

	pruned, err := fx.engine.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", pruned)
	}
	status := fx.engine.Status(ctx)
	if status.QueuedReleases != 0 {
		t.Fatal("queued release for a dead tab should be pruned")
	}
	if status.TrackedTabs != 2 {
		t.Fatalf("expected 2 tracked tabs, got %d", status.TrackedTabs)
	}
}
