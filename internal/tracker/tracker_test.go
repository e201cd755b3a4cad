package tracker_test

import (
	"testing"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/tracker"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestRecordActivationMarksActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := tracker.NewWithClock(fixedClock(now))

	table.RecordActivation(7)

	state, ok := table.State(7)
	if !ok {
		t.Fatal("expected tab 7 to be tracked")
	}
	if !state.Active {
		t.Fatal("expected tab 7 to be active")
	}
	if !state.LastAccessed.Equal(now) {
		t.Fatalf("expected last accessed %v, got %v", now, state.LastAccessed)
	}
}

func TestEnsureDoesNotOverwriteExisting(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := tracker.NewWithClock(fixedClock(now))

	table.RecordActivation(3)
	earlier := now.Add(-2 * time.Hour)
	table.Ensure(3, &earlier, false)

	state, _ := table.State(3)
	if !state.LastAccessed.Equal(now) {
		t.Fatalf("Ensure overwrote existing entry: got %v", state.LastAccessed)
	}
	if !state.Active {
		t.Fatal("Ensure flipped active flag on existing entry")
	}
}

func TestEnsureAdoptsReportedLastAccessed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := tracker.NewWithClock(fixedClock(now))

	reported := now.Add(-45 * time.Minute)
	table.Ensure(4, &reported, false)

	state, ok := table.State(4)
	if !ok {
		t.Fatal("expected tab 4 to be tracked")
	}
	if !state.LastAccessed.Equal(reported) {
		t.Fatalf("expected reported last accessed %v, got %v", reported, state.LastAccessed)
	}
}

func TestMarkGroupedClearsActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := tracker.NewWithClock(fixedClock(now))

	table.RecordActivation(1)
	table.RecordActivation(2)
	table.MarkGrouped([]browser.TabID{1, 2})

	for _, id := range []browser.TabID{1, 2} {
		state, _ := table.State(id)
		if state.Active {
			t.Fatalf("expected tab %d inactive after grouping", id)
		}
	}
}

func TestReconcilePrunesDeadTabs(t *testing.T) {
	table := tracker.New()
	table.RecordActivation(1)
	table.RecordActivation(2)
	table.RecordActivation(3)

	pruned := table.Reconcile([]browser.TabID{2})
	if pruned != 2 {
		t.Fatalf("expected 2 pruned entries, got %d", pruned)
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", table.Len())
	}
	if _, ok := table.State(2); !ok {
		t.Fatal("expected tab 2 to survive reconcile")
	}
}

func TestBootstrapBackdatesHoldingGroupMembers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := tracker.NewWithClock(fixedClock(now))

	recent := now.Add(-time.Minute)
	tabs := []browser.Tab{
		{ID: 1, GroupID: 42, LastAccessed: &recent},
		{ID: 2, GroupID: browser.NoGroup, LastAccessed: &recent, Active: true},
	}
	table.Bootstrap(tabs, 42)

	held, _ := table.State(1)
	if held.Active {
		t.Fatal("expected holding-group member to be inactive")
	}
	if now.Sub(held.LastAccessed) < 364*24*time.Hour {
		t.Fatalf("expected holding-group member backdated, got %v", held.LastAccessed)
	}

	loose, _ := table.State(2)
	if !loose.LastAccessed.Equal(now) {
		t.Fatalf("expected loose tab seeded from now, got %v", loose.LastAccessed)
	}
	if !loose.Active {
		t.Fatal("expected active tab to stay active")
	}
}

func TestBootstrapReplacesPreviousEntries(t *testing.T) {
	table := tracker.New()
	table.RecordActivation(99)

	table.Bootstrap([]browser.Tab{{ID: 1}}, browser.NoGroup)

	if _, ok := table.State(99); ok {
		t.Fatal("expected stale entry to be dropped by bootstrap")
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 entry after bootstrap, got %d", table.Len())
	}
}
