package state_test

import (
	"context"
	"testing"
	"time"

	"tabshelf/internal/browser"
	"tabshelf/internal/state"
	"tabshelf/internal/testsupport"
)

func TestHoldingGroupIDRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.HoldingGroupID(ctx); err != nil {
		t.Fatalf("read empty store: %v", err)
	} else if ok {
		t.Fatal("fresh store should have no holding group id")
	}

	if err := store.SetHoldingGroupID(ctx, 42); err != nil {
		t.Fatalf("SetHoldingGroupID: %v", err)
	}
	id, ok, err := store.HoldingGroupID(ctx)
	if err != nil || !ok {
		t.Fatalf("read back: ok=%v err=%v", ok, err)
	}
	if id != 42 {
		t.Fatalf("got id %d, want 42", id)
	}

	if err := store.ClearHoldingGroupID(ctx); err != nil {
		t.Fatalf("ClearHoldingGroupID: %v", err)
	}
	if _, ok, err := store.HoldingGroupID(ctx); err != nil || ok {
		t.Fatalf("expected cleared id, got ok=%v err=%v", ok, err)
	}
	if id, _, _ := store.HoldingGroupID(ctx); id != browser.NoGroup {
		t.Fatalf("cleared read should report NoGroup, got %d", id)
	}
}

func TestSettingOverrides(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.SetThresholdMinutes(ctx, 45); err != nil {
		t.Fatalf("SetThresholdMinutes: %v", err)
	}
	if err := store.SetMinGroupTabs(ctx, 3); err != nil {
		t.Fatalf("SetMinGroupTabs: %v", err)
	}
	if err := store.SetAutoGroup(ctx, false); err != nil {
		t.Fatalf("SetAutoGroup: %v", err)
	}
	if err := store.SetAutoUngroup(ctx, true); err != nil {
		t.Fatalf("SetAutoUngroup: %v", err)
	}

	if v, ok, err := store.ThresholdMinutes(ctx); err != nil || !ok || v != 45 {
		t.Fatalf("ThresholdMinutes = %d,%v,%v", v, ok, err)
	}
	if v, ok, err := store.MinGroupTabs(ctx); err != nil || !ok || v != 3 {
		t.Fatalf("MinGroupTabs = %d,%v,%v", v, ok, err)
	}
	if v, ok, err := store.AutoGroup(ctx); err != nil || !ok || v {
		t.Fatalf("AutoGroup = %v,%v,%v", v, ok, err)
	}
	if v, ok, err := store.AutoUngroup(ctx); err != nil || !ok || !v {
		t.Fatalf("AutoUngroup = %v,%v,%v", v, ok, err)
	}

	// Overwrites replace, not append.
	if err := store.SetThresholdMinutes(ctx, 60); err != nil {
		t.Fatalf("overwrite threshold: %v", err)
	}
	if v, _, _ := store.ThresholdMinutes(ctx); v != 60 {
		t.Fatalf("threshold after overwrite = %d, want 60", v)
	}
}

func TestSessionLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.SessionStartTime(ctx); err != nil || ok {
		t.Fatalf("fresh store should have no session start, ok=%v err=%v", ok, err)
	}

	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	if err := store.MarkSessionReady(ctx, start); err != nil {
		t.Fatalf("MarkSessionReady: %v", err)
	}

	got, ok, err := store.SessionStartTime(ctx)
	if err != nil || !ok {
		t.Fatalf("SessionStartTime: ok=%v err=%v", ok, err)
	}
	if !got.Equal(start) {
		t.Fatalf("session start %v, want %v", got, start)
	}

	if err := store.MarkSessionClean(ctx, start.Add(time.Hour)); err != nil {
		t.Fatalf("MarkSessionClean: %v", err)
	}
	// Start time survives a clean close; the next ready call replaces it.
	if _, ok, _ := store.SessionStartTime(ctx); !ok {
		t.Fatal("session start should survive a clean close")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := state.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.SetHoldingGroupID(ctx, 7); err != nil {
		t.Fatalf("SetHoldingGroupID: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := state.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	id, ok, err := second.HoldingGroupID(ctx)
	if err != nil || !ok {
		t.Fatalf("read after reopen: ok=%v err=%v", ok, err)
	}
	if id != 7 {
		t.Fatalf("got id %d after reopen, want 7", id)
	}
}
