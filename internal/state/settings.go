package state

import (
	"context"
	"strconv"
	"time"

	"tabshelf/internal/browser"
)

const (
	keyHoldingGroupID   = "holding_group_id"
	keyThresholdMinutes = "threshold_minutes"
	keyMinGroupTabs     = "min_group_tabs"
	keyAutoGroup        = "auto_group"
	keyAutoUngroup      = "auto_ungroup"
	keySessionReady     = "session_ready"
	keySessionStart     = "session_start_time"
	keySessionClean     = "session_clean"
	keyLastCloseTime    = "last_close_time"
)

// HoldingGroupID returns the persisted holding group id, if any.
func (s *Store) HoldingGroupID(ctx context.Context) (browser.GroupID, bool, error) {
	raw, ok, err := s.get(ctx, keyHoldingGroupID)
	if err != nil || !ok {
		return browser.NoGroup, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Unreadable value; treat as absent rather than failing startup.
		return browser.NoGroup, false, nil
	}
	return browser.GroupID(id), true, nil
}

// SetHoldingGroupID persists the holding group id.
func (s *Store) SetHoldingGroupID(ctx context.Context, id browser.GroupID) error {
	return s.set(ctx, keyHoldingGroupID, strconv.FormatInt(int64(id), 10))
}

// ClearHoldingGroupID removes the persisted holding group id.
func (s *Store) ClearHoldingGroupID(ctx context.Context) error {
	return s.delete(ctx, keyHoldingGroupID)
}

// ThresholdMinutes returns the persisted threshold override, if any.
func (s *Store) ThresholdMinutes(ctx context.Context) (int, bool, error) {
	return s.intSetting(ctx, keyThresholdMinutes)
}

// SetThresholdMinutes persists a threshold override.
func (s *Store) SetThresholdMinutes(ctx context.Context, minutes int) error {
	return s.set(ctx, keyThresholdMinutes, strconv.Itoa(minutes))
}

// MinGroupTabs returns the persisted candidate floor override, if any.
func (s *Store) MinGroupTabs(ctx context.Context) (int, bool, error) {
	return s.intSetting(ctx, keyMinGroupTabs)
}

// SetMinGroupTabs persists a candidate floor override.
func (s *Store) SetMinGroupTabs(ctx context.Context, count int) error {
	return s.set(ctx, keyMinGroupTabs, strconv.Itoa(count))
}

// AutoGroup returns the persisted auto-group override, if any.
func (s *Store) AutoGroup(ctx context.Context) (bool, bool, error) {
	return s.boolSetting(ctx, keyAutoGroup)
}

// SetAutoGroup persists the auto-group override.
func (s *Store) SetAutoGroup(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyAutoGroup, strconv.FormatBool(enabled))
}

// AutoUngroup returns the persisted auto-ungroup override, if any.
func (s *Store) AutoUngroup(ctx context.Context) (bool, bool, error) {
	return s.boolSetting(ctx, keyAutoUngroup)
}

// SetAutoUngroup persists the auto-ungroup override.
func (s *Store) SetAutoUngroup(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyAutoUngroup, strconv.FormatBool(enabled))
}

// MarkSessionReady records that a session started at the given time.
func (s *Store) MarkSessionReady(ctx context.Context, start time.Time) error {
	if err := s.set(ctx, keySessionReady, "true"); err != nil {
		return err
	}
	if err := s.delete(ctx, keySessionClean); err != nil {
		return err
	}
	return s.set(ctx, keySessionStart, strconv.FormatInt(start.UnixMilli(), 10))
}

// MarkSessionClean records an orderly shutdown at the given time.
func (s *Store) MarkSessionClean(ctx context.Context, closed time.Time) error {
	if err := s.set(ctx, keySessionClean, "true"); err != nil {
		return err
	}
	return s.set(ctx, keyLastCloseTime, strconv.FormatInt(closed.UnixMilli(), 10))
}

// SessionStartTime returns the recorded session start, if any.
func (s *Store) SessionStartTime(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := s.get(ctx, keySessionStart)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}

func (s *Store) intSetting(ctx context.Context, key string) (int, bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return value, true, nil
}

func (s *Store) boolSetting(ctx context.Context, key string) (bool, bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return false, false, err
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, nil
	}
	return value, true, nil
}
