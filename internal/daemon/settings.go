package daemon

import (
	"context"
	"fmt"

	"tabshelf/internal/logging"
)

// Settings carries runtime overrides for engine behavior. Nil fields are
// left unchanged. Overrides persist in the state store and win over the
// config file until the store is cleared.
type Settings struct {
	ThresholdMinutes *int
	MinGroupTabs     *int
	AutoGroup        *bool
	AutoUngroup      *bool
}

// Configure applies runtime setting overrides.
func (d *Daemon) Configure(ctx context.Context, settings Settings) error {
	if settings.ThresholdMinutes != nil {
		minutes := *settings.ThresholdMinutes
		if minutes <= 0 {
			return fmt.Errorf("threshold must be positive, got %d", minutes)
		}
		if err := d.store.SetThresholdMinutes(ctx, minutes); err != nil {
			return fmt.Errorf("persist threshold: %w", err)
		}
		d.logger.Info("threshold updated", logging.Int("minutes", minutes))
	}
	if settings.MinGroupTabs != nil {
		count := *settings.MinGroupTabs
		if count < 1 {
			return fmt.Errorf("minimum group size must be at least 1, got %d", count)
		}
		if err := d.store.SetMinGroupTabs(ctx, count); err != nil {
			return fmt.Errorf("persist minimum group size: %w", err)
		}
		d.logger.Info("minimum group size updated", logging.Int("tabs", count))
	}
	if settings.AutoGroup != nil {
		if err := d.store.SetAutoGroup(ctx, *settings.AutoGroup); err != nil {
			return fmt.Errorf("persist auto group: %w", err)
		}
		d.logger.Info("auto grouping updated", logging.Bool("enabled", *settings.AutoGroup))
	}
	if settings.AutoUngroup != nil {
		if err := d.store.SetAutoUngroup(ctx, *settings.AutoUngroup); err != nil {
			return fmt.Errorf("persist auto ungroup: %w", err)
		}
		d.logger.Info("auto ungrouping updated", logging.Bool("enabled", *settings.AutoUngroup))
	}
	return nil
}
