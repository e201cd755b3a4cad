package engine

import (
	"context"
	"time"

	"tabshelf/internal/events"
	"tabshelf/internal/logging"
)

// StartCountdown arms the grouping countdown with the given threshold. A
// non-positive threshold uses the effective configured value. Restarting an
// already-armed countdown replaces it.
func (e *Engine) StartCountdown(ctx context.Context, minutes int) {
	if minutes <= 0 {
		minutes = e.effectiveThreshold(ctx)
	}

	e.mu.Lock()
	if e.countdown != nil {
		e.countdown.timer.Stop()
		e.countdown = nil
	}
	end := e.now().Add(time.Duration(minutes) * time.Minute)
	cd := &countdownState{minutes: minutes, endTime: end}
	cd.timer = e.timeAft(time.Duration(minutes)*time.Minute, func() {
		e.countdownFired(cd)
	})
	e.countdown = cd
	e.mu.Unlock()

	e.logger.Info("countdown started",
		logging.String(logging.FieldEventType, "countdown_started"),
		logging.Int("minutes", minutes))
	e.publish(events.Event{Kind: events.TimerStarted, Minutes: minutes})
}

// StopCountdown disarms the countdown if one is running and reports whether
// it was.
func (e *Engine) StopCountdown() bool {
	e.mu.Lock()
	cd := e.countdown
	if cd != nil {
		cd.timer.Stop()
		e.countdown = nil
	}
	e.mu.Unlock()

	if cd == nil {
		return false
	}
	e.logger.Info("countdown stopped",
		logging.String(logging.FieldEventType, "countdown_stopped"))
	e.publish(events.Event{Kind: events.Stopped})
	return true
}

// CountdownRunning reports whether a countdown is armed.
func (e *Engine) CountdownRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countdown != nil
}

// countdownFired runs when the armed timer elapses. A countdown restarted in
// the meantime owns a different state value, so a stale firing is dropped.
func (e *Engine) countdownFired(cd *countdownState) {
	e.mu.Lock()
	if e.countdown != cd {
		e.mu.Unlock()
		return
	}
	e.countdown = nil
	ctx := e.timerCtx
	e.mu.Unlock()

	if _, err := e.GroupNow(ctx, cd.minutes); err != nil {
		// GroupNow already published the outcome.
		e.logger.Debug("countdown grouping pass did not consolidate", logging.Error(err))
	}
}

// AutoCheck is the hysteresis control loop tick. With auto grouping enabled,
// a countdown starts once the countable tab population reaches the start
// threshold and stops once it falls below the stop threshold. Between the
// thresholds the current state is left alone.
func (e *Engine) AutoCheck(ctx context.Context) error {
	if !e.effectiveAutoGroup(ctx) {
		if e.StopCountdown() {
			e.logger.Info("auto grouping disabled; countdown stopped")
		}
		return nil
	}

	tabs, err := e.eligibleTabs(ctx)
	if err != nil {
		return err
	}
	count := 0
	for _, tab := range tabs {
		if countable(tab) {
			count++
		}
	}

	running := e.CountdownRunning()
	switch {
	case !running && count >= e.cfg.AutoStartTabs:
		e.logger.Info("tab pressure above start threshold",
			logging.Int("countable", count),
			logging.Int("start_threshold", e.cfg.AutoStartTabs))
		e.StartCountdown(ctx, 0)
	case running && count < e.cfg.AutoStopTabs:
		e.logger.Info("tab pressure below stop threshold",
			logging.Int("countable", count),
			logging.Int("stop_threshold", e.cfg.AutoStopTabs))
		e.StopCountdown()
	}
	return nil
}
