package notifications

import (
	"context"

	"log/slog"

	"tabshelf/internal/events"
	"tabshelf/internal/logging"
)

// RunRelay forwards bus events to the notification service until ctx is
// canceled. Delivery failures are logged, never propagated; a down ntfy
// endpoint must not affect the engine.
func RunRelay(ctx context.Context, bus *events.Bus, svc Service, logger *slog.Logger) {
	if bus == nil || svc == nil {
		return
	}
	log := logging.NewComponentLogger(logger, "notifications")
	ch, cancel := bus.Subscribe(16)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			var err error
			switch event.Kind {
			case events.TimerStarted:
				err = svc.NotifyCountdownStarted(ctx, event.Minutes)
			case events.GroupingComplete:
				err = svc.NotifyGroupingComplete(ctx, event.Grouped)
			case events.Error:
				err = svc.NotifyError(ctx, event.Message)
			}
			if err != nil {
				log.Warn("notification delivery failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, string(event.Kind)))
			}
		}
	}
}
