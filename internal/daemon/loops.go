package daemon

import (
	"context"
	"time"

	"tabshelf/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// startLoops launches the periodic workers. Each loop runs until the daemon
// context is canceled and skips its work while no extension is attached.
func (d *Daemon) startLoops() {
	check := time.Duration(d.cfg.Engine.CheckIntervalSeconds) * time.Second
	reconcile := time.Duration(d.cfg.Engine.ReconcileIntervalSeconds) * time.Second
	drain := time.Duration(d.cfg.Engine.ReleasePollSeconds) * time.Second

	d.runLoop("auto-check", check, func(ctx context.Context) {
		if err := d.engine.AutoCheck(ctx); err != nil {
			d.logger.Warn("auto check failed", logging.Error(err))
		}
	})
	d.runLoop("reconcile", reconcile, func(ctx context.Context) {
		if _, err := d.engine.Reconcile(ctx); err != nil {
			d.logger.Warn("reconcile failed", logging.Error(err))
		}
	})
	d.runLoop("release-drain", drain, func(ctx context.Context) {
		if err := d.engine.DrainReleases(ctx); err != nil {
			d.logger.Warn("release drain failed", logging.Error(err))
		}
	})
}

func (d *Daemon) runLoop(name string, interval time.Duration, tick func(context.Context)) {
	ctx := d.ctx
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if !d.bridge.Attached() {
				continue
			}
			tick(ctx)
		}
	}()
	d.logger.Debug("loop started",
		logging.String("loop", name),
		logging.Duration("interval", interval))
}
