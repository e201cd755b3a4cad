package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"tabshelf/internal/browser"
	"tabshelf/internal/browser/bridge"
	"tabshelf/internal/config"
	"tabshelf/internal/engine"
	"tabshelf/internal/events"
	"tabshelf/internal/logging"
	"tabshelf/internal/notifications"
	"tabshelf/internal/state"
)

// Daemon coordinates the bridge, engine, and periodic loops, and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *state.Store
	bus    *events.Bus
	bridge *bridge.Server
	engine *engine.Engine

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running          bool
	PID              int
	BridgeAttached   bool
	BridgeAddr       string
	StateDBPath      string
	LockFilePath     string
	Engine           engine.Status
	SessionStartTime string
}

// New constructs a daemon with initialized dependencies. The bridge's event
// and attach hooks are wired to the engine here.
func New(cfg *config.Config, store *state.Store, bus *events.Bus, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	srv := bridge.NewServer(cfg.Bridge, logger)
	eng := engine.New(cfg.Engine, srv.Client(), store, bus, logger)

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		bus:      bus,
		bridge:   srv,
		engine:   eng,
		lockPath: filepath.Join(cfg.Paths.DataDir, "tabshelfd.lock"),
	}
	d.lock = flock.New(d.lockPath)

	srv.OnEvent = func(ctx context.Context, event browser.Event) {
		eng.HandleEvent(ctx, event)
	}
	srv.OnAttach = func(ctx context.Context) {
		if err := eng.Bootstrap(ctx); err != nil {
			d.logger.Error("bootstrap after attach failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the extension bridge connection"))
		}
	}
	return d, nil
}

// Engine exposes the grouping engine for IPC handlers.
func (d *Daemon) Engine() *engine.Engine {
	return d.engine
}

// Events returns the recent engine event ring, oldest first.
func (d *Daemon) Events() []events.Event {
	if d.bus == nil {
		return nil
	}
	return d.bus.Recent()
}

// Start acquires the instance lock, starts the bridge, and launches the
// periodic loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another tabshelf daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.bridge.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.startLoops()
	d.running.Store(true)
	d.logger.Info("tabshelf daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bridge", d.bridge.Addr()))
	return nil
}

// Stop halts the loops, shuts the bridge down, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.bridge.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	d.engine.Shutdown(shutdownCtx)
	cancel()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("tabshelf daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		BridgeAttached: d.bridge.Attached(),
		BridgeAddr:     d.bridge.Addr(),
		StateDBPath:    filepath.Join(d.cfg.Paths.DataDir, "state.db"),
		LockFilePath:   d.lockPath,
		Engine:         d.engine.Status(ctx),
	}
	if start, ok, err := d.store.SessionStartTime(ctx); err == nil && ok {
		status.SessionStartTime = start.Format("2006-01-02 15:04:05")
	}
	return status
}
