// Package daemonrun hosts the tabshelfd runtime loop shared by the daemon
// binary and the CLI's foreground mode.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"tabshelf/internal/config"
	"tabshelf/internal/daemon"
	"tabshelf/internal/events"
	"tabshelf/internal/ipc"
	"tabshelf/internal/logging"
	"tabshelf/internal/notifications"
	"tabshelf/internal/state"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the tabshelf daemon runtime loop and blocks until a shutdown
// signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "tabshelf.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.DataDir, "tabshelfd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := state.Open(cfg)
	if err != nil {
		logger.Error("open state store", logging.Error(err))
		return err
	}
	defer store.Close()

	bus := events.NewBus()
	d, err := daemon.New(cfg, store, bus, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	notifier := notifications.NewService(cfg)
	go notifications.RunRelay(signalCtx, bus, notifier, logger)

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and bridge bind address"),
			logging.String(logging.FieldImpact, "the daemon will not manage tabs"),
		)
	}

	<-signalCtx.Done()
	logger.Info("tabshelf daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
