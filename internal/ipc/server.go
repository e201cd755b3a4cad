package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"tabshelf/internal/daemon"
	"tabshelf/internal/engine"
	"tabshelf/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Tabshelf", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun tabshelf daemon stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.BridgeAttached = status.BridgeAttached
	resp.BridgeAddr = status.BridgeAddr
	resp.StateDBPath = status.StateDBPath
	resp.LockPath = status.LockFilePath
	resp.SessionStartTime = status.SessionStartTime

	eng := status.Engine
	resp.CountdownRunning = eng.Running
	if eng.CountdownEnd != nil {
		resp.CountdownEnd = eng.CountdownEnd.Format(time.RFC3339)
	}
	resp.ThresholdMinutes = eng.ThresholdMinutes
	resp.MinGroupTabs = eng.MinGroupTabs
	resp.AutoGroup = eng.AutoGroup
	resp.AutoUngroup = eng.AutoUngroup
	resp.GroupingInFlight = eng.GroupingInFlight
	resp.TrackedTabs = eng.TrackedTabs
	resp.QueuedReleases = eng.QueuedReleases
	if eng.HoldingGroupID != nil {
		id := int64(*eng.HoldingGroupID)
		resp.HoldingGroupID = &id
	}
	return nil
}

func (s *service) GroupNow(req GroupNowRequest, resp *GroupNowResponse) error {
	count, err := s.daemon.Engine().GroupNow(s.ctx, req.Minutes)
	if err != nil {
		var notEnough engine.NotEnoughTabsError
		switch {
		case errors.Is(err, engine.ErrGroupingInFlight):
			resp.Message = "grouping already in progress"
		case errors.As(err, &notEnough):
			resp.Message = notEnough.Error()
		default:
			resp.Message = err.Error()
		}
		return nil
	}
	resp.Grouped = true
	resp.Count = count
	resp.Message = fmt.Sprintf("grouped %d tabs", count)
	return nil
}

func (s *service) StartCountdown(req StartCountdownRequest, resp *StartCountdownResponse) error {
	s.daemon.Engine().StartCountdown(s.ctx, req.Minutes)
	minutes := req.Minutes
	if minutes <= 0 {
		minutes = s.daemon.Engine().Status(s.ctx).ThresholdMinutes
	}
	resp.Minutes = minutes
	return nil
}

func (s *service) StopCountdown(_ StopCountdownRequest, resp *StopCountdownResponse) error {
	resp.WasRunning = s.daemon.Engine().StopCountdown()
	return nil
}

func (s *service) Reset(_ ResetRequest, resp *ResetResponse) error {
	s.log().Info("engine reset requested",
		logging.String(logging.FieldEventType, "force_reset"))
	if err := s.daemon.Engine().ForceReset(s.ctx); err != nil {
		resp.Message = err.Error()
		return nil
	}
	resp.Message = "engine state reset"
	return nil
}

func (s *service) Events(_ EventsRequest, resp *EventsResponse) error {
	resp.Events = s.daemon.Events()
	return nil
}

func (s *service) Tabs(_ TabsRequest, resp *TabsResponse) error {
	tabs, err := s.daemon.Engine().ListTabs(s.ctx)
	if err != nil {
		return err
	}
	resp.Tabs = tabs
	return nil
}

func (s *service) Configure(req ConfigureRequest, resp *ConfigureResponse) error {
	err := s.daemon.Configure(s.ctx, daemon.Settings{
		ThresholdMinutes: req.ThresholdMinutes,
		MinGroupTabs:     req.MinGroupTabs,
		AutoGroup:        req.AutoGroup,
		AutoUngroup:      req.AutoUngroup,
	})
	if err != nil {
		return err
	}
	resp.Message = "settings updated"
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	if err != nil {
		s.log().Warn("test notification failed", logging.Error(err))
		if resp.Message == "" {
			resp.Message = err.Error()
		}
	}
	return nil
}
