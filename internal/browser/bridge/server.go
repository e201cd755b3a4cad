package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"tabshelf/internal/browser"
	"tabshelf/internal/config"
	"tabshelf/internal/logging"
)

// attachGrace is how long past the poll window an extension is still
// considered attached.
const attachGrace = 5 * time.Second

const commandQueueDepth = 64

// Server is the daemon side of the extension bridge.
type Server struct {
	bind       string
	token      string
	pollWait   time.Duration
	cmdTimeout time.Duration
	logger     *slog.Logger

	// OnEvent receives lifecycle events pushed by the extension. OnAttach
	// fires when an extension starts polling after a detached period. Both
	// must be set before Start.
	OnEvent  func(context.Context, browser.Event)
	OnAttach func(context.Context)

	listener net.Listener
	server   *http.Server
	runCtx   context.Context

	commands chan Command

	mu       sync.Mutex
	pending  map[string]chan Result
	lastPoll time.Time
}

// NewServer builds a bridge server from config. Start must be called before
// the returned server accepts connections.
func NewServer(cfg config.Bridge, logger *slog.Logger) *Server {
	return &Server{
		bind:       strings.TrimSpace(cfg.Bind),
		token:      cfg.Token,
		pollWait:   time.Duration(cfg.PollWaitSeconds) * time.Second,
		cmdTimeout: time.Duration(cfg.CommandTimeoutSeconds) * time.Second,
		logger:     logging.NewComponentLogger(logger, "bridge"),
		commands:   make(chan Command, commandQueueDepth),
		pending:    make(map[string]chan Result),
	}
}

// Start binds the listener and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/commands", authMiddleware(s.token, s.handleCommands))
	mux.HandleFunc("/v1/results", authMiddleware(s.token, s.handleResults))
	mux.HandleFunc("/v1/events", authMiddleware(s.token, s.handleEvents))
	mux.HandleFunc("/v1/healthz", s.handleHealthz)

	s.runCtx = ctx
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		// ReadTimeout must outlast a full long-poll window.
		ReadTimeout:  s.pollWait + 2*attachGrace,
		WriteTimeout: s.pollWait + 2*attachGrace,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("bridge server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("bridge listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listen address, for tests that bind port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Attached reports whether an extension has polled recently enough to be
// considered connected.
func (s *Server) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPoll.IsZero() {
		return false
	}
	return time.Since(s.lastPoll) < s.pollWait+attachGrace
}

func (s *Server) markPoll() (attached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasAttached := !s.lastPoll.IsZero() && time.Since(s.lastPoll) < s.pollWait+attachGrace
	s.lastPoll = time.Now()
	return !wasAttached
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.markPoll() {
		s.logger.Info("extension attached")
		if s.OnAttach != nil {
			go s.OnAttach(s.runCtx)
		}
	}

	wait := s.pollWait
	if raw := strings.TrimSpace(r.URL.Query().Get("wait")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
			requested := time.Duration(secs) * time.Second
			if requested < wait {
				wait = requested
			}
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case cmd := <-s.commands:
		s.writeJSON(w, http.StatusOK, cmd)
	case <-timer.C:
		w.WriteHeader(http.StatusNoContent)
	case <-r.Context().Done():
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var result Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid result payload")
		return
	}

	s.mu.Lock()
	ch, ok := s.pending[result.ID]
	if ok {
		delete(s.pending, result.ID)
	}
	s.mu.Unlock()

	if !ok {
		// The waiter timed out already. Not an extension error.
		s.logger.Debug("dropping result for expired command", logging.String("command_id", result.ID))
		w.WriteHeader(http.StatusGone)
		return
	}
	ch <- result
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var event browser.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	if event.Kind == "" {
		s.writeError(w, http.StatusBadRequest, "event kind required")
		return
	}
	if s.OnEvent != nil {
		s.OnEvent(r.Context(), event)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"attached": s.Attached()})
}

// execute queues one command and blocks until the extension replies, the
// command timeout elapses, or ctx is canceled.
func (s *Server) execute(ctx context.Context, op Op, params any, out any) error {
	if !s.Attached() {
		return browser.ErrNoBrowser
	}

	var raw json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", op, err)
		}
		raw = encoded
	}

	cmd := Command{ID: uuid.NewString(), Op: op, Params: raw}
	ch := make(chan Result, 1)
	s.mu.Lock()
	s.pending[cmd.ID] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, cmd.ID)
		s.mu.Unlock()
	}()

	select {
	case s.commands <- cmd:
	default:
		return fmt.Errorf("%s: bridge command queue full", op)
	}

	timer := time.NewTimer(s.cmdTimeout)
	defer timer.Stop()
	select {
	case result := <-ch:
		return decodeResult(op, result, out)
	case <-timer.C:
		return fmt.Errorf("%s: browser command timed out", op)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decodeResult(op Op, result Result, out any) error {
	if !result.OK {
		switch result.Code {
		case CodeNoTab:
			return browser.ErrNoTab
		case CodeNoGroup:
			return browser.ErrNoGroup
		}
		msg := result.Error
		if msg == "" {
			msg = "unspecified extension error"
		}
		return fmt.Errorf("%s: %s", op, msg)
	}
	if out == nil {
		return nil
	}
	if len(result.Data) == 0 {
		return fmt.Errorf("%s: empty result data", op)
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("decode %s result: %w", op, err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// authMiddleware validates bearer tokens. An empty token disables
// authentication.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if strings.TrimPrefix(auth, "Bearer ") != token {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
