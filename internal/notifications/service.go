package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tabshelf/internal/config"
)

const userAgent = "Tabshelf-Go/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyGroupingComplete(ctx context.Context, grouped int) error
	NotifyCountdownStarted(ctx context.Context, minutes int) error
	NotifyError(ctx context.Context, message string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		grouping: cfg.Notifications.Grouping,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	grouping bool
	errors   bool
}

func (n *ntfyService) NotifyGroupingComplete(ctx context.Context, grouped int) error {
	if !n.grouping {
		return nil
	}
	noun := "tabs"
	if grouped == 1 {
		noun = "tab"
	}
	data := payload{
		title:   "Tabshelf - Tabs Shelved",
		message: fmt.Sprintf("Moved %d inactive %s to the holding group", grouped, noun),
		tags:    []string{"tabshelf", "grouping", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCountdownStarted(ctx context.Context, minutes int) error {
	if !n.grouping {
		return nil
	}
	data := payload{
		title:   "Tabshelf - Countdown Started",
		message: fmt.Sprintf("Inactive tabs will be shelved in %d minutes", minutes),
		tags:    []string{"tabshelf", "countdown", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, message string) error {
	if !n.errors {
		return nil
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown"
	}
	data := payload{
		title:    "Tabshelf - Error",
		message:  fmt.Sprintf("Error: %s", message),
		tags:     []string{"tabshelf", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Tabshelf - Test",
		message:  "Notification system test",
		tags:     []string{"tabshelf", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyGroupingComplete(context.Context, int) error { return nil }
func (noopService) NotifyCountdownStarted(context.Context, int) error { return nil }
func (noopService) NotifyError(context.Context, string) error         { return nil }
func (noopService) TestNotification(context.Context) error            { return nil }
