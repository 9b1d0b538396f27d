package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shoebox/internal/config"
)

const userAgent = "Shoebox/0.1.0"

// RunSummary carries the counters reported when a run finishes.
type RunSummary struct {
	InputRoot  string
	OutputRoot string
	Processed  int
	Duplicates int
	Failures   int
	DryRun     bool
	Duration   time.Duration
}

// Service defines the notification surface exposed to organizer components.
type Service interface {
	NotifyRunCompleted(ctx context.Context, summary RunSummary) error
	NotifyRunFailed(ctx context.Context, inputRoot string, runErr error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	endpoint := EndpointFor(cfg.Notifications.NtfyTopic)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:     endpoint,
		client:       client,
		runSummaries: cfg.Notifications.RunSummary,
		errors:       cfg.Notifications.Errors,
	}
}

// EndpointFor resolves a configured topic to the URL notifications are posted
// to. A bare topic name publishes through ntfy.sh; anything carrying a scheme
// is used as the endpoint directly.
func EndpointFor(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ""
	}
	if strings.Contains(topic, "://") {
		return topic
	}
	return "https://ntfy.sh/" + topic
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	runSummaries bool
	errors       bool
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, summary RunSummary) error {
	if !n.runSummaries {
		return nil
	}

	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if summary.Failures == 0 {
		title = "Shoebox - Run Complete"
		message = fmt.Sprintf("Organized %d files in %s", summary.Processed, durationText)
	} else {
		title = "Shoebox - Run Complete (with errors)"
		message = fmt.Sprintf("Organized %d files, %d failed in %s", summary.Processed, summary.Failures, durationText)
	}
	if summary.Duplicates > 0 {
		message = fmt.Sprintf("%s (%d duplicates)", message, summary.Duplicates)
	}
	if summary.DryRun {
		message = fmt.Sprintf("%s [dry run]", message)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"shoebox", "run", "completed"},
	}
	if summary.Failures > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, inputRoot string, runErr error) error {
	if !n.errors {
		return nil
	}

	var builder strings.Builder
	builder.WriteString("Run failed")
	if inputRoot = strings.TrimSpace(inputRoot); inputRoot != "" {
		builder.WriteString(" for ")
		builder.WriteString(inputRoot)
	}
	builder.WriteString(": ")
	if runErr != nil {
		builder.WriteString(strings.TrimSpace(runErr.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Shoebox - Run Failed",
		message:  builder.String(),
		tags:     []string{"shoebox", "run", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Shoebox - Test",
		message:  "Notification system test",
		tags:     []string{"shoebox", "test"},
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

func (noopService) NotifyRunCompleted(context.Context, RunSummary) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
