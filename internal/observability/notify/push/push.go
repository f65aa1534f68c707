package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codevox/codevox-go/internal/observability/notify"
)

// Config captures the webhook sink behaviour we need.
type Config struct {
	WebhookURL string
	Source     string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client delivers job outcome notifications to a generic JSON webhook.
type Client struct {
	webhookURL string
	source     string
	retryLimit int
	client     *http.Client
}

// NewClient builds a webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("push webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	source := strings.TrimSpace(cfg.Source)
	if source == "" {
		source = "codevox"
	}

	return &Client{
		webhookURL: webhookURL,
		source:     source,
		retryLimit: retries,
		client:     hc,
	}, nil
}

// SendJobOutcome posts the outcome event to the webhook.
func (c *Client) SendJobOutcome(ctx context.Context, payload notify.JobOutcomePayload) error {
	body, err := json.Marshal(c.formatEvent(payload))
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}

type outcomeEvent struct {
	Source     string            `json:"source"`
	JobID      string            `json:"job_id"`
	UserID     string            `json:"user_id,omitempty"`
	Repo       string            `json:"repo,omitempty"`
	Status     string            `json:"status"`
	CommitSHA  string            `json:"commit_sha,omitempty"`
	PRURL      string            `json:"pr_url,omitempty"`
	LOCDelta   int               `json:"loc_delta,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Severity   string            `json:"severity"`
	OccurredAt string            `json:"occurred_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (c *Client) formatEvent(payload notify.JobOutcomePayload) outcomeEvent {
	timestamp := payload.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	severity := payload.Severity
	if severity == "" {
		severity = notify.SeverityInfo
	}
	return outcomeEvent{
		Source:     c.source,
		JobID:      payload.JobID,
		UserID:     payload.UserID,
		Repo:       payload.Repo,
		Status:     payload.Status,
		CommitSHA:  payload.CommitSHA,
		PRURL:      payload.PRURL,
		LOCDelta:   payload.LOCDelta,
		Notes:      payload.Notes,
		Severity:   severity,
		OccurredAt: timestamp.UTC().Format(time.RFC3339),
		Metadata:   payload.Metadata,
	}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	return drainSuccess(resp)
}

func drainSuccess(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain push response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain push response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("read push error response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read push error response: %w", readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("push webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}
