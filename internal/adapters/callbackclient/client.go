// Package callbackclient delivers executor reports to the callback
// endpoint over HTTP. Delivery is at-least-once; the callback handler
// deduplicates by job and status.
package callbackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
)

const maxErrorBodyBytes = 4 * 1024

// Client posts callback reports to the orchestrator's callback endpoint.
type Client struct {
	url          string
	retryLimit   int
	retryBackoff time.Duration
	client       *http.Client
	logger       *slog.Logger
}

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	Config config.CallbackConfig
	Client *http.Client // Optional: override for tests
	Logger *slog.Logger
}

// NewClient constructs a callback client.
func NewClient(opts ClientOptions) (*Client, error) {
	cfg := opts.Config
	cfg.Sanitize()

	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.Validationf("callback URL is invalid: %q", cfg.URL)
	}

	httpClient := opts.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:          cfg.URL,
		retryLimit:   cfg.RetryLimit,
		retryBackoff: cfg.RetryBackoff,
		client:       httpClient,
		logger:       logger.With("component", "callback_client"),
	}, nil
}

// MustNewClient constructs a callback client and panics on error.
func MustNewClient(opts ClientOptions) *Client {
	client, err := NewClient(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return client
}

// Send delivers a report, retrying transient failures with linear backoff.
// A 409 from the endpoint means a conflicting terminal status is already
// recorded; retrying cannot fix that, so it is surfaced immediately.
func (c *Client) Send(ctx context.Context, report *model.CallbackReport) error {
	if report == nil {
		return apperrors.Validation("callback report is required")
	}

	body, err := json.Marshal(report)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal callback report")
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		if attempt > 0 {
			c.logger.WarnContext(ctx, "retrying callback delivery",
				"job_id", report.JobID,
				"attempt", attempt,
				"error", lastErr,
			)
			if err := sleepCtx(ctx, time.Duration(attempt)*c.retryBackoff); err != nil {
				return err
			}
		}

		retryable, err := c.post(ctx, body)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// post performs one delivery attempt. The bool reports whether the
// failure is worth retrying.
func (c *Client) post(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build callback request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return true, apperrors.Wrap(err, apperrors.ErrCodeInfra, "deliver callback report")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	deliveryErr := apperrors.Infraf("callback endpoint returned %d: %s",
		resp.StatusCode, strings.TrimSpace(string(snippet)))

	// 4xx responses are rejections, not outages.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return false, deliveryErr
	}
	return true, deliveryErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("callback delivery canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

var _ core.CallbackSender = (*Client)(nil)
