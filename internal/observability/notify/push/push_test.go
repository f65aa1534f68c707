package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codevox/codevox-go/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatEventIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.example.com/codevox",
		Source:     "codevox-staging",
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occurred := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := client.formatEvent(notify.JobOutcomePayload{
		JobID:      "123",
		UserID:     "user-1",
		Repo:       "https://git.example.com/acme/api.git",
		Status:     "auto_merged",
		CommitSHA:  "a1b2c3d",
		LOCDelta:   12,
		OccurredAt: occurred,
	})

	if event.Source != "codevox-staging" {
		t.Fatalf("expected source to be preserved, got %q", event.Source)
	}
	if event.Status != "auto_merged" {
		t.Fatalf("expected status, got %q", event.Status)
	}
	if event.Severity != notify.SeverityInfo {
		t.Fatalf("expected default severity, got %q", event.Severity)
	}
	if event.OccurredAt != "2025-06-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", event.OccurredAt)
	}
}

func TestFormatEventDefaultsTimestamp(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.example.com/codevox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event := client.formatEvent(notify.JobOutcomePayload{JobID: "123", Status: "failed"})
	if event.OccurredAt == "" {
		t.Fatal("expected a timestamp for zero OccurredAt")
	}
}

func TestSendJobOutcomePostsJSON(t *testing.T) {
	var got outcomeEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sendErr := client.SendJobOutcome(context.Background(), notify.JobOutcomePayload{
		JobID:  "job-1",
		Status: "pr_opened",
		PRURL:  "https://forge.example.com/acme/api/pulls/7",
	})
	if sendErr != nil {
		t.Fatalf("unexpected send error: %v", sendErr)
	}

	if got.JobID != "job-1" || got.PRURL != "https://forge.example.com/acme/api/pulls/7" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestSendJobOutcomeRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sendErr := client.SendJobOutcome(context.Background(), notify.JobOutcomePayload{JobID: "job-1", Status: "failed"})
	if sendErr != nil {
		t.Fatalf("unexpected send error: %v", sendErr)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestSendJobOutcomeSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sendErr := client.SendJobOutcome(context.Background(), notify.JobOutcomePayload{JobID: "job-1", Status: "failed"})
	if sendErr == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
