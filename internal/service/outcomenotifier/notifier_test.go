package outcomenotifier

import (
	"context"
	"errors"
	"testing"

	"github.com/codevox/codevox-go/internal/observability/notify"
)

func TestServiceNotifyJobOutcome(t *testing.T) {
	ctx := context.Background()

	var received []notify.JobOutcomePayload
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Name: "capture",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.JobOutcomePayload) error {
					received = append(received, payload)
					return nil
				}),
			},
		},
	})

	svc.NotifyJobOutcome(ctx, notify.JobOutcomePayload{
		JobID:  "123",
		Status: "auto_merged",
	})

	if len(received) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(received))
	}
	if received[0].Severity != notify.SeverityInfo {
		t.Fatalf("expected severity to default to info, got %s", received[0].Severity)
	}
}

func TestServiceFailureSeverityDefaultsToCritical(t *testing.T) {
	var received []notify.JobOutcomePayload
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Name: "capture",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.JobOutcomePayload) error {
					received = append(received, payload)
					return nil
				}),
			},
		},
	})

	svc.NotifyJobOutcome(context.Background(), notify.JobOutcomePayload{
		JobID:  "123",
		Status: "failed",
	})

	if len(received) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(received))
	}
	if received[0].Severity != notify.SeverityCritical {
		t.Fatalf("expected failed outcome to escalate severity, got %s", received[0].Severity)
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(Options{})
	if svc.Enabled() {
		t.Fatal("expected Enabled() to be false when no sinks registered")
	}
}

func TestServiceLogsErrors(t *testing.T) {
	// Ensure we don't panic when a sink returns an error.
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Name: "fail",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.JobOutcomePayload) error {
					return errors.New("boom")
				}),
			},
		},
	})

	svc.NotifyJobOutcome(context.Background(), notify.JobOutcomePayload{JobID: "123"})
}
