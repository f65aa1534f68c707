package outcomenotifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/codevox/codevox-go/internal/domain/model"
	"github.com/codevox/codevox-go/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the outcome notifier service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
}

// Service dispatches job outcome events to all registered sinks. Callers
// invoke it at most once per terminal transition; delivery failures are
// logged and never propagate into the job lifecycle.
type Service struct {
	logger *slog.Logger
	sinks  []SinkRegistration
}

// NewService constructs an outcome notifier.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "outcome_notifier")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{
			Name: name,
			Sink: entry.Sink,
		})
	}

	return &Service{
		logger: logger,
		sinks:  sinks,
	}
}

// NotifyJobOutcome fans the outcome payload out to all sinks.
func (s *Service) NotifyJobOutcome(ctx context.Context, payload notify.JobOutcomePayload) {
	if len(s.sinks) == 0 {
		return
	}

	if payload.Severity == "" {
		if payload.Status == string(model.JobStatusFailed) {
			payload.Severity = notify.SeverityCritical
		} else {
			payload.Severity = notify.SeverityInfo
		}
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendJobOutcome(ctx, payload); err != nil {
				s.logger.Error("outcome notifier delivery error",
					"sink", entry.Name,
					"job_id", payload.JobID,
					"status", payload.Status,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

// Enabled reports whether the notifier has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}
