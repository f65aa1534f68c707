package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityInfo     = "info"
)

// JobOutcomePayload captures the canonical data we emit when a job reaches
// a terminal status. Exactly one outcome notification is dispatched per
// terminal transition; redelivered duplicate reports never reach a sink.
type JobOutcomePayload struct {
	JobID      string
	UserID     string
	Repo       string
	Status     string
	CommitSHA  string
	PRURL      string
	LOCDelta   int
	Notes      string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink describes a destination capable of consuming job outcome notifications.
type Sink interface {
	SendJobOutcome(ctx context.Context, payload JobOutcomePayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload JobOutcomePayload) error

// SendJobOutcome implements the Sink interface.
func (f SinkFunc) SendJobOutcome(ctx context.Context, payload JobOutcomePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
