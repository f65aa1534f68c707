package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
	"github.com/codevox/codevox-go/internal/observability/metrics"
	"github.com/codevox/codevox-go/internal/observability/notify"
	"github.com/codevox/codevox-go/internal/observability/statsd"
	"github.com/codevox/codevox-go/internal/service/outcomenotifier"
)

// casAttempts bounds the read/compare/swap loop in Apply. One retry covers
// the race where a concurrent report lands between our read and our write.
const casAttempts = 3

// CallbackServiceOptions groups dependencies for CallbackService.
type CallbackServiceOptions struct {
	Repo     core.JobRepository       // Required: job repository
	Logger   *slog.Logger             // Optional: structured logger
	Notifier *outcomenotifier.Service // Optional: outcome notification fan-out
	Metrics  statsd.Sink              // Optional: metric sink
}

// CallbackService applies executor reports to job records. Reports arrive
// at-least-once, possibly duplicated and possibly conflicting; Apply makes
// the outcome idempotent and dispatches at most one notification per
// terminal transition.
type CallbackService struct {
	repo     core.JobRepository
	logger   *slog.Logger
	notifier *outcomenotifier.Service
	metrics  statsd.Sink
}

// NewCallbackService constructs a new CallbackService.
func NewCallbackService(opts CallbackServiceOptions) (*CallbackService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "callback_service")
	}

	return &CallbackService{
		repo:     opts.Repo,
		logger:   logger,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
	}, nil
}

// MustNewCallbackService constructs a new CallbackService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewCallbackService(opts CallbackServiceOptions) *CallbackService {
	svc, err := NewCallbackService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create CallbackService: %v", err))
	}
	return svc
}

// Apply processes an executor report. The returned record reflects the
// stored state after processing:
//   - a duplicate of the stored terminal status is a no-op;
//   - a different terminal status than the stored one is a conflict, logged
//     and rejected without touching the record;
//   - otherwise the record transitions to the report's status, and exactly
//     one outcome notification is dispatched for the transition.
func (s *CallbackService) Apply(ctx context.Context, report *model.CallbackReport) (*model.JobRecord, error) {
	if report == nil {
		return nil, apperrors.Validation("report is required")
	}
	if err := report.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid callback report")
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		job, err := s.repo.GetByID(ctx, report.JobID)
		if err != nil {
			if errors.Is(err, data.ErrJobNotFound) {
				return nil, apperrors.NotFoundf("job %s not found", report.JobID)
			}
			return nil, fmt.Errorf("load job %s: %w", report.JobID, err)
		}

		if job.Status == report.Status {
			// Redelivered duplicate; the first report already won.
			if s.logger != nil {
				s.logger.InfoContext(ctx, "duplicate callback ignored",
					"job_id", job.ID,
					"status", job.Status,
				)
			}
			metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
				Status: string(report.Status),
				Result: metrics.ResultNoop,
			})
			return job, nil
		}

		if job.Status.Terminal() {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "conflicting callback for terminal job",
					"job_id", job.ID,
					"stored_status", job.Status,
					"reported_status", report.Status,
				)
			}
			return nil, apperrors.Conflictf(
				"job %s already %s, conflicting report %s rejected",
				job.ID, job.Status, report.Status,
			)
		}

		won, err := s.repo.ApplyReport(ctx, report, job.Status)
		if err != nil {
			return nil, fmt.Errorf("apply report for job %s: %w", job.ID, err)
		}
		if !won {
			// Someone moved the job between our read and write; re-read and
			// re-evaluate so duplicates and conflicts resolve correctly.
			continue
		}

		updated, err := s.repo.GetByID(ctx, job.ID)
		if err != nil {
			// The write landed; degrade to the pre-write record with the
			// reported status rather than failing the callback.
			if s.logger != nil {
				s.logger.WarnContext(ctx, "failed to reload job after report", "job_id", job.ID, "error", err)
			}
			degraded := *job
			degraded.Status = report.Status
			updated = &degraded
		}

		if s.logger != nil {
			s.logger.InfoContext(ctx, "callback applied",
				"job_id", job.ID,
				"from", job.Status,
				"to", report.Status,
			)
		}
		metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
			Status:   string(report.Status),
			Result:   metrics.ResultSuccess,
			Duration: time.Duration(report.DurationMS) * time.Millisecond,
		})
		s.notifyOutcome(ctx, updated, report)

		return updated, nil
	}

	return nil, apperrors.Conflictf("job %s status kept changing, report %s rejected", report.JobID, report.Status)
}

func (s *CallbackService) notifyOutcome(ctx context.Context, job *model.JobRecord, report *model.CallbackReport) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return
	}

	payload := notify.JobOutcomePayload{
		JobID:      job.ID,
		UserID:     job.UserID,
		Repo:       job.Repo,
		Status:     string(report.Status),
		CommitSHA:  report.CommitSHA,
		PRURL:      report.PRURL,
		LOCDelta:   report.LOCDelta,
		Notes:      report.Notes,
		OccurredAt: time.Now(),
	}
	s.notifier.NotifyJobOutcome(ctx, payload)
}
