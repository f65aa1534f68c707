package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
	"github.com/codevox/codevox-go/internal/observability/metrics"
	"github.com/codevox/codevox-go/internal/observability/statsd"
)

// IntakeServiceOptions groups dependencies for IntakeService.
type IntakeServiceOptions struct {
	Repo    core.JobRepository // Required: job repository
	Queue   core.JobQueue      // Required: job queue
	Logger  *slog.Logger       // Optional: structured logger
	Metrics statsd.Sink        // Optional: metric sink
}

// IntakeService accepts job submissions: it persists the pending record,
// then enqueues a descriptor for an executor to pick up.
type IntakeService struct {
	repo    core.JobRepository
	queue   core.JobQueue
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewIntakeService constructs a new IntakeService.
func NewIntakeService(opts IntakeServiceOptions) (*IntakeService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Queue == nil {
		return nil, errors.New("JobQueue is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "intake_service")
	}

	return &IntakeService{
		repo:    opts.Repo,
		queue:   opts.Queue,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// MustNewIntakeService constructs a new IntakeService and panics on error.
func MustNewIntakeService(opts IntakeServiceOptions) *IntakeService {
	svc, err := NewIntakeService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create IntakeService: %v", err))
	}
	return svc
}

// Submit validates and persists a new job, then enqueues it. A client
// supplying its own job_id gets a conflict if that id already exists; the
// record is the dedup point, the queue tolerates duplicates.
func (s *IntakeService) Submit(ctx context.Context, req *model.SubmitJobRequest) (*model.JobRecord, error) {
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid job submission")
	}

	job, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	desc := &model.JobDescriptor{
		JobID:      job.ID,
		UserID:     job.UserID,
		Repo:       job.Repo,
		Branch:     job.Branch,
		TaskText:   job.TaskText,
		StyleGuide: job.StyleGuide,
		Heuristics: job.Heuristics,
	}
	if enqueueErr := s.queue.Enqueue(ctx, desc); enqueueErr != nil {
		// The pending record stays; a resubmission with the same job_id
		// will conflict, so surface the failure loudly.
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to enqueue job after create",
				"job_id", job.ID,
				"error", enqueueErr,
			)
		}
		return nil, apperrors.Wrapf(enqueueErr, apperrors.ErrCodeInfra, "enqueue job %s", job.ID)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job submitted",
			"job_id", job.ID,
			"user_id", job.UserID,
			"repo", job.Repo,
		)
	}
	metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
		Status: string(model.JobStatusPending),
		Result: metrics.ResultSuccess,
	})

	return job, nil
}
