package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
	"github.com/codevox/codevox-go/internal/observability/metrics"
	"github.com/codevox/codevox-go/internal/observability/statsd"
)

// ApprovalServiceOptions groups dependencies for ApprovalService.
type ApprovalServiceOptions struct {
	Repo    core.JobRepository // Required: job repository
	Forge   core.ForgeClient   // Required: forge API client
	Logger  *slog.Logger       // Optional: structured logger
	Metrics statsd.Sink        // Optional: metric sink
}

// ApprovalService merges approved pull requests. The merge claim is taken
// in the database before calling the forge, so concurrent approvals of the
// same job collapse to a single merge; the losers observe AlreadyMerged.
// The user was already notified when the PR opened; approval does not
// notify again.
type ApprovalService struct {
	repo    core.JobRepository
	forge   core.ForgeClient
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewApprovalService constructs a new ApprovalService.
func NewApprovalService(opts ApprovalServiceOptions) (*ApprovalService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Forge == nil {
		return nil, errors.New("ForgeClient is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "approval_service")
	}

	return &ApprovalService{
		repo:    opts.Repo,
		forge:   opts.Forge,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// MustNewApprovalService constructs a new ApprovalService and panics on error.
func MustNewApprovalService(opts ApprovalServiceOptions) *ApprovalService {
	svc, err := NewApprovalService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create ApprovalService: %v", err))
	}
	return svc
}

// Approve merges the pull request for a pr_opened job. Approving an
// already-merged job reports AlreadyMerged instead of failing, so clients
// can retry approvals safely.
func (s *ApprovalService) Approve(ctx context.Context, jobID string) (*model.MergeResult, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFoundf("job %s not found", jobID)
		}
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}

	switch job.Status {
	case model.JobStatusMerged:
		return alreadyMergedResult(job), nil
	case model.JobStatusPROpened:
		// proceed to the claim
	default:
		return nil, apperrors.InvalidStatef("job %s is %s, only pr_opened jobs can be approved", jobID, job.Status)
	}

	claimed, err := s.repo.ClaimMerge(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("claim merge for job %s: %w", jobID, err)
	}
	if !claimed {
		// A concurrent approval (or another transition) got there first.
		current, readErr := s.repo.GetByID(ctx, jobID)
		if readErr != nil {
			return nil, fmt.Errorf("reload job %s after lost claim: %w", jobID, readErr)
		}
		if current.Status == model.JobStatusMerged {
			return alreadyMergedResult(current), nil
		}
		return nil, apperrors.InvalidStatef("job %s is %s, only pr_opened jobs can be approved", jobID, current.Status)
	}

	prURL := ""
	if job.PRURL != nil {
		prURL = *job.PRURL
	}

	sha, mergeErr := s.forge.MergePR(ctx, prURL)
	if mergeErr != nil {
		// Give the claim back so a later approval can retry.
		if released, relErr := s.repo.ReleaseMergeClaim(ctx, jobID); relErr != nil || !released {
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "failed to release merge claim after forge error",
					"job_id", jobID,
					"released", released,
					"error", relErr,
				)
			}
		}
		metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
			Status: string(model.JobStatusMerged),
			Result: metrics.ResultError,
			Err:    mergeErr,
		})
		return nil, apperrors.Wrapf(mergeErr, apperrors.ErrCodeInfra, "merge pull request for job %s", jobID)
	}

	if sha != "" {
		if recordErr := s.repo.RecordMergeCommit(ctx, jobID, sha); recordErr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to record merge commit", "job_id", jobID, "error", recordErr)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job merged",
			"job_id", jobID,
			"pr_url", prURL,
			"commit_sha", sha,
		)
	}
	metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
		Status: string(model.JobStatusMerged),
		Result: metrics.ResultSuccess,
	})

	return &model.MergeResult{
		JobID:     jobID,
		Status:    model.JobStatusMerged,
		CommitSHA: sha,
	}, nil
}

func alreadyMergedResult(job *model.JobRecord) *model.MergeResult {
	result := &model.MergeResult{
		JobID:         job.ID,
		Status:        model.JobStatusMerged,
		AlreadyMerged: true,
	}
	if job.CommitSHA != nil {
		result.CommitSHA = *job.CommitSHA
	}
	return result
}
