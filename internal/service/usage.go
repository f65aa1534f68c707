package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
)

// UsageServiceOptions groups dependencies for UsageService.
type UsageServiceOptions struct {
	Repo   core.JobRepository // Required: job repository
	Logger *slog.Logger       // Optional: structured logger
}

// UsageService serves read-only job lookups, per-user usage accounting,
// and fleet-wide status counts.
type UsageService struct {
	repo   core.JobRepository
	logger *slog.Logger
}

// NewUsageService constructs a new UsageService.
func NewUsageService(opts UsageServiceOptions) (*UsageService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "usage_service")
	}

	return &UsageService{
		repo:   opts.Repo,
		logger: logger,
	}, nil
}

// MustNewUsageService constructs a new UsageService and panics on error.
func MustNewUsageService(opts UsageServiceOptions) *UsageService {
	svc, err := NewUsageService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create UsageService: %v", err))
	}
	return svc
}

// GetJob returns the stored record for a job.
func (s *UsageService) GetJob(ctx context.Context, id string) (*model.JobRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.Validation("job id is required")
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// Usage aggregates token and outcome accounting for a user.
func (s *UsageService) Usage(ctx context.Context, userID string) (*model.UsageSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.Validation("user id is required")
	}

	summary, err := s.repo.AggregateUsage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage for user %s: %w", userID, err)
	}
	return summary, nil
}

// Stats returns counts of jobs per lifecycle status.
func (s *UsageService) Stats(ctx context.Context) (*model.JobStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get job stats: %w", err)
	}
	return stats, nil
}
