package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
	obserrors "github.com/codevox/codevox-go/internal/observability/errors"
	"github.com/codevox/codevox-go/internal/observability/metrics"
	"github.com/codevox/codevox-go/internal/observability/statsd"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo      core.ReaperRepository // Required: reaper repository
	Callbacks *CallbackService      // Required: callback path for failing stale jobs
	Config    config.ReaperConfig   // Required: reaper configuration
	Queue     core.QueueInspector   // Optional: queue depth introspection
	Logger    *slog.Logger          // Optional: structured logger
	Metrics   statsd.Sink           // Optional: metrics sink (StatsD-compatible)
}

// ReaperService fails running jobs whose executor went silent. Stale jobs
// are routed through the callback service as synthetic failure reports, so
// the usual idempotence and single-notification rules apply: a real report
// racing the reaper resolves like any other duplicate.
type ReaperService struct {
	repo      core.ReaperRepository
	callbacks *CallbackService
	config    config.ReaperConfig
	queue     core.QueueInspector
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReaperRepository is required")
	}
	if opts.Callbacks == nil {
		return nil, errors.New("CallbackService is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reaper_service")
		logger.Debug("ReaperService initialized",
			"interval", opts.Config.Interval,
			"running_max_age", opts.Config.RunningMaxAge,
			"batch_size", opts.Config.BatchSize,
		)
	}

	return &ReaperService{
		repo:      opts.Repo,
		callbacks: opts.Callbacks,
		config:    opts.Config,
		queue:     opts.Queue,
		logger:    logger,
		metrics:   opts.Metrics,
	}, nil
}

// MustNewReaperService constructs a new ReaperService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewReaperService(opts ReaperServiceOptions) *ReaperService {
	svc, err := NewReaperService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create ReaperService: %v", err))
	}
	return svc
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	}

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Run a sweep immediately after jitter
	if err := s.runSweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	return s.runLoop(ctx, ticker)
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	// Use modulo on uint64 before converting to avoid overflow
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

// runLoop runs the sweep loop until context is cancelled.
func (s *ReaperService) runLoop(ctx context.Context, ticker *time.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			}
			// Return nil on graceful shutdown to avoid treating it as a failure
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.runSweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
				// Continue running despite errors
			}
		}
	}
}

// runSweep fails stale running jobs and reports queue depths.
func (s *ReaperService) runSweep(ctx context.Context) error {
	start := time.Now()

	count, err := s.failStaleRunningJobs(ctx)
	s.emitSweepMetrics(count, time.Since(start), err)

	s.reportQueueDepths(ctx)

	if err != nil {
		if isContextCancellation(err) {
			return context.Canceled
		}
		return fmt.Errorf("sweep failed: %w", err)
	}
	return nil
}

// failStaleRunningJobs pushes synthetic failure reports for running jobs
// whose executor exceeded the max age. Loops until a batch comes back
// short so large backlogs drain across a single sweep.
func (s *ReaperService) failStaleRunningJobs(ctx context.Context) (int64, error) {
	var totalCount int64
	for {
		ids, err := s.repo.ListStaleRunning(ctx, s.config.RunningMaxAge, s.config.BatchSize)
		if err != nil {
			return totalCount, err
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if reapErr := s.reapJob(ctx, id); reapErr != nil {
				return totalCount, reapErr
			}
			totalCount++
		}

		if len(ids) < s.config.BatchSize {
			break
		}
		// Check context between batches
		if ctx.Err() != nil {
			return totalCount, ctx.Err()
		}
	}

	if totalCount > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "failed stale running jobs",
			"count", totalCount,
			"max_age", s.config.RunningMaxAge,
		)
	}

	return totalCount, nil
}

// reapJob applies a synthetic failure report for one stale job. A lost
// race against a real executor report is fine: the callback service turns
// it into a duplicate or conflict, neither of which should stop the sweep.
func (s *ReaperService) reapJob(ctx context.Context, id string) error {
	report := &model.CallbackReport{
		JobID:  id,
		Status: model.JobStatusFailed,
		Notes:  fmt.Sprintf("reaped: no executor report within %s", s.config.RunningMaxAge),
	}

	_, err := s.callbacks.Apply(ctx, report)
	if err == nil {
		return nil
	}
	if apperrors.IsConflict(err) || apperrors.IsNotFound(err) {
		if s.logger != nil {
			s.logger.DebugContext(ctx, "stale job resolved before reap", "job_id", id, "error", err)
		}
		return nil
	}
	return fmt.Errorf("reap job %s: %w", id, err)
}

func (s *ReaperService) reportQueueDepths(ctx context.Context) {
	if s.queue == nil {
		return
	}

	depths, err := s.queue.Depths(ctx)
	if err != nil {
		if s.logger != nil && !isContextCancellation(err) {
			s.logger.WarnContext(ctx, "failed to read queue depths", "error", err)
		}
		return
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "queue depths",
			"pending", depths.Pending,
			"processing", depths.Processing,
			"inflight", depths.Inflight,
			"dead", depths.Dead,
		)
	}
	metrics.EmitQueueDepth(s.metrics, "pending", depths.Pending)
	metrics.EmitQueueDepth(s.metrics, "processing", depths.Processing)
	metrics.EmitQueueDepth(s.metrics, "inflight", depths.Inflight)
	metrics.EmitQueueDepth(s.metrics, "dead", depths.Dead)
}

func (s *ReaperService) emitSweepMetrics(count int64, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case count == 0:
		result = metrics.ResultNoop
	}

	tags := map[string]string{
		"result": result,
	}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	s.metrics.Count("reaper.sweep", 1, tags)

	if elapsed > 0 {
		s.metrics.Timing("reaper.sweep_duration", elapsed, metrics.CloneTags(tags))
	}
	if err == nil && count > 0 {
		s.metrics.Count("reaper.jobs_failed", count, metrics.CloneTags(tags))
	}
	if err == nil {
		s.metrics.Gauge("reaper.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func (s *ReaperService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
