// Package runner provides the executor pipeline for the codevox system. A
// runner pulls job descriptors from the queue, produces a patch through the
// agent, checks it, and routes the result through the merge-decision engine.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/domain/decision"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
	obserrors "github.com/codevox/codevox-go/internal/observability/errors"
	"github.com/codevox/codevox-go/internal/observability/metrics"
	"github.com/codevox/codevox-go/internal/observability/statsd"
)

// Options configures the executor runner.
type Options struct {
	Queue    core.JobQueue       // Required: job descriptor source
	Repo     core.JobRepository  // Required: job record store
	Agent    core.PatchAgent     // Required: patch generation
	VCS      core.VCSClient      // Required: git operations
	Forge    core.ForgeClient    // Required: pull request API
	Checker  core.Checker        // Required: lint and test execution
	Callback core.CallbackSender // Required: report delivery
	Config   config.RunnerConfig // Required: runner configuration
	Logger   *slog.Logger        // Optional: structured logger
	Metrics  statsd.Sink         // Optional: metric sink
}

// Runner executes jobs pulled from the queue. Each worker owns one job at a
// time: clone, generate, apply, check, decide, push or open a PR, and
// deliver the terminal report through the callback endpoint. The record row
// stays the source of truth; the runner only ever reports.
type Runner struct {
	queue    core.JobQueue
	repo     core.JobRepository
	agent    core.PatchAgent
	vcs      core.VCSClient
	forge    core.ForgeClient
	checker  core.Checker
	callback core.CallbackSender
	config   config.RunnerConfig
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewRunner constructs an executor runner.
func NewRunner(opts Options) (*Runner, error) {
	switch {
	case opts.Queue == nil:
		return nil, errors.New("JobQueue is required")
	case opts.Repo == nil:
		return nil, errors.New("JobRepository is required")
	case opts.Agent == nil:
		return nil, errors.New("PatchAgent is required")
	case opts.VCS == nil:
		return nil, errors.New("VCSClient is required")
	case opts.Forge == nil:
		return nil, errors.New("ForgeClient is required")
	case opts.Checker == nil:
		return nil, errors.New("Checker is required")
	case opts.Callback == nil:
		return nil, errors.New("CallbackSender is required")
	}

	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "runner")

	return &Runner{
		queue:    opts.Queue,
		repo:     opts.Repo,
		agent:    opts.Agent,
		vcs:      opts.VCS,
		forge:    opts.Forge,
		checker:  opts.Checker,
		callback: opts.Callback,
		config:   cfg,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// MustNewRunner constructs an executor runner and panics on error.
func MustNewRunner(opts Options) *Runner {
	r, err := NewRunner(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create Runner: %v", err))
	}
	return r
}

// Run starts worker goroutines and processes jobs until the context is
// cancelled. Returns nil on graceful shutdown.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting runner",
		"workers", r.config.Concurrency,
		"job_timeout", r.config.JobTimeout,
	)

	g, ctx := errgroup.WithContext(ctx)
	for range r.config.Concurrency {
		g.Go(func() error {
			return r.workerLoop(ctx)
		})
	}

	err := g.Wait()
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) workerLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg, err := r.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive: %w", err)
		}
		if msg == nil {
			continue
		}

		r.handleMessage(ctx, msg)
	}
}

// handleMessage validates the delivery and runs the job. Messages that can
// never succeed are dead-lettered; everything else ends in an Ack, with the
// outcome recorded through the callback path first.
func (r *Runner) handleMessage(ctx context.Context, msg *core.Message) {
	desc := &model.JobDescriptor{}
	if err := json.Unmarshal(msg.Payload, desc); err != nil {
		r.logger.WarnContext(ctx, "malformed descriptor dead-lettered", "error", err)
		r.finishMessage(ctx, msg, r.queue.DeadLetter)
		return
	}
	if err := desc.Validate(); err != nil {
		r.logger.WarnContext(ctx, "invalid descriptor dead-lettered", "job_id", desc.JobID, "error", err)
		r.finishMessage(ctx, msg, r.queue.DeadLetter)
		return
	}

	logger := r.logger.With("job_id", desc.JobID)

	job, err := r.repo.GetByID(ctx, desc.JobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			// The descriptor references a row that never existed or was
			// removed; redelivery cannot fix that.
			logger.WarnContext(ctx, "descriptor for unknown job dead-lettered")
			r.finishMessage(ctx, msg, r.queue.DeadLetter)
			return
		}
		logger.ErrorContext(ctx, "load job failed, releasing for redelivery", "error", err)
		r.finishMessage(ctx, msg, r.queue.Release)
		return
	}

	if job.Status.Terminal() {
		// Redelivered after the job already finished; nothing left to do.
		logger.InfoContext(ctx, "job already terminal, acking duplicate delivery", "status", job.Status)
		r.finishMessage(ctx, msg, r.queue.Ack)
		return
	}

	claimed, err := r.repo.MarkRunning(ctx, desc.JobID)
	if err != nil {
		logger.ErrorContext(ctx, "mark running failed, releasing for redelivery", "error", err)
		r.finishMessage(ctx, msg, r.queue.Release)
		return
	}
	if !claimed {
		// The job moved to a terminal status between the read and the claim.
		logger.InfoContext(ctx, "job no longer claimable, acking")
		r.finishMessage(ctx, msg, r.queue.Ack)
		return
	}

	report := r.executeJob(ctx, desc)

	if err := r.callback.Send(ctx, report); err != nil {
		// The report never landed; release so a redelivery retries the job.
		// The record-side dedup absorbs the repeat.
		logger.ErrorContext(ctx, "callback delivery failed, releasing for redelivery",
			"status", report.Status,
			"error", err,
		)
		r.finishMessage(ctx, msg, r.queue.Release)
		return
	}

	logger.InfoContext(ctx, "job executed", "status", report.Status)
	r.finishMessage(ctx, msg, r.queue.Ack)
}

func (r *Runner) finishMessage(ctx context.Context, msg *core.Message, fn func(context.Context, *core.Message) error) {
	if err := fn(ctx, msg); err != nil {
		r.logger.ErrorContext(ctx, "queue finalize failed", "error", err)
	}
}

// executeJob runs the pipeline and always produces a terminal report.
// Infrastructure and agent failures become failed reports; they are results
// of the job, not errors of the runner.
func (r *Runner) executeJob(parent context.Context, desc *model.JobDescriptor) *model.CallbackReport {
	ctx, cancel := context.WithTimeout(parent, r.config.JobTimeout)
	defer cancel()

	start := time.Now()
	report, err := r.runPipeline(ctx, desc)
	if err != nil {
		r.logger.WarnContext(ctx, "job failed",
			"job_id", desc.JobID,
			"error", err,
			"error_class", obserrors.Classify(err),
		)
		report = &model.CallbackReport{
			JobID:  desc.JobID,
			Status: model.JobStatusFailed,
			Notes:  err.Error(),
		}
	}
	report.DurationMS = time.Since(start).Milliseconds()

	metrics.EmitJobLifecycle(r.metrics, metrics.JobMetric{
		Status:   string(report.Status),
		Result:   resultFor(report.Status),
		Duration: time.Since(start),
		Err:      err,
	})

	return report
}

func resultFor(status model.JobStatus) string {
	if status == model.JobStatusFailed {
		return metrics.ResultError
	}
	return metrics.ResultSuccess
}

func (r *Runner) runPipeline(ctx context.Context, desc *model.JobDescriptor) (*model.CallbackReport, error) {
	ws, err := r.cloneWithRetry(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("clone %s@%s: %w", desc.Repo, desc.Branch, err)
	}
	defer r.vcs.Cleanup(ws)

	patch, err := r.agent.Generate(ctx, &core.GeneratePatchRequest{
		JobID:      desc.JobID,
		Repo:       desc.Repo,
		Branch:     desc.Branch,
		TaskText:   desc.TaskText,
		StyleGuide: desc.StyleGuide,
		WorkDir:    ws.Dir,
	})
	if err != nil {
		// Agent failures are never retried here: the agent is not
		// deterministic and a bad task stays bad.
		return nil, fmt.Errorf("generate patch: %w", err)
	}

	stats, err := r.vcs.Apply(ctx, ws, patch.Diff)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	if err := checkPatchSanity(stats); err != nil {
		return nil, err
	}

	lintPassed, err := r.runCheck(ctx, ws, r.checker.Lint)
	if err != nil {
		return nil, fmt.Errorf("run lint: %w", err)
	}
	testsPassed, err := r.runCheck(ctx, ws, r.checker.Test)
	if err != nil {
		return nil, fmt.Errorf("run tests: %w", err)
	}

	outcome := decision.Decide(decision.Input{
		LOCDelta:     stats.LOCDelta,
		FilesTouched: stats.FilesTouched,
		TestsPassed:  testsPassed,
		LintPassed:   lintPassed,
		Heuristics:   desc.Heuristics,
	})
	metrics.EmitDecision(r.metrics, string(outcome.Decision), outcome.Reason)
	r.logger.InfoContext(ctx, "merge decision",
		"job_id", desc.JobID,
		"decision", outcome.Decision,
		"reason", outcome.Reason,
		"loc_delta", stats.LOCDelta,
	)

	report := &model.CallbackReport{
		JobID:        desc.JobID,
		LOCDelta:     stats.LOCDelta,
		FilesTouched: stats.FilesTouched,
		TestsPassed:  &testsPassed,
		LintPassed:   &lintPassed,
		TokIn:        patch.TokIn,
		TokOut:       patch.TokOut,
	}

	if outcome.Decision == decision.DecisionAutoMerge {
		sha, pushErr := r.pushWithRetry(ctx, ws, desc)
		switch {
		case pushErr == nil:
			report.Status = model.JobStatusAutoMerged
			report.CommitSHA = sha
			return report, nil
		case errors.Is(pushErr, core.ErrPushConflict):
			// The target branch moved under us; hand the change to review
			// instead of force-resolving.
			r.logger.InfoContext(ctx, "push conflict, falling back to pull request", "job_id", desc.JobID)
			outcome.Reason = "push_conflict"
		default:
			return nil, fmt.Errorf("push: %w", pushErr)
		}
	}

	prURL, err := r.openPR(ctx, ws, desc, outcome)
	if err != nil {
		return nil, fmt.Errorf("open pull request: %w", err)
	}
	report.Status = model.JobStatusPROpened
	report.PRURL = prURL
	return report, nil
}

// runCheck bounds a single lint or test run with the check timeout.
func (r *Runner) runCheck(parent context.Context, ws *core.Workspace, check func(context.Context, *core.Workspace) (bool, error)) (bool, error) {
	ctx, cancel := context.WithTimeout(parent, r.config.CheckTimeout)
	defer cancel()
	return check(ctx, ws)
}

func (r *Runner) cloneWithRetry(parent context.Context, desc *model.JobDescriptor) (*core.Workspace, error) {
	var lastErr error
	for attempt := 0; attempt <= r.config.InfraRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(parent, time.Duration(attempt)*r.config.RetryBackoff); err != nil {
				return nil, err
			}
		}
		ctx, cancel := context.WithTimeout(parent, r.config.CloneTimeout)
		ws, err := r.vcs.Clone(ctx, desc.Repo, desc.Branch)
		cancel()
		if err == nil {
			return ws, nil
		}
		lastErr = err
		if parent.Err() != nil {
			return nil, parent.Err()
		}
	}
	return nil, lastErr
}

func (r *Runner) pushWithRetry(ctx context.Context, ws *core.Workspace, desc *model.JobDescriptor) (string, error) {
	message := commitMessage(desc)
	var lastErr error
	for attempt := 0; attempt <= r.config.InfraRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*r.config.RetryBackoff); err != nil {
				return "", err
			}
		}
		sha, err := r.vcs.CommitAndPush(ctx, ws, message)
		if err == nil {
			return sha, nil
		}
		if errors.Is(err, core.ErrPushConflict) {
			// Not transient; retrying re-pushes the same non-fast-forward.
			return "", err
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (r *Runner) openPR(ctx context.Context, ws *core.Workspace, desc *model.JobDescriptor, outcome decision.Outcome) (string, error) {
	head := prBranchName(desc.JobID)

	var lastErr error
	for attempt := 0; attempt <= r.config.InfraRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*r.config.RetryBackoff); err != nil {
				return "", err
			}
		}
		if err := r.vcs.PushBranch(ctx, ws, head); err != nil {
			lastErr = fmt.Errorf("push branch %s: %w", head, err)
			continue
		}
		url, err := r.forge.OpenPR(ctx, &core.OpenPRRequest{
			Repo:  desc.Repo,
			Base:  desc.Branch,
			Head:  head,
			Title: prTitle(desc),
			Body:  prBody(desc, outcome),
		})
		if err == nil {
			return url, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func commitMessage(desc *model.JobDescriptor) string {
	title := firstLine(desc.TaskText)
	if len(title) > 72 {
		title = title[:72]
	}
	return title
}

func prBranchName(jobID string) string {
	short := jobID
	if len(short) > 8 {
		short = short[:8]
	}
	return "codevox/job-" + short
}

func prTitle(desc *model.JobDescriptor) string {
	return commitMessage(desc)
}

func prBody(desc *model.JobDescriptor, outcome decision.Outcome) string {
	body := desc.TaskText
	if outcome.Reason != "" && outcome.Reason != decision.ReasonCleanChange {
		detail := outcome.Reason
		if outcome.Detail != "" {
			detail += ": " + outcome.Detail
		}
		body += "\n\nRouted to review: " + detail
	}
	return body
}

// checkPatchSanity rejects patches the agent should never produce: paths
// escaping the working copy, or a nonzero line delta with no files named.
func checkPatchSanity(stats *core.ChangeStats) error {
	for _, file := range stats.FilesTouched {
		clean := path.Clean(file)
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return apperrors.Agentf("patch touches path outside the working copy: %s", file)
		}
	}
	if len(stats.FilesTouched) == 0 && stats.LOCDelta != 0 {
		return apperrors.Agent("patch reports changed lines but no touched files")
	}
	return nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
