// Package reaper provides the adapter that runs the stale-job reaper loop.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/observability/statsd"
	"github.com/codevox/codevox-go/internal/service"
)

// Runner wires the reaper service to its repository and runs the sweep loop.
type Runner struct {
	reaper *service.ReaperService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB        *sql.DB
	Callbacks *service.CallbackService
	Config    config.ReaperConfig
	Logger    *slog.Logger

	// Optional dependency injection for testing/decoupling
	Repo    core.ReaperRepository
	Queue   core.QueueInspector
	Metrics statsd.Sink
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	reaper, err := wireReaperService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire reaper service: %w", err)
	}

	return &Runner{
		reaper: reaper,
		logger: opts.Logger,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && opts.Repo == nil {
		return errors.New("database connection is required")
	}
	if opts.Callbacks == nil {
		return errors.New("callback service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// wireReaperService wires up all dependencies for the reaper service.
func wireReaperService(opts RunnerOptions) (*service.ReaperService, error) {
	var repo core.ReaperRepository
	if opts.Repo != nil {
		repo = opts.Repo
	} else {
		// Wire up the repository inline to avoid ireturn linter issue
		repo = data.NewJobRepo(opts.DB, data.RepoConfig{})
	}

	return service.NewReaperService(service.ReaperServiceOptions{
		Repo:      repo,
		Callbacks: opts.Callbacks,
		Config:    opts.Config,
		Queue:     opts.Queue,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reaper runner")
	return r.reaper.Run(ctx)
}
