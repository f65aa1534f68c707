// Package checks runs the configured lint and test commands inside a job
// working copy. The command's exit status is the verdict; only failures to
// run the command at all surface as errors.
package checks

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
)

// Runner implements core.Checker by shelling out to the configured
// commands with the workspace as the working directory.
type Runner struct {
	config config.CheckerConfig
	logger *slog.Logger
}

// Options configures the check runner.
type Options struct {
	Config config.CheckerConfig
	Logger *slog.Logger
}

// NewRunner constructs a check runner.
func NewRunner(opts Options) *Runner {
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		config: cfg,
		logger: logger.With("component", "checks"),
	}
}

// Lint runs the lint command and reports its verdict.
func (r *Runner) Lint(ctx context.Context, ws *core.Workspace) (bool, error) {
	return r.run(ctx, ws, "lint", r.config.LintCommand)
}

// Test runs the test command and reports its verdict.
func (r *Runner) Test(ctx context.Context, ws *core.Workspace) (bool, error) {
	return r.run(ctx, ws, "test", r.config.TestCommand)
}

func (r *Runner) run(ctx context.Context, ws *core.Workspace, label, command string) (bool, error) {
	if ws == nil || ws.Dir == "" {
		return false, errors.New("workspace is required")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = ws.Dir

	output, err := cmd.CombinedOutput()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		// Nonzero exit is the verdict, not an infrastructure problem.
		r.logger.InfoContext(ctx, "check failed",
			"check", label,
			"exit_code", exitErr.ExitCode(),
			"output_bytes", len(output),
		)
		return false, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, err
}

var _ core.Checker = (*Runner)(nil)
