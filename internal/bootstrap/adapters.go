package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/adapters/agent"
	"github.com/codevox/codevox-go/internal/adapters/callbackclient"
	"github.com/codevox/codevox-go/internal/adapters/checks"
	"github.com/codevox/codevox-go/internal/adapters/reaper"
	"github.com/codevox/codevox-go/internal/adapters/runner"
	"github.com/codevox/codevox-go/internal/adapters/vcs"
	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/observability/statsd"
	"github.com/codevox/codevox-go/internal/service"
)

// ExecutorRunnerConfig contains configuration for the executor runner.
type ExecutorRunnerConfig struct {
	Config  *config.AppConfig
	DB      *sql.DB
	Queue   core.JobQueue
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// RunExecutorRunner wires the executor pipeline (agent, git, forge, checks,
// callback delivery) and runs the worker pool until the context is cancelled.
func RunExecutorRunner(ctx context.Context, cfg ExecutorRunnerConfig) error {
	if cfg.Config == nil {
		return errors.New("executor runner requires app config")
	}
	appCfg := cfg.Config

	agentClient, err := agent.NewClient(agent.ClientOptions{Config: appCfg.Agent})
	if err != nil {
		return fmt.Errorf("build agent client: %w", err)
	}

	forge, err := vcs.NewForge(vcs.ForgeOptions{Config: appCfg.VCS})
	if err != nil {
		return fmt.Errorf("build forge client: %w", err)
	}

	sender, err := callbackclient.NewClient(callbackclient.ClientOptions{
		Config: callbackConfig(appCfg),
		Logger: cfg.Logger,
	})
	if err != nil {
		return fmt.Errorf("build callback client: %w", err)
	}

	exec, err := runner.NewRunner(runner.Options{
		Queue: cfg.Queue,
		Repo:  data.NewJobRepo(cfg.DB, data.RepoConfig{}),
		Agent: agentClient,
		VCS: vcs.NewGit(vcs.GitOptions{
			Config:  appCfg.VCS,
			WorkDir: appCfg.Runner.WorkDir,
			Logger:  cfg.Logger,
		}),
		Forge: forge,
		Checker: checks.NewRunner(checks.Options{
			Config: appCfg.Checker,
			Logger: cfg.Logger,
		}),
		Callback: sender,
		Config:   appCfg.Runner,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create executor runner: %w", err)
	}

	return exec.Run(ctx)
}

// callbackConfig resolves the callback endpoint: an explicit URL wins,
// otherwise it is derived from the HTTP base URL.
func callbackConfig(appCfg *config.AppConfig) config.CallbackConfig {
	cbCfg := appCfg.Callback
	if cbCfg.URL == "" {
		cbCfg.URL = strings.TrimRight(appCfg.HTTP.BaseURL, "/") + "/api/v1/callback/runner-status"
	}
	return cbCfg
}

// ReaperRunConfig contains configuration for the reaper.
type ReaperRunConfig struct {
	DB        *sql.DB
	Callbacks *service.CallbackService
	Queue     core.QueueInspector
	Logger    *slog.Logger
	Config    config.ReaperConfig
	Metrics   statsd.Sink
}

// RunReaper starts the reaper service.
func RunReaper(ctx context.Context, cfg ReaperRunConfig) error {
	reaperRunner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:        cfg.DB,
		Callbacks: cfg.Callbacks,
		Queue:     cfg.Queue,
		Config:    cfg.Config,
		Logger:    cfg.Logger,
		Metrics:   cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return reaperRunner.Run(ctx)
}
