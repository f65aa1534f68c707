package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codevox/codevox-go/config"
	redisqueue "github.com/codevox/codevox-go/internal/adapters/redis"
	"github.com/codevox/codevox-go/internal/adapters/vcs"
	"github.com/codevox/codevox-go/internal/data"
	"github.com/codevox/codevox-go/internal/observability/notify/push"
	"github.com/codevox/codevox-go/internal/observability/statsd"
	"github.com/codevox/codevox-go/internal/service"
	"github.com/codevox/codevox-go/internal/service/outcomenotifier"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Intake        *service.IntakeService
	Callbacks     *service.CallbackService
	Approvals     *service.ApprovalService
	Usage         *service.UsageService
	Queue         *redisqueue.Queue
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	Notifier       *outcomenotifier.Service
	NotifierConfig config.ObservabilityNotificationsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "codevox",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:    metricsSink,
		MetricsConfig:  cfg.Metrics,
		Notifier:       buildOutcomeNotifier(obsLogger, cfg.Notifications),
		NotifierConfig: cfg.Notifications,
	}
}

func buildOutcomeNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *outcomenotifier.Service {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	if !cfg.Enabled {
		return outcomenotifier.NewService(outcomenotifier.Options{
			Logger: baseLogger.With("component", "outcome_notifier"),
		})
	}

	sinks := make([]outcomenotifier.SinkRegistration, 0, 1)

	if cfg.Push.Enabled {
		client, err := push.NewClient(push.Config{
			WebhookURL: cfg.Push.WebhookURL,
			Source:     cfg.Push.Source,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise push notifier", "error", err)
		} else {
			sinks = append(sinks, outcomenotifier.SinkRegistration{
				Name: "push",
				Sink: client,
			})
		}
	}

	return outcomenotifier.NewService(outcomenotifier.Options{
		Logger: baseLogger.With("component", "outcome_notifier"),
		Sinks:  sinks,
	})
}

// NewServices wires the domain services over their storage and transport
// adapters.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := buildObservability(logger, appCfg.Observability)

	jobRepo := data.NewJobRepo(deps.DB, data.RepoConfig{})
	queue := redisqueue.NewQueue(redisqueue.QueueOptions{
		Client: deps.RedisClient,
		Config: appCfg.Queue,
		Logger: logger,
	})

	forge, err := vcs.NewForge(vcs.ForgeOptions{Config: appCfg.VCS})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build forge client: %w", err)
	}

	intake, err := service.NewIntakeService(service.IntakeServiceOptions{
		Repo:    jobRepo,
		Queue:   queue,
		Logger:  logger,
		Metrics: observability.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build intake service: %w", err)
	}

	callbacks, err := service.NewCallbackService(service.CallbackServiceOptions{
		Repo:     jobRepo,
		Logger:   logger,
		Notifier: observability.Notifier,
		Metrics:  observability.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build callback service: %w", err)
	}

	approvals, err := service.NewApprovalService(service.ApprovalServiceOptions{
		Repo:    jobRepo,
		Forge:   forge,
		Logger:  logger,
		Metrics: observability.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build approval service: %w", err)
	}

	usage, err := service.NewUsageService(service.UsageServiceOptions{
		Repo:   jobRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build usage service: %w", err)
	}

	return ServiceContainer{
		Intake:        intake,
		Callbacks:     callbacks,
		Approvals:     approvals,
		Usage:         usage,
		Queue:         queue,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name,
					"error", errMsg,
				)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newExecutorBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeRunner,
		name: "executor runner",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			return RunExecutorRunner(ctx, ExecutorRunnerConfig{
				Config:  deps.cfg.Config,
				DB:      deps.cfg.DB,
				Queue:   deps.cfg.Services.Queue,
				Logger:  deps.logger,
				Metrics: deps.cfg.Services.Observability.MetricsSink,
			})
		},
	}
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reaperCfg config.ReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.Reaper
			}
			return RunReaper(ctx, ReaperRunConfig{
				DB:        deps.cfg.DB,
				Callbacks: deps.cfg.Services.Callbacks,
				Queue:     deps.cfg.Services.Queue,
				Logger:    deps.logger,
				Config:    reaperCfg,
				Metrics:   deps.cfg.Services.Observability.MetricsSink,
			})
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newExecutorBackgroundService(deps),
		newReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := len(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		// Create a timeout context for HTTP shutdown
		shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
