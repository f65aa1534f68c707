package config

import (
	"strings"
	"time"
)

// RunnerConfig contains executor runner service configuration.
type RunnerConfig struct {
	// Concurrency is the number of worker goroutines.
	Concurrency int `env:"RUNNER_CONCURRENCY" envDefault:"1"`

	// JobTimeout bounds a whole job from claim to report.
	JobTimeout time.Duration `env:"RUNNER_JOB_TIMEOUT" envDefault:"15m"`

	// CloneTimeout bounds a single clone attempt.
	CloneTimeout time.Duration `env:"RUNNER_CLONE_TIMEOUT" envDefault:"2m"`

	// CheckTimeout bounds a single lint or test run.
	CheckTimeout time.Duration `env:"RUNNER_CHECK_TIMEOUT" envDefault:"5m"`

	// InfraRetries is the number of extra attempts for transient
	// infrastructure failures (clone, push, PR open).
	InfraRetries int `env:"RUNNER_INFRA_RETRIES" envDefault:"2"`

	// RetryBackoff is the linear backoff unit between retry attempts.
	RetryBackoff time.Duration `env:"RUNNER_RETRY_BACKOFF" envDefault:"2s"`

	// WorkDir is the parent directory for per-job working copies.
	// Empty means the system temp directory.
	WorkDir string `env:"RUNNER_WORK_DIR" envDefault:""`
}

// Sanitize applies guardrails to runner configuration values.
func (r *RunnerConfig) Sanitize() {
	if r.Concurrency < 1 {
		r.Concurrency = 1
	}
	if r.JobTimeout < time.Minute {
		r.JobTimeout = time.Minute
	}
	if r.CloneTimeout <= 0 {
		r.CloneTimeout = 2 * time.Minute
	}
	if r.CheckTimeout <= 0 {
		r.CheckTimeout = 5 * time.Minute
	}
	if r.InfraRetries < 0 {
		r.InfraRetries = 0
	}
	if r.RetryBackoff <= 0 {
		r.RetryBackoff = time.Second
	}
}

// AgentConfig contains configuration for the code-generation agent client.
type AgentConfig struct {
	// URL is the agent endpoint that turns a task into a patch.
	URL string `env:"AGENT_URL" envDefault:"http://localhost:9090/v1/generate"`

	// Token authenticates requests to the agent.
	Token string `env:"AGENT_TOKEN"`

	// Timeout bounds a single generation request.
	Timeout time.Duration `env:"AGENT_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to agent configuration values.
func (a *AgentConfig) Sanitize() {
	a.URL = strings.TrimSpace(a.URL)
	a.Token = strings.TrimSpace(a.Token)
	if a.Timeout <= 0 {
		a.Timeout = 5 * time.Minute
	}
}

// VCSConfig contains configuration for git and the hosting forge.
type VCSConfig struct {
	// ForgeBaseURL is the REST API base of the repository host
	// (pull request creation and merge).
	ForgeBaseURL string `env:"VCS_FORGE_BASE_URL" envDefault:"http://localhost:9091/api/v3"`

	// Token authenticates git pushes and forge API calls.
	Token string `env:"VCS_TOKEN"`

	// AuthorName is the committer identity used for generated commits.
	AuthorName string `env:"VCS_AUTHOR_NAME" envDefault:"codevox"`

	// AuthorEmail is the committer email used for generated commits.
	AuthorEmail string `env:"VCS_AUTHOR_EMAIL" envDefault:"codevox@localhost"`

	// Timeout bounds a single forge API call.
	Timeout time.Duration `env:"VCS_FORGE_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to VCS configuration values.
func (v *VCSConfig) Sanitize() {
	v.ForgeBaseURL = strings.TrimRight(strings.TrimSpace(v.ForgeBaseURL), "/")
	v.Token = strings.TrimSpace(v.Token)
	if v.AuthorName == "" {
		v.AuthorName = "codevox"
	}
	if v.AuthorEmail == "" {
		v.AuthorEmail = "codevox@localhost"
	}
	if v.Timeout <= 0 {
		v.Timeout = 30 * time.Second
	}
}

// CheckerConfig contains configuration for the lint and test commands run
// inside a job working copy. Defaults target the Python codegen stack.
type CheckerConfig struct {
	// LintCommand is the shell command whose exit status is the lint verdict.
	LintCommand string `env:"CHECK_LINT_COMMAND" envDefault:"ruff check ."`

	// TestCommand is the shell command whose exit status is the test verdict.
	TestCommand string `env:"CHECK_TEST_COMMAND" envDefault:"pytest -q"`
}

// Sanitize applies guardrails to checker configuration values.
func (c *CheckerConfig) Sanitize() {
	c.LintCommand = strings.TrimSpace(c.LintCommand)
	if c.LintCommand == "" {
		c.LintCommand = "ruff check ."
	}
	c.TestCommand = strings.TrimSpace(c.TestCommand)
	if c.TestCommand == "" {
		c.TestCommand = "pytest -q"
	}
}

// CallbackConfig contains configuration for delivering executor reports
// back to the callback endpoint.
type CallbackConfig struct {
	// URL is the callback endpoint the runner posts reports to.
	// Empty means derive from HTTP.BaseURL.
	URL string `env:"CALLBACK_URL"`

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration `env:"CALLBACK_TIMEOUT" envDefault:"10s"`

	// RetryLimit is the number of extra delivery attempts.
	RetryLimit int `env:"CALLBACK_RETRY_LIMIT" envDefault:"3"`

	// RetryBackoff is the linear backoff unit between delivery attempts.
	RetryBackoff time.Duration `env:"CALLBACK_RETRY_BACKOFF" envDefault:"2s"`
}

// Sanitize applies guardrails to callback configuration values.
func (c *CallbackConfig) Sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = time.Second
	}
}

// ReaperConfig contains stuck-job reaper service configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"1m"`

	// RunningMaxAge is the maximum age for running jobs before they are
	// force-failed. Should exceed the runner job timeout.
	RunningMaxAge time.Duration `env:"REAPER_RUNNING_MAX_AGE" envDefault:"30m"`

	// BatchSize is the maximum number of rows to process per tick.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"100"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < 10*time.Second {
		r.Interval = 10 * time.Second
	}
	if r.RunningMaxAge < time.Minute {
		r.RunningMaxAge = time.Minute
	}
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}
