package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:  "single service - runner",
			input: "runner",
			expected: map[ServiceMode]bool{
				ServiceModeRunner: true,
			},
			expectError: false,
		},
		{
			name:  "single service - reaper",
			input: "reaper",
			expected: map[ServiceMode]bool{
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:  "multiple services - http and runner",
			input: "http,runner",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeRunner: true,
			},
			expectError: false,
		},
		{
			name:  "all services",
			input: "http,runner,reaper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeRunner: true,
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:  "services with spaces",
			input: " http , runner , reaper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeRunner: true,
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:  "duplicate services",
			input: "http,http,runner",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeRunner: true,
			},
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "mixed valid and invalid",
			input:       "http,runner,invalid",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name           string
		services       string
		expectedHTTP   bool
		expectedRunner bool
		expectedReaper bool
	}{
		{
			name:           "default - http only",
			services:       "http",
			expectedHTTP:   true,
			expectedRunner: false,
			expectedReaper: false,
		},
		{
			name:           "http and runner",
			services:       "http,runner",
			expectedHTTP:   true,
			expectedRunner: true,
			expectedReaper: false,
		},
		{
			name:           "all services",
			services:       "http,runner,reaper",
			expectedHTTP:   true,
			expectedRunner: true,
			expectedReaper: true,
		},
		{
			name:           "runner only",
			services:       "runner",
			expectedHTTP:   false,
			expectedRunner: true,
			expectedReaper: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}

			if cfg.IsRunnerEnabled() != tt.expectedRunner {
				t.Errorf("IsRunnerEnabled(): expected %v, got %v", tt.expectedRunner, cfg.IsRunnerEnabled())
			}

			if cfg.IsReaperEnabled() != tt.expectedReaper {
				t.Errorf("IsReaperEnabled(): expected %v, got %v", tt.expectedReaper, cfg.IsReaperEnabled())
			}
		})
	}
}

func TestConfig_ServiceEnabledMethodsWithInvalidConfig(t *testing.T) {
	cfg := AppConfig{Services: "invalid-service"}

	if cfg.IsHTTPServerEnabled() {
		t.Errorf("IsHTTPServerEnabled() with invalid config: expected false, got true")
	}
	if cfg.IsRunnerEnabled() {
		t.Errorf("IsRunnerEnabled() with invalid config: expected false, got true")
	}
	if cfg.IsReaperEnabled() {
		t.Errorf("IsReaperEnabled() with invalid config: expected false, got true")
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	expected := []ServiceMode{
		ServiceModeHTTP,
		ServiceModeRunner,
		ServiceModeReaper,
	}

	if len(modes) != len(expected) {
		t.Errorf("expected %d service modes, got %d", len(expected), len(modes))
	}

	for i, mode := range modes {
		if mode != expected[i] {
			t.Errorf("expected service mode %s at index %d, got %s", expected[i], i, mode)
		}
	}
}

func TestAppConfig_ParseRunnerEnv(t *testing.T) {
	t.Setenv("RUNNER_CONCURRENCY", "4")
	t.Setenv("RUNNER_JOB_TIMEOUT", "20m")
	t.Setenv("RUNNER_INFRA_RETRIES", "5")
	t.Setenv("AGENT_URL", "http://agent.internal/v1/generate")
	t.Setenv("VCS_FORGE_BASE_URL", "https://forge.example.com/api/v3/")
	t.Setenv("CALLBACK_URL", "http://localhost:8080/api/v1/callback/runner-status")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Runner.Concurrency != 4 {
		t.Errorf("Runner.Concurrency = %d, want 4", cfg.Runner.Concurrency)
	}
	if cfg.Runner.JobTimeout != 20*time.Minute {
		t.Errorf("Runner.JobTimeout = %v, want 20m", cfg.Runner.JobTimeout)
	}
	if cfg.Runner.InfraRetries != 5 {
		t.Errorf("Runner.InfraRetries = %d, want 5", cfg.Runner.InfraRetries)
	}
	if cfg.Agent.URL != "http://agent.internal/v1/generate" {
		t.Errorf("Agent.URL = %q", cfg.Agent.URL)
	}
	if cfg.VCS.ForgeBaseURL != "https://forge.example.com/api/v3" {
		t.Errorf("VCS.ForgeBaseURL should be trimmed of trailing slash, got %q", cfg.VCS.ForgeBaseURL)
	}
	if cfg.Callback.URL != "http://localhost:8080/api/v1/callback/runner-status" {
		t.Errorf("Callback.URL = %q", cfg.Callback.URL)
	}
}

func TestRunnerConfig_Sanitize(t *testing.T) {
	cfg := RunnerConfig{
		Concurrency:  0,
		JobTimeout:   time.Second,
		InfraRetries: -1,
	}

	cfg.Sanitize()

	if cfg.Concurrency != 1 {
		t.Errorf("Concurrency = %d, want 1", cfg.Concurrency)
	}
	if cfg.JobTimeout != time.Minute {
		t.Errorf("JobTimeout = %v, want 1m floor", cfg.JobTimeout)
	}
	if cfg.InfraRetries != 0 {
		t.Errorf("InfraRetries = %d, want 0", cfg.InfraRetries)
	}
	if cfg.RetryBackoff <= 0 {
		t.Errorf("RetryBackoff should fall back to a positive default, got %v", cfg.RetryBackoff)
	}
}

func TestQueueConfig_Sanitize(t *testing.T) {
	cfg := QueueConfig{
		Namespace:         "",
		VisibilityTimeout: time.Second,
		ReceiveWait:       0,
		ReclaimBatch:      0,
	}

	cfg.Sanitize()

	if cfg.Namespace != "codevox:jobs" {
		t.Errorf("Namespace = %q, want codevox:jobs", cfg.Namespace)
	}
	if cfg.VisibilityTimeout != 5*time.Second {
		t.Errorf("VisibilityTimeout = %v, want 5s floor", cfg.VisibilityTimeout)
	}
	if cfg.ReceiveWait != time.Second {
		t.Errorf("ReceiveWait = %v, want 1s floor", cfg.ReceiveWait)
	}
	if cfg.ReclaimBatch != 1 {
		t.Errorf("ReclaimBatch = %d, want 1", cfg.ReclaimBatch)
	}
}

func TestReaperConfig_Sanitize(t *testing.T) {
	cfg := ReaperConfig{
		Interval:      time.Second,
		RunningMaxAge: time.Second,
		BatchSize:     100000,
	}

	cfg.Sanitize()

	if cfg.Interval != 10*time.Second {
		t.Errorf("Interval = %v, want 10s floor", cfg.Interval)
	}
	if cfg.RunningMaxAge != time.Minute {
		t.Errorf("RunningMaxAge = %v, want 1m floor", cfg.RunningMaxAge)
	}
	if cfg.BatchSize != 10000 {
		t.Errorf("BatchSize = %d, want 10000 cap", cfg.BatchSize)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestObservabilityNotificationsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityNotificationsConfig{
		Enabled:    true,
		Timeout:    0,
		RetryLimit: -1,
		Push: PushNotificationConfig{
			Enabled:    true,
			WebhookURL: " ",
			Source:     "",
		},
	}

	cfg.Sanitize()

	if cfg.Timeout <= 0 {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
	if cfg.RetryLimit < 0 {
		t.Fatalf("expected retry limit to be clamped to >= 0, got %d", cfg.RetryLimit)
	}
	if cfg.Push.Enabled {
		t.Fatal("expected push to be disabled without a webhook url")
	}
	if cfg.Push.Source != "codevox" {
		t.Fatalf("expected push source default, got %q", cfg.Push.Source)
	}

	// Disabled top-level should disable child sinks.
	cfg = ObservabilityNotificationsConfig{
		Enabled: false,
		Push: PushNotificationConfig{
			Enabled:    true,
			WebhookURL: "https://push.example.com/hook",
		},
	}
	cfg.Sanitize()

	if cfg.Push.Enabled {
		t.Fatal("expected push to be disabled when top-level notifications disabled")
	}
}
