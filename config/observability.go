package config

import (
	"strings"
	"time"
)

const defaultObservabilityName = "codevox"

// ObservabilityConfig groups configuration that controls metrics, logging, and notification fan-out.
type ObservabilityConfig struct {
	Metrics       ObservabilityMetricsConfig
	Notifications ObservabilityNotificationsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Notifications.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityNotificationsConfig controls outbound job outcome notifications.
type ObservabilityNotificationsConfig struct {
	Enabled    bool                   `env:"OBSERVABILITY_NOTIFICATIONS_ENABLED"     envDefault:"false"`
	Timeout    time.Duration          `env:"OBSERVABILITY_NOTIFICATIONS_TIMEOUT"     envDefault:"5s"`
	RetryLimit int                    `env:"OBSERVABILITY_NOTIFICATIONS_RETRY_LIMIT" envDefault:"3"`
	Push       PushNotificationConfig `                                                                envPrefix:"OBSERVABILITY_NOTIFICATIONS_PUSH_"`
}

// Sanitize normalises notification configuration values.
func (c *ObservabilityNotificationsConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}

	c.Push.sanitize()

	if !c.Enabled {
		c.Push.Enabled = false
		return
	}

	if c.Push.Enabled && c.Push.WebhookURL == "" {
		c.Push.Enabled = false
	}
}

// PushNotificationConfig controls push-gateway webhook fan-out to job submitters.
type PushNotificationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	WebhookURL string `env:"WEBHOOK_URL"`
	Source     string `env:"SOURCE"      envDefault:"codevox"`
}

func (c *PushNotificationConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	if c.Source = strings.TrimSpace(c.Source); c.Source == "" {
		c.Source = defaultObservabilityName
	}
}
