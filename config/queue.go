package config

import "time"

// QueueConfig contains Redis job queue configuration.
//
// The queue is at-least-once: a message received but never acknowledged
// becomes visible again after VisibilityTimeout.
type QueueConfig struct {
	// Namespace prefixes every Redis key used by the queue.
	Namespace string `env:"QUEUE_NAMESPACE" envDefault:"codevox:jobs"`

	// VisibilityTimeout is how long a received message stays invisible
	// before it is reclaimed for redelivery.
	VisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT" envDefault:"60s"`

	// ReceiveWait is the maximum block duration of a single receive call.
	ReceiveWait time.Duration `env:"QUEUE_RECEIVE_WAIT" envDefault:"10s"`

	// ReclaimBatch is the maximum number of expired in-flight messages
	// moved back to pending per receive call.
	ReclaimBatch int `env:"QUEUE_RECLAIM_BATCH" envDefault:"100"`
}

// Sanitize applies guardrails to queue configuration values.
func (q *QueueConfig) Sanitize() {
	if q.Namespace == "" {
		q.Namespace = "codevox:jobs"
	}
	if q.VisibilityTimeout < 5*time.Second {
		q.VisibilityTimeout = 5 * time.Second
	}
	if q.ReceiveWait <= 0 {
		q.ReceiveWait = time.Second
	}
	if q.ReclaimBatch < 1 {
		q.ReclaimBatch = 1
	}
}
