package metrics

import (
	"time"

	obserrors "github.com/codevox/codevox-go/internal/observability/errors"
	"github.com/codevox/codevox-go/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// JobMetric captures details about a job lifecycle event for metric emission.
type JobMetric struct {
	// Status is the lifecycle status the job transitioned to.
	Status   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitJobLifecycle emits standardised job lifecycle metrics.
func EmitJobLifecycle(sink statsd.Sink, in JobMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"status": in.Status,
		"result": in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("job.duration", in.Duration, CloneTags(tags))
	}
}

// EmitDecision counts a merge-decision outcome.
func EmitDecision(sink statsd.Sink, decision, reason string) {
	if sink == nil {
		return
	}
	sink.Count("job.decision", 1, map[string]string{
		"decision": decision,
		"reason":   reason,
	})
}

// EmitQueueDepth records a gauge per queue segment.
func EmitQueueDepth(sink statsd.Sink, segment string, depth int64) {
	if sink == nil {
		return
	}
	sink.Gauge("queue.depth", float64(depth), map[string]string{"segment": segment})
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
