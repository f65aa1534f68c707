package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CallbackReport is the executor's terminal report for a job, delivered to
// the callback endpoint. Delivery is at-least-once; the callback handler
// deduplicates.
type CallbackReport struct {
	JobID        string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	CommitSHA    string    `json:"commit_sha,omitempty"`
	PRURL        string    `json:"pr_url,omitempty"`
	LOCDelta     int       `json:"loc_delta"`
	FilesTouched []string  `json:"files_touched,omitempty"`
	TestsPassed  *bool     `json:"tests_passed,omitempty"`
	LintPassed   *bool     `json:"lint_passed,omitempty"`
	TokIn        int64     `json:"tok_in"`
	TokOut       int64     `json:"tok_out"`
	DurationMS   int64     `json:"duration_ms"`
	Notes        string    `json:"notes,omitempty"`
}

// Validate validates the CallbackReport fields. Only executor-terminal
// statuses are accepted; merged is reached through approval, never through
// a callback.
func (r *CallbackReport) Validate() error {
	if r.JobID == "" {
		return errors.New("job_id is required")
	}
	if _, err := uuid.Parse(r.JobID); err != nil {
		return errors.New("job_id must be a valid UUID")
	}
	switch r.Status {
	case JobStatusAutoMerged, JobStatusPROpened, JobStatusFailed:
	default:
		return fmt.Errorf("status must be a terminal executor status, got %q", r.Status)
	}
	if r.Status == JobStatusAutoMerged && r.CommitSHA == "" {
		return errors.New("commit_sha is required for auto_merged")
	}
	if r.Status == JobStatusPROpened && r.PRURL == "" {
		return errors.New("pr_url is required for pr_opened")
	}
	return nil
}

// MergeResult is the outcome of an approval request.
type MergeResult struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	CommitSHA string    `json:"commit_sha,omitempty"`
	// AlreadyMerged is true when a concurrent or earlier approval won.
	AlreadyMerged bool `json:"already_merged"`
}
