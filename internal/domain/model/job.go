// Package model defines the core data types and structures used throughout the codevox job system.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current lifecycle status of a job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobStatus string

const (
	// JobStatusPending indicates a job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates a job is currently being processed by an executor.
	JobStatusRunning JobStatus = "running"
	// JobStatusAutoMerged indicates the change was merged without review.
	JobStatusAutoMerged JobStatus = "auto_merged"
	// JobStatusPROpened indicates a pull request is awaiting approval.
	JobStatusPROpened JobStatus = "pr_opened"
	// JobStatusMerged indicates an approved pull request was merged.
	JobStatusMerged JobStatus = "merged"
	// JobStatusFailed indicates the job did not produce a mergeable change.
	JobStatusFailed JobStatus = "failed"
)

// UnmarshalText implements encoding.TextUnmarshaler for JobStatus to allow env and JSON parsing.
func (s *JobStatus) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	js := JobStatus(v)
	if js.Valid() {
		*s = js
		return nil
	}
	return fmt.Errorf("invalid JobStatus: %q", v)
}

// Valid returns true if the JobStatus is one of the closed lifecycle set.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusAutoMerged,
		JobStatusPROpened, JobStatusMerged, JobStatusFailed:
		return true
	}
	return false
}

// Terminal returns true if no further automatic transition leaves this status.
// pr_opened is not terminal for the approval path but is terminal for the
// executor: only an approval moves it forward.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusAutoMerged, JobStatusPROpened, JobStatusMerged, JobStatusFailed:
		return true
	}
	return false
}

// Heuristics carries the per-job merge policy captured at submission time.
type Heuristics struct {
	// AutoMergeLOCLimit is the exclusive upper bound on loc_delta for auto-merge.
	AutoMergeLOCLimit int `json:"auto_merge_loc_limit"`
	// BlockedPaths lists path prefixes (on segment boundaries) that always
	// force review.
	BlockedPaths []string `json:"blocked_paths,omitempty"`
}

// JobRecord is the persisted source of truth for a job.
type JobRecord struct {
	ID         string     `json:"id"                    db:"id"`
	UserID     string     `json:"user_id"               db:"user_id"`
	Repo       string     `json:"repo"                  db:"repo"`
	Branch     string     `json:"branch"                db:"branch"`
	TaskText   string     `json:"task_text"             db:"task_text"`
	StyleGuide string     `json:"style_guide,omitempty" db:"style_guide"`
	Heuristics Heuristics `json:"heuristics"            db:"heuristics"`

	Status JobStatus `json:"status" db:"status"`

	CommitSHA    *string  `json:"commit_sha,omitempty"    db:"commit_sha"`
	PRURL        *string  `json:"pr_url,omitempty"        db:"pr_url"`
	LOCDelta     *int     `json:"loc_delta,omitempty"     db:"loc_delta"`
	FilesTouched []string `json:"files_touched,omitempty" db:"files_touched"`
	TestsPassed  *bool    `json:"tests_passed,omitempty"  db:"tests_passed"`
	LintPassed   *bool    `json:"lint_passed,omitempty"   db:"lint_passed"`
	TokIn        *int64   `json:"tok_in,omitempty"        db:"tok_in"`
	TokOut       *int64   `json:"tok_out,omitempty"       db:"tok_out"`
	DurationMS   *int64   `json:"duration_ms,omitempty"   db:"duration_ms"`
	Notes        *string  `json:"notes,omitempty"         db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubmitJobRequest represents an intake request to create and enqueue a new job.
type SubmitJobRequest struct {
	JobID      string     `json:"job_id,omitempty"`
	UserID     string     `json:"user_id"`
	Repo       string     `json:"repo"`
	Branch     string     `json:"branch"`
	TaskText   string     `json:"task_text"`
	StyleGuide string     `json:"style_guide,omitempty"`
	Heuristics Heuristics `json:"heuristics"`
}

// Validate validates the SubmitJobRequest fields.
func (r *SubmitJobRequest) Validate() error {
	if r.JobID != "" {
		if _, err := uuid.Parse(r.JobID); err != nil {
			return errors.New("job_id must be a valid UUID")
		}
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.Repo) == "" {
		return errors.New("repo is required")
	}
	if strings.TrimSpace(r.Branch) == "" {
		return errors.New("branch is required")
	}
	if strings.TrimSpace(r.TaskText) == "" {
		return errors.New("task_text is required")
	}
	if r.Heuristics.AutoMergeLOCLimit < 0 {
		return errors.New("auto_merge_loc_limit must be >= 0")
	}
	return nil
}

// JobStats represents queue-facing counts of jobs in each lifecycle status.
type JobStats struct {
	Pending    int `json:"pending"`
	Running    int `json:"running"`
	AutoMerged int `json:"auto_merged"`
	PROpened   int `json:"pr_opened"`
	Merged     int `json:"merged"`
	Failed     int `json:"failed"`
}

// UsageSummary aggregates token and outcome accounting for a single user.
type UsageSummary struct {
	UserID     string `json:"user_id"`
	JobCount   int    `json:"job_count"`
	TokIn      int64  `json:"tok_in"`
	TokOut     int64  `json:"tok_out"`
	DurationMS int64  `json:"duration_ms"`
	Merged     int    `json:"merged"`
	AutoMerged int    `json:"auto_merged"`
	Failed     int    `json:"failed"`
}
