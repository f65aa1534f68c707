package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// JobDescriptor is the queue message handed to an executor. It carries
// everything needed to run the job; the record row remains the source of
// truth for status.
type JobDescriptor struct {
	JobID      string     `json:"job_id"`
	UserID     string     `json:"user_id"`
	Repo       string     `json:"repo"`
	Branch     string     `json:"branch"`
	TaskText   string     `json:"task_text"`
	StyleGuide string     `json:"style_guide,omitempty"`
	Heuristics Heuristics `json:"heuristics"`
}

// Validate validates the JobDescriptor fields. A descriptor that fails
// validation is dead-lettered and never retried.
func (d *JobDescriptor) Validate() error {
	if d.JobID == "" {
		return errors.New("job_id is required")
	}
	if _, err := uuid.Parse(d.JobID); err != nil {
		return errors.New("job_id must be a valid UUID")
	}
	if strings.TrimSpace(d.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(d.Repo) == "" {
		return errors.New("repo is required")
	}
	if strings.TrimSpace(d.Branch) == "" {
		return errors.New("branch is required")
	}
	if strings.TrimSpace(d.TaskText) == "" {
		return errors.New("task_text is required")
	}
	if d.Heuristics.AutoMergeLOCLimit < 0 {
		return errors.New("auto_merge_loc_limit must be >= 0")
	}
	return nil
}
