// Package data implements the persistence layer for job records.
package data

import (
	"database/sql"
	"errors"
	"log/slog"
)

// ErrJobNotFound is returned when a job is not found.
var ErrJobNotFound = errors.New("job not found")

// RepoConfig holds configuration options for the job repository.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// JobRepo provides database operations for job record management.
// Every status mutation is a compare-and-swap keyed on the previously
// observed status; callers interpret a false return as a lost race.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewJobRepo creates a new JobRepo instance with the given database connection and configuration.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &JobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const jobColumns = `
  id,
  user_id,
  repo,
  branch,
  task_text,
  style_guide,
  heuristics,
  status,
  commit_sha,
  pr_url,
  loc_delta,
  files_touched,
  tests_passed,
  lint_passed,
  tok_in,
  tok_out,
  duration_ms,
  notes,
  created_at,
  updated_at
`
