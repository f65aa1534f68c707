package core

import (
	"context"
	"time"

	"github.com/codevox/codevox-go/internal/domain/model"
)

// This file contains the interface definitions (ports in hexagonal architecture)
// between the service layer and its collaborators. Service implementations
// should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for job record operations.
// Every status mutation is compare-and-swap on the previously observed
// status so concurrent writers cannot regress the lifecycle.
type JobRepository interface {
	Create(ctx context.Context, req *model.SubmitJobRequest) (*model.JobRecord, error)
	GetByID(ctx context.Context, id string) (*model.JobRecord, error)

	// MarkRunning transitions pending→running. It also succeeds when the
	// job is already running (an expired queue lease being re-claimed).
	MarkRunning(ctx context.Context, id string) (bool, error)

	// ApplyReport writes the executor outcome fields and transitions the
	// job to the report's terminal status, keyed on the observed previous
	// status. Returns false on CAS miss.
	ApplyReport(ctx context.Context, report *model.CallbackReport, observed model.JobStatus) (bool, error)

	// ClaimMerge transitions pr_opened→merged. Returns false when another
	// approval already claimed the job.
	ClaimMerge(ctx context.Context, id string) (bool, error)

	// ReleaseMergeClaim compensates a failed merge back to pr_opened.
	ReleaseMergeClaim(ctx context.Context, id string) (bool, error)

	// RecordMergeCommit stores the forge merge SHA on a merged job.
	RecordMergeCommit(ctx context.Context, id, sha string) error

	// ListStaleRunning returns ids of running jobs untouched for longer
	// than maxAge. The reaper fails them through the callback path so the
	// usual dedup and notification rules apply.
	ListStaleRunning(ctx context.Context, maxAge time.Duration, batchSize int) ([]string, error)

	Stats(ctx context.Context) (*model.JobStats, error)
	AggregateUsage(ctx context.Context, userID string) (*model.UsageSummary, error)
}

// Message is a received queue entry. Receipt identifies the in-flight
// entry for Ack, Release, and DeadLetter.
type Message struct {
	Receipt string
	Payload []byte
}

// JobQueue defines the at-least-once delivery contract for job descriptors.
type JobQueue interface {
	Enqueue(ctx context.Context, desc *model.JobDescriptor) error

	// Receive blocks up to the configured wait and returns the next
	// message, or nil when none arrived in time.
	Receive(ctx context.Context) (*Message, error)

	// Ack removes a delivered message permanently.
	Ack(ctx context.Context, msg *Message) error

	// Release returns a message to the pending queue for redelivery.
	Release(ctx context.Context, msg *Message) error

	// DeadLetter parks a message on the dead list, never to be retried.
	DeadLetter(ctx context.Context, msg *Message) error
}

// QueueDepths reports per-segment queue sizes.
type QueueDepths struct {
	Pending    int64
	Processing int64
	Inflight   int64
	Dead       int64
}

// QueueInspector exposes queue depth introspection for periodic health logs.
type QueueInspector interface {
	Depths(ctx context.Context) (*QueueDepths, error)
}

// PatchAgent turns a task description into a unified diff against the
// job's working copy.
type PatchAgent interface {
	Generate(ctx context.Context, req *GeneratePatchRequest) (*GeneratedPatch, error)
}

// GeneratePatchRequest carries the task context to the agent.
type GeneratePatchRequest struct {
	JobID      string
	Repo       string
	Branch     string
	TaskText   string
	StyleGuide string
	WorkDir    string
}

// GeneratedPatch is the agent's output plus token accounting.
type GeneratedPatch struct {
	Diff   string
	TokIn  int64
	TokOut int64
}

// Workspace is a checked-out private working copy of the target repo.
type Workspace struct {
	Dir    string
	Branch string
}

// ChangeStats summarizes the applied patch.
type ChangeStats struct {
	LOCDelta     int
	FilesTouched []string
}

// VCSClient covers the git operations the executor needs.
type VCSClient interface {
	// Clone checks out repo at branch into a fresh private directory.
	Clone(ctx context.Context, repo, branch string) (*Workspace, error)

	// Apply applies a unified diff to the workspace and reports change stats.
	Apply(ctx context.Context, ws *Workspace, diff string) (*ChangeStats, error)

	// CommitAndPush commits the working tree and pushes to branch.
	// Returns the commit SHA. A non-fast-forward rejection surfaces as
	// ErrPushConflict.
	CommitAndPush(ctx context.Context, ws *Workspace, message string) (string, error)

	// PushBranch pushes the committed change to a new remote branch.
	PushBranch(ctx context.Context, ws *Workspace, branch string) error

	// Cleanup removes the workspace directory.
	Cleanup(ws *Workspace)
}

// ForgeClient covers the repository-host API operations.
type ForgeClient interface {
	// OpenPR opens a pull request from head into base and returns its URL.
	OpenPR(ctx context.Context, req *OpenPRRequest) (string, error)

	// MergePR merges the pull request behind prURL. Implementations treat
	// an already-merged PR as success and return its merge SHA.
	MergePR(ctx context.Context, prURL string) (string, error)
}

// OpenPRRequest carries pull request creation parameters.
type OpenPRRequest struct {
	Repo  string
	Base  string
	Head  string
	Title string
	Body  string
}

// Checker runs repo checks (lint, tests) in a workspace. Check failures
// are results, not errors: the bool is the verdict and err only reports
// infrastructure problems running the check at all.
type Checker interface {
	Lint(ctx context.Context, ws *Workspace) (bool, error)
	Test(ctx context.Context, ws *Workspace) (bool, error)
}

// CallbackSender delivers an executor report to the callback endpoint.
// Delivery is at-least-once; the receiving side deduplicates.
type CallbackSender interface {
	Send(ctx context.Context, report *model.CallbackReport) error
}

// ReaperRepository is the narrow repository surface the reaper needs.
type ReaperRepository interface {
	ListStaleRunning(ctx context.Context, maxAge time.Duration, batchSize int) ([]string, error)
	Stats(ctx context.Context) (*model.JobStats, error)
}
