// Package mocks provides mock implementations for testing the codevox job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our core interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for JobRepository interface from internal/core package.
// This creates MockJobRepository with methods for all JobRepository interface methods:
// Create, GetByID, MarkRunning, ApplyReport, ClaimMerge, ReleaseMergeClaim, RecordMergeCommit, ListStaleRunning, Stats, AggregateUsage
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/codevox/codevox-go/internal/core JobRepository

// Generate mock for JobQueue interface from internal/core package.
// This creates MockJobQueue with methods for all JobQueue interface methods:
// Enqueue, Receive, Ack, Release, DeadLetter
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_queue_mock.go github.com/codevox/codevox-go/internal/core JobQueue

// Generate mock for ForgeClient interface from internal/core package.
// This creates MockForgeClient with methods for all ForgeClient interface methods:
// OpenPR, MergePR
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=forge_client_mock.go github.com/codevox/codevox-go/internal/core ForgeClient

// Generate mock for VCSClient interface from internal/core package.
// This creates MockVCSClient with methods for all VCSClient interface methods:
// Clone, Apply, CommitAndPush, PushBranch, Cleanup
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=vcs_client_mock.go github.com/codevox/codevox-go/internal/core VCSClient

// Generate mock for PatchAgent interface from internal/core package.
// This creates MockPatchAgent with methods for all PatchAgent interface methods:
// Generate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=patch_agent_mock.go github.com/codevox/codevox-go/internal/core PatchAgent

// Generate mock for Checker interface from internal/core package.
// This creates MockChecker with methods for all Checker interface methods:
// Lint, Test
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=checker_mock.go github.com/codevox/codevox-go/internal/core Checker

// Generate mock for CallbackSender interface from internal/core package.
// This creates MockCallbackSender with methods for all CallbackSender interface methods:
// Send
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=callback_sender_mock.go github.com/codevox/codevox-go/internal/core CallbackSender

// Generate mock for QueueInspector interface from internal/core package.
// This creates MockQueueInspector with methods for all QueueInspector interface methods:
// Depths
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=queue_inspector_mock.go github.com/codevox/codevox-go/internal/core QueueInspector

// Generate mock for ReaperRepository interface from internal/core package.
// This creates MockReaperRepository with methods for all ReaperRepository interface methods:
// ListStaleRunning, Stats
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=reaper_repository_mock.go github.com/codevox/codevox-go/internal/core ReaperRepository
