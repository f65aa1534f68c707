// Package core provides the ports and shared contracts for the codevox job system.
package core

import (
	"errors"

	"github.com/codevox/codevox-go/internal/domain/model"
)

// JobStatus is re-exported for use in HTTP handlers to avoid direct
// coupling to the model package.
type JobStatus = model.JobStatus

// SubmitJobRequest is re-exported for use in HTTP handlers to avoid direct
// coupling to the model package.
type SubmitJobRequest = model.SubmitJobRequest

// ErrPushConflict signals a non-fast-forward push rejection; the executor
// falls back to opening a pull request.
var ErrPushConflict = errors.New("push rejected: non-fast-forward")
