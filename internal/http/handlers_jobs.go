// Package httpx provides HTTP handlers and utilities for the codevox job system API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/codevox/codevox-go/internal/domain/model"
	"github.com/codevox/codevox-go/internal/service"
)

// JobHandlers provides HTTP handlers for job submission, lookup, and approval.
type JobHandlers struct {
	Intake    *service.IntakeService
	Usage     *service.UsageService
	Approvals *service.ApprovalService
}

// Submit handles HTTP requests to create and enqueue a new job.
func (h *JobHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Intake.Submit(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, job)
}

// Get handles HTTP requests to retrieve a single job record.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	job, err := h.Usage.GetJob(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Approve handles HTTP requests to approve and merge an open pull request.
// A repeat approval of an already merged job is reported as success with
// the already_merged flag set.
func (h *JobHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	result, err := h.Approvals.Approve(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// UserUsage handles HTTP requests to retrieve aggregated usage for one user.
func (h *JobHandlers) UserUsage(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	summary, err := h.Usage.Usage(r.Context(), userID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// Stats handles HTTP requests to retrieve fleet-wide job status counts.
func (h *JobHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Usage.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
