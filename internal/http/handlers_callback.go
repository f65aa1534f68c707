package httpx

import (
	"net/http"

	"github.com/codevox/codevox-go/internal/domain/model"
	"github.com/codevox/codevox-go/internal/service"
)

// CallbackHandlers provides the HTTP handler for executor status reports.
type CallbackHandlers struct {
	Svc *service.CallbackService
}

// RunnerStatus handles executor callback reports. Reports arrive
// at-least-once; a duplicate of the recorded terminal status responds 200
// like the first delivery, so retrying senders converge without special
// casing. Conflicting terminal statuses come back as 409.
func (h *CallbackHandlers) RunnerStatus(w http.ResponseWriter, r *http.Request) {
	var report model.CallbackReport
	if !DecodeJSON(w, r, &report) {
		return
	}

	job, err := h.Svc.Apply(r.Context(), &report)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}
