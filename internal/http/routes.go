package httpx

import (
	"log/slog"
	"net/http"

	"github.com/codevox/codevox-go/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Intake    *service.IntakeService
	Callbacks *service.CallbackService
	Approvals *service.ApprovalService
	Usage     *service.UsageService
	Logger    *slog.Logger // Logger for request logging and panic recovery (optional)
}

// NewRouter creates and configures the HTTP router for the job API.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{
		Intake:    services.Intake,
		Usage:     services.Usage,
		Approvals: services.Approvals,
	}
	callbackHandlers := &CallbackHandlers{Svc: services.Callbacks}

	mux.HandleFunc("POST /api/v1/jobs", jobHandlers.Submit)
	mux.HandleFunc("GET /api/v1/jobs/stats", jobHandlers.Stats)
	mux.HandleFunc("GET /api/v1/jobs/{id}", jobHandlers.Get)
	mux.HandleFunc("POST /api/v1/jobs/{id}/approve", jobHandlers.Approve)
	mux.HandleFunc("GET /api/v1/usage/{user_id}", jobHandlers.UserUsage)
	mux.HandleFunc("POST /api/v1/callback/runner-status", callbackHandlers.RunnerStatus)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
