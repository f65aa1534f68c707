package httpx

import (
	"io"
	"net/http"
)

const healthResponse = `{"status":"ok","service":"codevox"}`

// healthHandler answers readiness/liveness probes. It reports process
// liveness only; database and queue health surface through the stats
// endpoints instead, so a degraded dependency never knocks the pod out
// of rotation.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
