package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/codevox/codevox-go/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an application error onto the HTTP status space and
// writes it as a JSON error response. Validation errors that name the
// offending column carry it through as "field".
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	body := map[string]string{
		"error":   errCodeLabel(code),
		"message": err.Error(),
	}
	if field := apperrors.GetField(err); field != "" {
		body["field"] = field
	}
	WriteJSON(w, statusForCode(code), body)
}

// statusForCode maps application error categories to HTTP status codes.
// Transient infrastructure failures come back as 502 so clients retry;
// everything unclassified is a plain 500.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeInvalidState:
		return http.StatusConflict
	case apperrors.ErrCodeInfra, apperrors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errCodeLabel(code apperrors.ErrorCode) string {
	if code == "" {
		return string(apperrors.ErrCodeInternal)
	}
	return string(code)
}
