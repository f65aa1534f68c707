package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/codevox/codevox-go/internal/errors"
)

func TestWriteAppError(t *testing.T) {
	t.Run("validation error names the field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteAppError(rec, apperrors.ValidationField("branch", "required field is missing"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"error":"validation","message":"required field is missing","field":"branch"}`,
			rec.Body.String(),
		)
	})

	t.Run("conflict maps to 409 without a field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteAppError(rec, apperrors.Conflict("job already terminal"))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"conflict","message":"job already terminal"}`, rec.Body.String())
	})

	t.Run("unclassified error is internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteAppError(rec, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal","message":"boom"}`, rec.Body.String())
	})
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeValidation, http.StatusBadRequest},
		{apperrors.ErrCodeNotFound, http.StatusNotFound},
		{apperrors.ErrCodeConflict, http.StatusConflict},
		{apperrors.ErrCodeInvalidState, http.StatusConflict},
		{apperrors.ErrCodeInfra, http.StatusBadGateway},
		{apperrors.ErrCodeTimeout, http.StatusBadGateway},
		{apperrors.ErrCodeInternal, http.StatusInternalServerError},
		{apperrors.ErrCodeAgent, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForCode(tt.code))
		})
	}
}
