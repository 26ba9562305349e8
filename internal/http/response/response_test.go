package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/signbridgeapp/signbridge-server/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnvelope_Marshal(t *testing.T) {
	envelope := Envelope{
		Success: true,
		Data:    map[string]string{"key": "value"},
		Error:   "",
		Message: "test message",
	}

	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded Envelope
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.True(t, decoded.Success)
	assert.NotNil(t, decoded.Data)
	assert.Equal(t, "test message", decoded.Message)
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
}

func TestJSON_ErrorStatusClearsSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusBadGateway, nil, discardLogger())

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	// Must not panic without a logger.
	JSON(w, http.StatusOK, "data", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter)
		wantStatus int
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad", discardLogger()) }, http.StatusBadRequest},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "missing", discardLogger()) }, http.StatusNotFound},
		{"too many requests", func(w http.ResponseWriter) { TooManyRequests(w, "slow down", discardLogger()) }, http.StatusTooManyRequests},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", discardLogger()) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.wantStatus, w.Code)

			var envelope Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			assert.NotEmpty(t, envelope.Error)
		})
	}
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, apperrors.NotFound("artifact not found"), discardLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "artifact not found", envelope.Error)
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	w := httptest.NewRecorder()

	err := apperrors.CatalogUnavailable("registry missing").WithCause(errors.New("open: no such file"))
	HandleError(w, err, discardLogger())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("something odd"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
