package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxltravel/shared/failure"
	"pxltravel/transport/http/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "failure message is shown",
			err:      failure.Conflict("email already registered"),
			wantCode: http.StatusConflict,
			wantMsg:  "email already registered",
		},
		{
			name:     "wrapped failure keeps its code",
			err:      fmt.Errorf("booking validating: %w", failure.BadRequestFromString("phone_number must be at least 10 characters")),
			wantCode: http.StatusBadRequest,
			wantMsg:  "phone_number must be at least 10 characters",
		},
		{
			name:     "raw errors are not leaked",
			err:      errors.New("pq: password authentication failed for user \"app\""),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

func TestWithStageError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithStageError(rec, "uploading", failure.UpstreamUnavailable(errors.New("timeout")))

	body := decode(t, rec)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "uploading", body["stage"])
	assert.NotContains(t, body["error"], "timeout")
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"data": map[string]any{"id": "b-1"}}, decode(t, rec))
}

func TestWithJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusOK, map[string]any{"fn": func() {}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["error"])
}

func TestCannedMessages(t *testing.T) {
	tests := []struct {
		name  string
		write func(http.ResponseWriter)
		code  int
		msg   string
	}{
		{"limit", response.WithRequestLimitExceeded, http.StatusTooManyRequests, "REQUEST LIMIT EXCEEDED"},
		{"shutdown", response.WithPreparingShutdown, http.StatusServiceUnavailable, "SERVER PREPARING TO SHUT DOWN"},
		{"unhealthy", response.WithUnhealthy, http.StatusServiceUnavailable, "SERVER UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.msg, decode(t, rec)["message"])
		})
	}
}
