package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorIsMatchesByCode(t *testing.T) {
	withDetails := NewWithDetails(http.StatusUnprocessableEntity, CodeNoData, "No data to download", "csv")
	wrapped := fmt.Errorf("export: %w", withDetails)

	assert.True(t, stderrors.Is(wrapped, ErrNoData))
	assert.False(t, stderrors.Is(wrapped, ErrUnknownChart))
	assert.Equal(t, "No data to download", ErrNoData.Error())
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		code   string
	}{
		{"invalid range", InvalidDateRange("2024-02-01", "2024-01-01", stderrors.New("to before from")), http.StatusBadRequest, CodeInvalidDateRange},
		{"unknown chart", UnknownChartError("pie"), http.StatusNotFound, CodeUnknownChart},
		{"unknown format", UnknownFormatError("docx"), http.StatusNotFound, CodeUnknownFormat},
		{"export", ExportError("pdf", stderrors.New("boom")), http.StatusInternalServerError, CodeExportFailed},
		{"validation", ErrValidation("from", "required"), http.StatusBadRequest, CodeValidationFailed},
		{"panic", ErrPanic("oops"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.NotNil(t, tt.err.Details)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrNoData)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, CodeNoData, body.Error.ErrorCode)
}

func TestAppError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewSourceError("state-sales", cause)

	assert.Equal(t, ErrTypeSource, err.Type)
	assert.Equal(t, "state-sales", err.Context["kind"])
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[SOURCE] report source failed: connection refused", err.Error())
	assert.Equal(t, "[CONFIG] bad", NewConfigError("bad", nil).Error())
}

func TestProblemDetailsMarshal(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeUnknownChart, "Not Found", "Unknown chart", "/api/dashboard/charts/x").
		WithExtension("error_code", CodeUnknownChart).
		WithExtension("status", "ignored")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, TypeUnknownChart, out["type"])
	assert.Equal(t, float64(http.StatusNotFound), out["status"], "standard fields win over extensions")
	assert.Equal(t, CodeUnknownChart, out["error_code"])
	assert.Equal(t, "/api/dashboard/charts/x", out["instance"])
}
