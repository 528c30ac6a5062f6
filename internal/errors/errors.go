package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Is matches APIErrors by code so that wrapped copies with details still
// satisfy errors.Is against the predefined values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeInvalidDateRange      = "INVALID_DATE_RANGE"
	CodeNotFound              = "NOT_FOUND"
	CodeUnknownChart          = "UNKNOWN_CHART"
	CodeUnknownFormat         = "UNKNOWN_FORMAT"
	CodeNoData                = "NO_DATA"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeInternal              = "INTERNAL_SERVER_ERROR"
	CodeExportFailed          = "EXPORT_FAILED"
	CodeWebSocketUpgrade      = "WEBSOCKET_UPGRADE_FAILED"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
	CodeRasterizerUnavailable = "RASTERIZER_UNAVAILABLE"
)

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrInvalidDateRange = New(http.StatusBadRequest, CodeInvalidDateRange, "Invalid date range")

	// 404 Not Found
	ErrNotFound      = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrUnknownChart  = New(http.StatusNotFound, CodeUnknownChart, "Unknown chart")
	ErrUnknownFormat = New(http.StatusNotFound, CodeUnknownFormat, "Unknown export format")

	// 422 Unprocessable Entity
	ErrNoData = New(http.StatusUnprocessableEntity, CodeNoData, "No data to download")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer   = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrExportFailed     = New(http.StatusInternalServerError, CodeExportFailed, "Export failed")
	ErrWebSocketUpgrade = New(http.StatusInternalServerError, CodeWebSocketUpgrade, "WebSocket upgrade failed")

	// 503 Service Unavailable
	ErrServiceUnavailable    = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")
	ErrRasterizerUnavailable = New(http.StatusServiceUnavailable, CodeRasterizerUnavailable, "Headless browser is not available")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// InvalidDateRange reports a from/to pair that cannot be used
func InvalidDateRange(from, to string, err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidDateRange,
		fmt.Sprintf("Invalid date range %s..%s", from, to), err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// UnknownChartError names the chart that does not exist
func UnknownChartError(chart string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeUnknownChart, fmt.Sprintf("Unknown chart %q", chart), chart)
}

// UnknownFormatError names the export format that does not exist
func UnknownFormatError(format string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeUnknownFormat, fmt.Sprintf("Unknown export format %q", format), format)
}

// ExportError wraps a failure while producing an export
func ExportError(format string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeExportFailed,
		fmt.Sprintf("Failed to produce %s export", format), err.Error())
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// PanicRecovery represents panic recovery information
type PanicRecovery struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrPanic creates a panic recovery error
func ErrPanic(rec interface{}) *APIError {
	return NewWithDetails(
		http.StatusInternalServerError,
		CodeInternal,
		"Internal server error",
		PanicRecovery{
			Message: fmt.Sprintf("%v", rec),
		},
	)
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(NewErrorResponse(err))
}
