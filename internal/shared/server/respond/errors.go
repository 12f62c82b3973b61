package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/shared/telemetry"
)

// Context keys read from gin so error logs can be correlated with request logs.
const (
	requestIDKey = "requestId"
	reportIDKey  = "reportId"
)

// CodeValidation is the code for malformed or incomplete requests.
const CodeValidation = "validation_error"

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FieldIssue names one invalid request field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error sends a standardized error response and logs it. Server faults log at
// error level, client mistakes at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(requestIDKey),
	}
	if reportID := c.GetString(reportIDKey); reportID != "" {
		fields["report_id"] = reportID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Validation sends a 400 with per-field issues.
func Validation(c *gin.Context, message string, issues ...FieldIssue) {
	var details any
	if len(issues) > 0 {
		details = issues
	}
	Error(c, http.StatusBadRequest, CodeValidation, message, details)
}
