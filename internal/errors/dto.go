package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// NewErrorResponse converts an error into the standard response shape:
// hints become the display message, reportable details are decoded back
// into a map.
func NewErrorResponse(err error) *ErrorResponse {
	if err == nil {
		return nil
	}
	return &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Display:       errors.FlattenHints(err),
			InternalError: err.Error(),
			Details:       reportableDetails(err),
		},
	}
}

// reportableDetails extracts the first structured detail payload
// attached by WithReportableDetails anywhere in the chain.
func reportableDetails(err error) map[string]any {
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			raw, ok := strings.CutPrefix(detail, "__json__:")
			if !ok {
				continue
			}
			var details map[string]any
			if json.Unmarshal([]byte(raw), &details) == nil {
				return details
			}
		}
	}
	return nil
}
