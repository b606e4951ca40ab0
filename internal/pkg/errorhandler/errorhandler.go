package errorhandler

import (
	"context"
	"net/http"

	"github.com/campy/campy-api/internal/pkg/logger"
	"github.com/campy/campy-api/internal/pkg/response"
)

// HandleError logs err with the request logger and writes an error envelope
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error()
	if status < http.StatusInternalServerError {
		event = logger.FromContext(ctx).Warn()
	}
	event.
		Err(err).
		Str("error_code", code).
		Int("status_code", status).
		Msg(message)

	response.Error(w, status, code, message)
}

// Internal logs an unexpected error for op and replies with a generic 500
func Internal(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logger.FromContext(ctx).Error().
		Err(err).
		Str("operation", op).
		Msg("Unexpected error")

	response.InternalError(w)
}

// LogValidationError logs DTO field errors at warn level
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
}
