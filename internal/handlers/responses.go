package handlers

import (
	"log/slog"

	"finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
)

// TraceIDContextKey mirrors the key the RequestID middleware writes to
const TraceIDContextKey = "trace_id"

func getTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
	return traceID
}

// SendError writes the error body for code with the status registered for it.
// Handlers return its result so echo's error handler never sees the error.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs err and answers with the generic SYSTEM_001 body
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	slog.ErrorContext(c.Request().Context(), "Internal error",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err,
	)

	errorResponse := errors.NewSystemError(traceID)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}
