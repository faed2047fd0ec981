package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apierrors "finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
)

// Recover is a middleware that turns a panic into a SYSTEM_001 response.
// Recovered panics are logged with their stack and counted like other errors.
func (h *ErrorHandler) Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				h.logger.ErrorContext(c.Request().Context(), "Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				errorResponse := apierrors.NewErrorResponse(apierrors.SystemInternalError, traceID)
				h.count(c, errorResponse.Error.Code, http.StatusInternalServerError)

				if c.Response().Committed {
					return
				}
				err = c.JSON(http.StatusInternalServerError, errorResponse)
			}()

			return next(c)
		}
	}
}
