package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	apierrors "finance-ledger/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrorHandler formats errors that escape the handlers as standardized error
// responses, logs them and counts them in api_errors_total
type ErrorHandler struct {
	errorsTotal *prometheus.CounterVec
	logger      *slog.Logger
}

func NewErrorHandler(reg prometheus.Registerer, logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		errorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of API errors by code, endpoint, and status",
			},
			[]string{"code", "endpoint", "status"},
		),
		logger: logger,
	}
}

// Handle implements echo.HTTPErrorHandler
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	var errorResponse *apierrors.ErrorResponse
	var httpStatus int

	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &echoErr):
		errorResponse = apierrors.NewErrorResponse(
			mapHTTPStatusToErrorCode(echoErr.Code),
			traceID,
			apierrors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
		)
		httpStatus = echoErr.Code
	case errors.As(err, &validationErrs):
		fieldErrors := make(map[string]string)
		for _, fieldErr := range validationErrs {
			fieldErrors[fieldErr.Field()] = formatValidationError(fieldErr)
		}
		errorResponse = apierrors.NewValidationError(fieldErrors, traceID)
		httpStatus = http.StatusBadRequest
	default:
		errorResponse = apierrors.NewSystemError(traceID)
		httpStatus = errorResponse.GetHTTPStatus()
	}

	logLevel := slog.LevelWarn
	if httpStatus >= 500 {
		logLevel = slog.LevelError
	}

	h.logger.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", errorResponse.Error.Code,
		"status", httpStatus,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	h.count(c, errorResponse.Error.Code, httpStatus)

	if sendErr := c.JSON(httpStatus, errorResponse); sendErr != nil {
		h.logger.Error("Failed to send error response",
			"trace_id", traceID,
			"error", sendErr.Error(),
		)
	}
}

func (h *ErrorHandler) count(c echo.Context, code string, status int) {
	h.errorsTotal.WithLabelValues(code, c.Path(), strconv.Itoa(status)).Inc()
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) apierrors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return apierrors.ValidationGeneral
	case http.StatusUnauthorized, http.StatusForbidden:
		return apierrors.AuthMissingToken
	case http.StatusNotFound:
		return apierrors.SystemRouteNotFound
	case http.StatusTooManyRequests:
		return apierrors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return apierrors.SystemServiceUnavailable
	default:
		return apierrors.SystemInternalError
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "account_type":
		return "must be one of CHECKING, SAVINGS, CREDIT_CARD"
	case "category_kind":
		return "must be INCOME or EXPENSE"
	case "transaction_kind":
		return "must be one of INCOME, EXPENSE, TRANSFER"
	case "period":
		return "must be a month formatted as YYYY-MM"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
