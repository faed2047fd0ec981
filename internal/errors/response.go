package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes an ErrorDetail after the defaults for its code are applied
type ErrorOption func(*ErrorDetail)

func WithDetails(details ...string) ErrorOption {
	return func(d *ErrorDetail) {
		d.Details = details
	}
}

// WithMessage replaces the default message registered for the code
func WithMessage(message string) ErrorOption {
	return func(d *ErrorDetail) {
		d.Message = message
	}
}

func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	detail := ErrorDetail{
		Code:    string(code),
		Message: GetErrorMessage(code),
		TraceID: traceID,
	}
	for _, opt := range opts {
		opt(&detail)
	}
	return &ErrorResponse{Error: detail}
}

// NewValidationError renders field errors as "field: message" details,
// sorted by field so responses are stable
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// NewSystemError returns the generic SYSTEM_001 body. The underlying error
// stays in the server logs and is never serialized.
func NewSystemError(traceID string) *ErrorResponse {
	return NewErrorResponse(SystemInternalError, traceID)
}

var statusGroups = []struct {
	status int
	codes  []ErrorCode
}{
	{http.StatusBadRequest, []ErrorCode{
		ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat, ValidationOutOfRange,
		ValidationInvalidDate, AccountInvalidType, CategoryInvalidKind, TransactionInvalidAmount,
		TransactionFutureDate, TransactionInvalidType, TransferSameAccount, TransferTargetRequired,
		BudgetInvalid,
	}},
	{http.StatusUnauthorized, []ErrorCode{AuthMissingToken, AuthExpiredToken, AuthInvalidTokenFormat}},
	// not owned is reported exactly like not existing
	{http.StatusNotFound, []ErrorCode{
		AccountNotFound, CategoryNotFound, TransactionNotFound, BudgetNotFound, SystemRouteNotFound,
	}},
	{http.StatusConflict, []ErrorCode{AccountNameTaken, AccountInUse, CategoryNameTaken, CategoryInUse}},
	{http.StatusTooManyRequests, []ErrorCode{SystemRateLimitExceeded}},
	{http.StatusServiceUnavailable, []ErrorCode{SystemServiceUnavailable}},
	{http.StatusInternalServerError, []ErrorCode{SystemInternalError, TransferFailed}},
}

var statusByCode = func() map[ErrorCode]int {
	m := make(map[ErrorCode]int)
	for _, group := range statusGroups {
		for _, code := range group.codes {
			m[code] = group.status
		}
	}
	return m
}()

// GetHTTPStatus returns the status registered for code, 500 for unknown codes
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}
