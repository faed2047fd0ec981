package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound    ErrorCode = "ACCOUNT_001"
	AccountInvalidType ErrorCode = "ACCOUNT_004"
	AccountNameTaken   ErrorCode = "ACCOUNT_006"
	AccountInUse       ErrorCode = "ACCOUNT_007"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound    ErrorCode = "CATEGORY_001"
	CategoryNameTaken   ErrorCode = "CATEGORY_002"
	CategoryInUse       ErrorCode = "CATEGORY_003"
	CategoryInvalidKind ErrorCode = "CATEGORY_004"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionFutureDate    ErrorCode = "TRANSACTION_005"
	TransactionInvalidType   ErrorCode = "TRANSACTION_006"
)

// Transfer error codes (TRANSFER_*)
const (
	TransferSameAccount    ErrorCode = "TRANSFER_001"
	TransferFailed         ErrorCode = "TRANSFER_003"
	TransferTargetRequired ErrorCode = "TRANSFER_007"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound ErrorCode = "BUDGET_001"
	BudgetInvalid  ErrorCode = "BUDGET_002"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRouteNotFound      ErrorCode = "SYSTEM_004"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token format",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",

	// Account errors
	AccountNotFound:    "Account not found",
	AccountInvalidType: "Account type must be CHECKING, SAVINGS or CREDIT_CARD",
	AccountNameTaken:   "An account with this name already exists",
	AccountInUse:       "Account has transactions and cannot be deleted",

	// Category errors
	CategoryNotFound:    "Category not found",
	CategoryNameTaken:   "A category with this name already exists",
	CategoryInUse:       "Category has transactions and cannot be deleted",
	CategoryInvalidKind: "Category type must be INCOME or EXPENSE",

	// Transaction errors
	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Amount must be a positive number",
	TransactionFutureDate:    "Transaction date cannot be in the future",
	TransactionInvalidType:   "Transaction type must be INCOME, EXPENSE or TRANSFER",

	// Transfer errors
	TransferSameAccount:    "Cannot transfer to the same account",
	TransferFailed:         "Transfer could not be completed",
	TransferTargetRequired: "Target account is required for transfers",

	// Budget errors
	BudgetNotFound: "Budget not found",
	BudgetInvalid:  "Invalid budget entry",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRouteNotFound:      "The requested resource does not exist",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
