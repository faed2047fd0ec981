package services

import "errors"

// Not found. Records owned by another user are reported the same way.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
)

// Conflicts
var (
	ErrAccountNameTaken  = errors.New("an account with this name already exists")
	ErrCategoryNameTaken = errors.New("a category with this name already exists")
	ErrAccountInUse      = errors.New("account has transactions and cannot be deleted")
	ErrCategoryInUse     = errors.New("category has transactions and cannot be deleted")
)

// Validation
var (
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrDateRequired           = errors.New("date is required")
	ErrFutureDate             = errors.New("date cannot be in the future")
	ErrInvalidKind            = errors.New("transaction type must be INCOME, EXPENSE or TRANSFER")
	ErrInvalidAccountType     = errors.New("account type must be CHECKING, SAVINGS or CREDIT_CARD")
	ErrInvalidCategoryKind    = errors.New("category type must be INCOME or EXPENSE")
	ErrTransferTargetRequired = errors.New("target account is required for transfers")
	ErrSameAccountTransfer    = errors.New("source and target account must differ")
	ErrInvalidBudget          = errors.New("invalid budget entry")
	ErrNameRequired           = errors.New("name is required")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrInvalidFilter          = errors.New("month filter requires a year and must be between 1 and 12")
)

var (
	ErrTransferFailed        = errors.New("transfer could not be completed")
	ErrClassifierUnavailable = errors.New("category classifier is unavailable")
)
