package handlers

import (
	"errors"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

type serviceErrorMapping struct {
	err  error
	code apierrors.ErrorCode
	// showDetails copies the service error text into the response details
	showDetails bool
}

var serviceErrorMappings = []serviceErrorMapping{
	{services.ErrAccountNotFound, apierrors.AccountNotFound, false},
	{services.ErrCategoryNotFound, apierrors.CategoryNotFound, false},
	{services.ErrTransactionNotFound, apierrors.TransactionNotFound, false},
	{services.ErrBudgetNotFound, apierrors.BudgetNotFound, false},

	{services.ErrAccountNameTaken, apierrors.AccountNameTaken, false},
	{services.ErrCategoryNameTaken, apierrors.CategoryNameTaken, false},
	{services.ErrAccountInUse, apierrors.AccountInUse, false},
	{services.ErrCategoryInUse, apierrors.CategoryInUse, false},

	{services.ErrInvalidAmount, apierrors.TransactionInvalidAmount, true},
	{services.ErrFutureDate, apierrors.TransactionFutureDate, true},
	{services.ErrDateRequired, apierrors.ValidationRequiredField, true},
	{services.ErrInvalidKind, apierrors.TransactionInvalidType, true},
	{services.ErrInvalidAccountType, apierrors.AccountInvalidType, true},
	{services.ErrInvalidCategoryKind, apierrors.CategoryInvalidKind, true},
	{services.ErrTransferTargetRequired, apierrors.TransferTargetRequired, true},
	{services.ErrSameAccountTransfer, apierrors.TransferSameAccount, true},
	{services.ErrInvalidBudget, apierrors.BudgetInvalid, true},
	{services.ErrNameRequired, apierrors.ValidationRequiredField, true},
	{services.ErrDescriptionRequired, apierrors.ValidationRequiredField, true},
	{services.ErrInvalidFilter, apierrors.ValidationOutOfRange, true},

	{services.ErrTransferFailed, apierrors.TransferFailed, false},
}

// handleServiceError translates a service sentinel into its API error code.
// Anything unrecognised is reported as a system error without internals.
func handleServiceError(c echo.Context, err error) error {
	for _, m := range serviceErrorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.showDetails {
			return SendError(c, m.code, apierrors.WithDetails(err.Error()))
		}
		return SendError(c, m.code)
	}

	return SendSystemError(c, err)
}
