package handlers

import (
	"net/http"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService services.AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// CreateAccount creates a new account for the authenticated user
// @Summary Create a new account
// @Description Create a CHECKING, SAVINGS or CREDIT_CARD account with an optional initial balance
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account creation details"
// @Success 201 {object} models.AccountBalance "Account created successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or validation error"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_006 - Account name already used"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), userID, services.AccountInput{
		Name:           req.Name,
		AccountType:    req.AccountType,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, account)
}

// GetAccount retrieves a specific account with its current balance
// @Summary Get account by ID
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID (UUID)"
// @Success 200 {object} models.AccountBalance "Account details"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid account ID format"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.accountService.GetAccount(c.Request().Context(), userID, accountID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// ListAccounts retrieves all accounts for the authenticated user
// @Summary List accounts
// @Description Accounts ordered by name, each with its derived balance
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AccountListResponse "Accounts"
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accounts, err := h.accountService.ListAccounts(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AccountListResponse{
		Accounts: accounts,
		Total:    len(accounts),
	})
}

// UpdateAccount changes name, type or initial balance
// @Summary Update account
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Account ID (UUID)"
// @Param request body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} models.AccountBalance "Updated account"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_006 - Account name already used"
// @Router /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	account, err := h.accountService.UpdateAccount(c.Request().Context(), userID, accountID, services.AccountUpdate{
		Name:           req.Name,
		AccountType:    req.AccountType,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// DeleteAccount removes an account that has no transactions
// @Summary Delete account
// @Tags Accounts
// @Security BearerAuth
// @Param id path string true "Account ID (UUID)"
// @Success 204 "Account deleted"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 409 {object} errors.ErrorResponse "ACCOUNT_007 - Account has transactions"
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), userID, accountID); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Balance returns only the derived balance of an account
// @Summary Get account balance
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID (UUID)"
// @Success 200 {object} object{account_id=string,balance=string} "Current balance"
// @Router /accounts/{id}/balance [get]
func (h *AccountHandler) Balance(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	balance, err := h.accountService.ComputeBalance(c.Request().Context(), userID, accountID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"account_id": accountID,
		"balance":    balance,
	})
}

