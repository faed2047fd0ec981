package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

const maxListLimit = 500

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction posts an income, an expense or a transfer
// @Summary Post a transaction
// @Description A transfer is stored as two linked rows, an EXPENSE on the source and an INCOME on the target
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.PostTransactionResponse "Stored rows"
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_002 - Invalid amount, TRANSACTION_005 - Future date, TRANSFER_001 - Same account"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found or CATEGORY_001 - Category not found"
// @Failure 500 {object} errors.ErrorResponse "TRANSFER_003 - Transfer could not be completed"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	transactions, err := h.transactionService.PostTransaction(c.Request().Context(), userID, services.PostTransactionInput{
		Date:            req.Date.Time,
		Description:     req.Description,
		Amount:          req.Amount,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Kind:            req.Kind,
		TargetAccountID: req.TargetAccountID,
		IsAnomaly:       req.IsAnomaly,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.PostTransactionResponse{
		Transactions: transactions,
	})
}

// ListTransactions returns the caller's transactions, newest first
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param accountId query string false "Filter by account (UUID)"
// @Param categoryId query string false "Filter by category (UUID)"
// @Param type query string false "Filter by kind" Enums(INCOME, EXPENSE)
// @Param description query string false "Case-insensitive substring of the description"
// @Param year query int false "Calendar year"
// @Param month query int false "Month 1-12, requires year"
// @Param limit query int false "Maximum rows (max 500)"
// @Success 200 {object} dto.TransactionListResponse "Transactions"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid filter"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	transactions, err := h.transactionService.ListTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: transactions,
		Total:        len(transactions),
	})
}

// parseTransactionFilters parses and validates transaction filter parameters
func parseTransactionFilters(c echo.Context) (models.TransactionFilters, error) {
	var filters models.TransactionFilters

	accountID, err := parseOptionalUUID(c.QueryParam("accountId"))
	if err != nil {
		return filters, fmt.Errorf("invalid accountId, must be a UUID")
	}
	filters.AccountID = accountID

	categoryID, err := parseOptionalUUID(c.QueryParam("categoryId"))
	if err != nil {
		return filters, fmt.Errorf("invalid categoryId, must be a UUID")
	}
	filters.CategoryID = categoryID

	filters.Kind = c.QueryParam("type")
	filters.Description = c.QueryParam("description")

	if yearStr := c.QueryParam("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1 {
			return filters, fmt.Errorf("invalid year parameter")
		}
		filters.Year = year
	}

	if monthStr := c.QueryParam("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			return filters, fmt.Errorf("invalid month parameter")
		}
		filters.Month = month
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return filters, fmt.Errorf("invalid limit parameter")
		}
		if limit < 1 {
			return filters, fmt.Errorf("limit must be at least 1")
		}
		filters.Limit = min(limit, maxListLimit)
	}

	return filters, nil
}

// GetTransaction retrieves a specific transaction by ID
// @Summary Get transaction by ID
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} models.Transaction "Transaction"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), userID, transactionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction edits amount, category, description, date or kind
// @Summary Update transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} models.Transaction "Updated transaction"
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_006 - Invalid type"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	update := services.TransactionUpdate{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Kind:        req.Kind,
	}
	if req.Date != nil {
		date := req.Date.Time
		update.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, transactionID, update)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction removes a single stored row
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID (UUID)"
// @Success 204 "Transaction deleted"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, transactionID); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
