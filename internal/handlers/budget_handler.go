package handlers

import (
	"fmt"
	"net/http"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// BudgetHandler handles budget status, saving and recommendations
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
	now           func() time.Time
}

func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		now:           time.Now,
	}
}

// ListBudgets returns a status row for every expense category in the month
// @Summary List budget statuses
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param month query string false "Period as YYYY-MM, defaults to the current month"
// @Success 200 {object} dto.BudgetListResponse "Budget statuses"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid month"
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	period, err := resolvePeriod(c.QueryParam("month"), h.now())
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	statuses, err := h.budgetService.ListBudgetStatuses(c.Request().Context(), userID, period)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BudgetListResponse{
		Period:  period.String(),
		Budgets: statuses,
	})
}

// SaveBudgets upserts a batch of budget limits
// @Summary Save budgets
// @Description Entries for categories the caller does not own are skipped and counted
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SaveBudgetsRequest true "Budget entries"
// @Success 200 {object} services.SaveBudgetsResult "Saved and skipped counts"
// @Failure 400 {object} errors.ErrorResponse "BUDGET_002 - Invalid budget entry"
// @Router /budgets/save [post]
func (h *BudgetHandler) SaveBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.SaveBudgetsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	entries := make([]services.BudgetEntry, 0, len(req.Budgets))
	for i, entryReq := range req.Budgets {
		entry, err := h.toBudgetEntry(entryReq)
		if err != nil {
			return SendError(c, errors.BudgetInvalid, errors.WithDetails(fmt.Sprintf("budgets[%d]: %v", i, err)))
		}
		entries = append(entries, entry)
	}

	result, err := h.budgetService.SaveBudgets(c.Request().Context(), userID, entries)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// toBudgetEntry resolves the entry's period. An explicit period string wins
// over month and year; an entry with neither targets the current month, or
// the current year when apply_all_months is set.
func (h *BudgetHandler) toBudgetEntry(req dto.BudgetEntryRequest) (services.BudgetEntry, error) {
	entry := services.BudgetEntry{
		CategoryID:     req.CategoryID,
		LimitAmount:    req.LimitAmount,
		Month:          req.Month,
		Year:           req.Year,
		ApplyAllMonths: req.ApplyAllMonths,
	}

	if req.Period != "" {
		period, err := models.ParsePeriod(req.Period)
		if err != nil {
			return entry, err
		}
		entry.Year = period.Year
		entry.Month = int(period.Month)
		return entry, nil
	}

	current := models.PeriodOf(h.now())
	if entry.Year == 0 {
		entry.Year = current.Year
	}
	if entry.Month == 0 && !entry.ApplyAllMonths {
		if req.Year != 0 {
			return entry, models.ErrInvalidBudgetMonth
		}
		entry.Month = int(current.Month)
	}

	return entry, nil
}

// Recommendations returns a suggested limit per expense category
// @Summary Budget recommendations
// @Description Average monthly spend over the trailing three months, keyed by category id
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string "Recommended limit per category"
// @Router /budgets/recommendations [get]
func (h *BudgetHandler) Recommendations(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	limits, err := h.budgetService.RecommendLimits(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, limits)
}

// Recommendation returns the suggested limit for one category
// @Summary Budget recommendation for a category
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category ID (UUID)"
// @Success 200 {object} object{category_id=string,recommended_limit=string} "Recommended limit"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /budgets/recommendations/{categoryId} [get]
func (h *BudgetHandler) Recommendation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	limit, err := h.budgetService.RecommendLimit(c.Request().Context(), userID, categoryID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"category_id":       categoryID,
		"recommended_limit": limit,
	})
}

// GetBudgetStatus returns the status of one category in the month
// @Summary Budget status for a category
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category ID (UUID)"
// @Param month query string false "Period as YYYY-MM, defaults to the current month"
// @Success 200 {object} models.BudgetStatus "Budget status"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /budgets/status/{categoryId} [get]
func (h *BudgetHandler) GetBudgetStatus(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	period, err := resolvePeriod(c.QueryParam("month"), h.now())
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	status, err := h.budgetService.GetBudgetStatus(c.Request().Context(), userID, categoryID, period)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

// DeleteBudget removes a stored budget
// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID (UUID)"
// @Success 204 "Budget deleted"
// @Failure 404 {object} errors.ErrorResponse "BUDGET_001 - Budget not found"
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), userID, budgetID); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
