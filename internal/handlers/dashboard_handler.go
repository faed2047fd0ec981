package handlers

import (
	"net/http"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the dashboard snapshot and the monthly report
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
	now              func() time.Time
}

func NewDashboardHandler(dashboardService services.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// GetDashboard returns totals, recent activity and budget alerts for a month
// @Summary Dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param month query string false "Period as YYYY-MM, defaults to the current month"
// @Success 200 {object} models.DashboardSummary "Dashboard"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid month"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	period, err := resolvePeriod(c.QueryParam("month"), h.now())
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	summary, err := h.dashboardService.GetDashboard(c.Request().Context(), userID, period)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetReport returns spend against budget per expense category
// @Summary Monthly report
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param month query string false "Period as YYYY-MM, defaults to the current month"
// @Param accountId query string false "Restrict spend to one account (UUID)"
// @Success 200 {object} dto.ReportResponse "Report"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid month or account ID"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /report [get]
func (h *DashboardHandler) GetReport(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.PeriodQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(query); err != nil {
		return sendValidationError(c, err)
	}

	period, err := resolvePeriod(query.Month, h.now())
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	accountID, err := parseOptionalUUID(query.AccountID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	lines, err := h.dashboardService.GetReport(c.Request().Context(), userID, period, accountID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ReportResponse{
		Period: period.String(),
		Lines:  lines,
	})
}
