package dto

import (
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetEntryRequest is one row of a budget save. The period may be given as
// month and year, or as a YYYY-MM string in period.
type BudgetEntryRequest struct {
	CategoryID     uuid.UUID       `json:"category_id" validate:"required"`
	LimitAmount    decimal.Decimal `json:"limit_amount"`
	Month          int             `json:"month" validate:"omitempty,min=1,max=12"`
	Year           int             `json:"year" validate:"omitempty,min=1"`
	Period         string          `json:"period" validate:"omitempty,period"`
	ApplyAllMonths bool            `json:"apply_all_months"`
}

type SaveBudgetsRequest struct {
	Budgets []BudgetEntryRequest `json:"budgets" validate:"required,min=1,dive"`
}

type BudgetListResponse struct {
	Period  string                `json:"period"`
	Budgets []models.BudgetStatus `json:"budgets"`
}
