package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the read-side snapshot for one user and period.
type DashboardSummary struct {
	Period string `json:"period"`
	// TotalBalance sums initial balances only, not current balances.
	TotalBalance       decimal.Decimal  `json:"total_balance"`
	MonthlyIncome      decimal.Decimal  `json:"monthly_income"`
	MonthlyExpense     decimal.Decimal  `json:"monthly_expense"`
	SavingsRate        decimal.Decimal  `json:"savings_rate"`
	RecentTransactions []Transaction    `json:"recent_transactions"`
	BudgetAlerts       []BudgetStatus   `json:"budget_alerts"`
	Accounts           []AccountBalance `json:"accounts"`
}

// SavingsRate returns (income-expense)/income*100 rounded to one decimal
// place, or zero when there is no income.
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expense).Div(income).Mul(hundred).Round(1)
}

// ReportLine is one category row of the spend-vs-budget report.
type ReportLine struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category"`
	Spent        decimal.Decimal `json:"spent"`
	LimitAmount  decimal.Decimal `json:"limit_amount"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   decimal.Decimal `json:"percentage"`
	Status       string          `json:"status"`
}

// CategorySuggestion is the best-effort classifier answer for a description.
type CategorySuggestion struct {
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName string     `json:"category"`
	Source       string     `json:"source"`
	Error        string     `json:"error,omitempty"`
}
