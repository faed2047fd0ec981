package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BudgetStatusGreen  = "green"
	BudgetStatusYellow = "yellow"
	BudgetStatusRed    = "red"
	BudgetStatusNone   = "none"
)

var (
	ErrInvalidBudgetMonth = errors.New("budget month must be between 1 and 12")
	ErrInvalidBudgetYear  = errors.New("budget year is required")
	ErrNegativeLimit      = errors.New("budget limit cannot be negative")

	warningThreshold = decimal.NewFromFloat(0.75)
	hundred          = decimal.NewFromInt(100)
)

// Budget is a monthly spending limit for one expense category.
type Budget struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_period,priority:1" json:"user_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_period,priority:2" json:"category_id"`
	Month       int             `gorm:"not null;uniqueIndex:idx_budgets_user_category_period,priority:3" json:"month"`
	Year        int             `gorm:"not null;uniqueIndex:idx_budgets_user_category_period,priority:4" json:"year"`
	LimitAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"limit_amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Budget
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	return b.Validate()
}

// Validate validates the budget fields
func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if b.CategoryID == uuid.Nil {
		return errors.New("category ID is required")
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidBudgetMonth
	}
	if b.Year <= 0 {
		return ErrInvalidBudgetYear
	}
	if b.LimitAmount.IsNegative() {
		return ErrNegativeLimit
	}
	return nil
}

// TableName returns the table name for Budget
func (b *Budget) TableName() string {
	return "budgets"
}

// Period returns the budget's month as a Period.
func (b *Budget) Period() Period {
	return NewPeriod(b.Year, time.Month(b.Month))
}

// ClassifyBudget returns the status tier for spent against limit.
// green below 75% of the limit, yellow from 75% up to the limit, red at or above it.
func ClassifyBudget(spent, limit decimal.Decimal) string {
	switch {
	case spent.LessThan(limit.Mul(warningThreshold)):
		return BudgetStatusGreen
	case spent.LessThan(limit):
		return BudgetStatusYellow
	default:
		return BudgetStatusRed
	}
}

// BudgetPercentage returns spent/limit*100 rounded to one decimal place,
// or zero when there is no positive limit.
func BudgetPercentage(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(limit).Mul(hundred).Round(1)
}

// BudgetStatus is the derived state of one category's budget for a period.
type BudgetStatus struct {
	BudgetID     *uuid.UUID      `json:"budget_id,omitempty"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	LimitAmount  decimal.Decimal `json:"limit_amount"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   decimal.Decimal `json:"percentage"`
	Status       string          `json:"status"`
}

// NewBudgetStatus builds the status for a category. A nil budget yields the
// "none" tier with zero limit and percentage.
func NewBudgetStatus(category *Category, period Period, budget *Budget, spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Month:        int(period.Month),
		Year:         period.Year,
		LimitAmount:  decimal.Zero,
		Spent:        spent,
		Remaining:    decimal.Zero,
		Percentage:   decimal.Zero,
		Status:       BudgetStatusNone,
	}

	if budget == nil {
		return status
	}

	id := budget.ID
	status.BudgetID = &id
	status.LimitAmount = budget.LimitAmount
	status.Remaining = budget.LimitAmount.Sub(spent)
	status.Percentage = BudgetPercentage(spent, budget.LimitAmount)
	status.Status = ClassifyBudget(spent, budget.LimitAmount)
	return status
}
