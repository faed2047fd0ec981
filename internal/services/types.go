package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountInput struct {
	Name           string
	AccountType    string
	InitialBalance decimal.Decimal
}

// AccountUpdate carries the fields to change; nil fields are left as they are.
type AccountUpdate struct {
	Name           *string
	AccountType    *string
	InitialBalance *decimal.Decimal
}

type CategoryInput struct {
	Name string
	Kind string
}

type CategoryUpdate struct {
	Name *string
	Kind *string
}

// PostTransactionInput is a posting request. An empty Kind is inferred from
// the category; TargetAccountID is only read for transfers.
type PostTransactionInput struct {
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	AccountID       uuid.UUID
	CategoryID      uuid.UUID
	Kind            string
	TargetAccountID *uuid.UUID
	IsAnomaly       bool
}

// TransactionUpdate holds the mutable fields of a stored transaction.
type TransactionUpdate struct {
	Amount      *decimal.Decimal
	CategoryID  *uuid.UUID
	Description *string
	Date        *time.Time
	Kind        *string
}

type BudgetEntry struct {
	CategoryID     uuid.UUID
	LimitAmount    decimal.Decimal
	Month          int
	Year           int
	ApplyAllMonths bool
}

type SaveBudgetsResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
}
