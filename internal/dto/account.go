package dto

import (
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Account Request DTOs

// CreateAccountRequest represents the request payload for creating a new account
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=100"`
	AccountType    string          `json:"type" validate:"required,account_type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// UpdateAccountRequest carries the fields to change; omitted fields are kept
type UpdateAccountRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=100"`
	AccountType    *string          `json:"type" validate:"omitempty,account_type"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
}

// Account Response DTOs

// AccountListResponse represents the caller's accounts ordered by name
type AccountListResponse struct {
	Accounts []models.AccountBalance `json:"accounts"`
	Total    int                     `json:"total"`
}
