package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AccountTypeChecking   = "CHECKING"
	AccountTypeSavings    = "SAVINGS"
	AccountTypeCreditCard = "CREDIT_CARD"

	maxAccountNameLength = 100
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrAccountNameMissing = errors.New("account name is required")
	ErrAccountNameTooLong = errors.New("account name is too long")
)

// Account is a user-owned ledger account. Its current balance is never
// stored; see AccountBalance.
type Account struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_user_name,priority:1" json:"user_id"`
	Name           string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_accounts_user_name,priority:2" json:"name"`
	AccountType    string          `gorm:"type:varchar(20);not null" json:"type"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"initial_balance"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// BeforeUpdate hook for Account
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	name := strings.TrimSpace(a.Name)
	if name == "" {
		return ErrAccountNameMissing
	}
	if len(name) > maxAccountNameLength {
		return ErrAccountNameTooLong
	}

	if !IsValidAccountType(a.AccountType) {
		return ErrInvalidAccountType
	}

	return nil
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}

// IsValidAccountType checks if the account type is valid
func IsValidAccountType(accountType string) bool {
	switch accountType {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCreditCard:
		return true
	default:
		return false
	}
}

// NormalizeAccountType upper-cases user input so "checking" and "CHECKING" are equivalent.
func NormalizeAccountType(accountType string) string {
	return strings.ToUpper(strings.TrimSpace(accountType))
}

// AccountBalance is an account together with its derived current balance.
type AccountBalance struct {
	Account
	Balance decimal.Decimal `json:"balance"`
}

// ComputeBalance derives the current balance from the initial balance and
// the signed amounts of the account's transactions. The order of
// transactions does not matter.
func ComputeBalance(initial decimal.Decimal, transactions []Transaction) decimal.Decimal {
	balance := initial
	for i := range transactions {
		balance = balance.Add(transactions[i].SignedAmount())
	}
	return balance
}
