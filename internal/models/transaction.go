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
	TransactionKindIncome   = "INCOME"
	TransactionKindExpense  = "EXPENSE"
	TransactionKindTransfer = "TRANSFER"
)

var (
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrTransferKindNotStored  = errors.New("transfers are stored as an expense and an income leg")
)

// Transaction is a single posted ledger row. Amount is always positive; the
// sign is derived from Kind when aggregating.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Kind        string          `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"type:text" json:"description"`
	IsAnomaly   bool            `gorm:"not null;default:false" json:"is_anomaly"`
	TransferID  *uuid.UUID      `gorm:"type:uuid;index" json:"transfer_id,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	// Read-only joins for responses
	AccountName  string `gorm:"-" json:"account_name,omitempty"`
	CategoryName string `gorm:"-" json:"category_name,omitempty"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if t.CategoryID == uuid.Nil {
		return errors.New("category ID is required")
	}

	if t.Kind == TransactionKindTransfer {
		return ErrTransferKindNotStored
	}
	if !IsValidStoredKind(t.Kind) {
		return ErrInvalidTransactionKind
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}

	return nil
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns +amount for income and -amount for expenses.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TransactionKindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsValidTransactionKind checks kinds accepted from callers, including TRANSFER.
func IsValidTransactionKind(kind string) bool {
	switch kind {
	case TransactionKindIncome, TransactionKindExpense, TransactionKindTransfer:
		return true
	default:
		return false
	}
}

// IsValidStoredKind checks kinds that may be persisted as a row.
func IsValidStoredKind(kind string) bool {
	return kind == TransactionKindIncome || kind == TransactionKindExpense
}

// NormalizeKind upper-cases user input; empty stays empty so inference can run.
func NormalizeKind(kind string) string {
	return strings.ToUpper(strings.TrimSpace(kind))
}

// TruncateToDay drops the clock part of a date, in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
