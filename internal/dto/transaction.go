package dto

import (
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Date is a calendar day encoded as YYYY-MM-DD. Full RFC 3339 timestamps
// are accepted too and truncated to the day.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: dateLayout, Value: s, Message: ": date must be a string"}
	}
	s = s[1 : len(s)-1]

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		var rfcErr error
		t, rfcErr = time.Parse(time.RFC3339, s)
		if rfcErr != nil {
			return err
		}
	}
	d.Time = models.TruncateToDay(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// CreateTransactionRequest represents a posting. transaction_type may be
// omitted and is then inferred from the category.
type CreateTransactionRequest struct {
	Date            Date            `json:"date"`
	Description     string          `json:"description" validate:"max=255"`
	Amount          decimal.Decimal `json:"amount"`
	AccountID       uuid.UUID       `json:"account_id" validate:"required"`
	CategoryID      uuid.UUID       `json:"category_id" validate:"required"`
	Kind            string          `json:"transaction_type" validate:"omitempty,transaction_kind"`
	TargetAccountID *uuid.UUID      `json:"target_account_id"`
	IsAnomaly       bool            `json:"is_anomaly"`
}

type UpdateTransactionRequest struct {
	Date        *Date            `json:"date"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Kind        *string          `json:"transaction_type" validate:"omitempty,transaction_kind"`
}

// PostTransactionResponse lists the stored rows; transfers produce two.
type PostTransactionResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
}
