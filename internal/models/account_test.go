package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Validate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{
			name:    "valid checking account",
			account: Account{UserID: userID, Name: "Checking", AccountType: AccountTypeChecking},
		},
		{
			name:    "credit card with negative initial balance",
			account: Account{UserID: userID, Name: "Visa", AccountType: AccountTypeCreditCard, InitialBalance: decimal.NewFromInt(-250)},
		},
		{
			name:    "missing name",
			account: Account{UserID: userID, Name: "   ", AccountType: AccountTypeSavings},
			wantErr: ErrAccountNameMissing,
		},
		{
			name:    "name too long",
			account: Account{UserID: userID, Name: strings.Repeat("a", 101), AccountType: AccountTypeSavings},
			wantErr: ErrAccountNameTooLong,
		},
		{
			name:    "lowercase type is rejected",
			account: Account{UserID: userID, Name: "Savings", AccountType: "savings"},
			wantErr: ErrInvalidAccountType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccount_ValidateRequiresUser(t *testing.T) {
	account := Account{Name: "Checking", AccountType: AccountTypeChecking}
	assert.EqualError(t, account.Validate(), "user ID is required")
}

func TestNormalizeAccountType(t *testing.T) {
	assert.Equal(t, AccountTypeCreditCard, NormalizeAccountType(" credit_card "))
	assert.True(t, IsValidAccountType(NormalizeAccountType("checking")))
}

func TestComputeBalance(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Kind: TransactionKindExpense, Amount: decimal.NewFromInt(200), Date: day},
		{Kind: TransactionKindIncome, Amount: decimal.NewFromInt(500), Date: day},
		{Kind: TransactionKindExpense, Amount: decimal.RequireFromString("19.99"), Date: day},
	}

	balance := ComputeBalance(decimal.NewFromInt(1000), txs)
	assert.Equal(t, "1280.01", balance.String())

	reversed := []Transaction{txs[2], txs[1], txs[0]}
	assert.True(t, balance.Equal(ComputeBalance(decimal.NewFromInt(1000), reversed)))

	assert.True(t, ComputeBalance(decimal.NewFromInt(42), nil).Equal(decimal.NewFromInt(42)))
}
