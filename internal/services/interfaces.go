package services

import (
	"context"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountServiceInterface defines the account ledger operations
type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, input AccountInput) (*models.AccountBalance, error)
	GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.AccountBalance, error)
	ComputeBalance(ctx context.Context, userID, accountID uuid.UUID) (decimal.Decimal, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.AccountBalance, error)
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, update AccountUpdate) (*models.AccountBalance, error)
	DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

// CategoryServiceInterface defines category management operations
type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, userID uuid.UUID, input CategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

// TransactionServiceInterface defines posting, editing and listing of transactions
type TransactionServiceInterface interface {
	// PostTransaction returns the stored rows: one for income/expense, two for a transfer.
	PostTransaction(ctx context.Context, userID uuid.UUID, input PostTransactionInput) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error
}

// BudgetServiceInterface defines the budget engine
type BudgetServiceInterface interface {
	GetBudgetStatus(ctx context.Context, userID, categoryID uuid.UUID, period models.Period) (*models.BudgetStatus, error)
	ListBudgetStatuses(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.BudgetStatus, error)
	GetBudgetAlerts(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.BudgetStatus, error)
	SaveBudgets(ctx context.Context, userID uuid.UUID, entries []BudgetEntry) (*SaveBudgetsResult, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error
	RecommendLimit(ctx context.Context, userID, categoryID uuid.UUID) (decimal.Decimal, error)
	RecommendLimits(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// DashboardServiceInterface composes ledger, transactions and budgets into read snapshots
type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, userID uuid.UUID, period models.Period) (*models.DashboardSummary, error)
	GetReport(ctx context.Context, userID uuid.UUID, period models.Period, accountID *uuid.UUID) ([]models.ReportLine, error)
}

// Classifier turns a free-text description into a category name hint.
type Classifier interface {
	Suggest(ctx context.Context, description string) (string, error)
}

// SuggestionServiceInterface resolves classifier hints against the caller's categories
type SuggestionServiceInterface interface {
	SuggestCategory(ctx context.Context, userID uuid.UUID, description string) (*models.CategorySuggestion, error)
}

type CircuitBreakerInterface interface {
	Allow() bool
	Record(err error) (from, to models.CircuitBreakerState)
	State() models.CircuitBreakerState
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type LedgerLoggerInterface interface {
	LogTransactionPosted(ctx context.Context, userID uuid.UUID, tx *models.Transaction)
	LogTransferCompleted(ctx context.Context, userID uuid.UUID, transferID uuid.UUID, debitTxID, creditTxID uuid.UUID, durationMs int64)
	LogTransferFailed(ctx context.Context, userID uuid.UUID, sourceID, targetID uuid.UUID, errorMsg string, durationMs int64)
	LogBudgetsSaved(ctx context.Context, userID uuid.UUID, saved, skipped int)
	LogDeleteBlocked(ctx context.Context, userID uuid.UUID, entityType string, entityID uuid.UUID)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
	LogClassifierFallback(ctx context.Context, userID uuid.UUID, errorMsg string)
}

type TokenServiceInterface interface {
	GenerateAccessToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}
