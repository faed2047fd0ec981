package repositories

import (
	"context"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

// AccountRepositoryInterface defines the contract for account repository operations
type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *models.Account) error
	GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ExistsByName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	GetByUserIDAndKind(ctx context.Context, userID uuid.UUID, kind string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ExistsByName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	CreateTransfer(ctx context.Context, debit, credit *models.Transaction) error
	GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	GetByAccountID(ctx context.Context, userID, accountID uuid.UUID) ([]models.Transaction, error)
	GetWithFilters(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error)
	GetByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, accountID *uuid.UUID) ([]models.Transaction, error)
	GetRecent(ctx context.Context, userID uuid.UUID, start, end time.Time, limit int) ([]models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// BudgetRepositoryInterface defines the contract for budget repository operations
type BudgetRepositoryInterface interface {
	Upsert(ctx context.Context, budgets []models.Budget) error
	GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error)
	GetForCategory(ctx context.Context, userID, categoryID uuid.UUID, period models.Period) (*models.Budget, error)
	GetByPeriod(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.Budget, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
