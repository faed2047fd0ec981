package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

// Upsert inserts or updates each budget keyed by (user, category, month, year).
// The batch is written in one transaction.
func (r *budgetRepository) Upsert(ctx context.Context, budgets []models.Budget) error {
	if len(budgets) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range budgets {
			budgets[i].UpdatedAt = time.Now()
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "user_id"},
					{Name: "category_id"},
					{Name: "month"},
					{Name: "year"},
				},
				DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "updated_at"}),
			}).Create(&budgets[i]).Error
			if err != nil {
				return fmt.Errorf("failed to upsert budget: %w", err)
			}
		}
		return nil
	})
}

func (r *budgetRepository) GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// GetForCategory returns the budget of one category in a period
func (r *budgetRepository) GetForCategory(ctx context.Context, userID, categoryID uuid.UUID, period models.Period) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, int(period.Month), period.Year).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// GetByPeriod returns every budget the user configured for a period
func (r *budgetRepository) GetByPeriod(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, int(period.Month), period.Year).
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to get budgets for period: %w", err)
	}
	return budgets, nil
}

func (r *budgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
