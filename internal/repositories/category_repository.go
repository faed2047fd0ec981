package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrCategoryNameExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories for user: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByUserIDAndKind(ctx context.Context, userID uuid.UUID, kind string) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND kind = ?", userID, kind).
		Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories by kind: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrCategoryNameExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes an unreferenced category together with its budgets.
// Categories of other users are reported as not found.
func (r *categoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get category: %w", err)
		}

		var refs int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count category transactions: %w", err)
		}
		if refs > 0 {
			return ErrCategoryInUse
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}

		if err := tx.Where("category_id = ? AND user_id = ?", id, userID).Delete(&models.Budget{}).Error; err != nil {
			return fmt.Errorf("failed to delete category budgets: %w", err)
		}
		return nil
	})
}

func (r *categoryRepository) ExistsByName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}
