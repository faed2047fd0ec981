package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accountRepository implements AccountRepositoryInterface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrAccountNameExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByIDForUser retrieves an account owned by userID. Accounts of other
// users are reported as not found.
func (r *accountRepository) GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByUserID retrieves all accounts for a user ordered by name
func (r *accountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

// Update updates an account
func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrAccountNameExists
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// Delete removes an account that no transaction references. Ownership is
// checked before the reference count so a foreign account is never reported
// as in use.
func (r *accountRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to get account: %w", err)
		}

		var refs int64
		if err := tx.Model(&models.Transaction{}).Where("account_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count account transactions: %w", err)
		}
		if refs > 0 {
			return ErrAccountInUse
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Account{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

// ExistsByName checks whether the user already has an account with name,
// ignoring excludeID so an account can keep its own name on update.
func (r *accountRepository) ExistsByName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Account{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account name: %w", err)
	}
	return count > 0, nil
}
