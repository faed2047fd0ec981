package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateTransfer writes both legs of a transfer in one database transaction.
// The legs share a transfer id; either both rows are committed or neither is.
func (r *transactionRepository) CreateTransfer(ctx context.Context, debit, credit *models.Transaction) error {
	transferID := uuid.New()
	debit.TransferID = &transferID
	credit.TransferID = &transferID

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(debit).Error; err != nil {
			return fmt.Errorf("failed to create debit leg: %w", err)
		}
		if err := tx.Create(credit).Error; err != nil {
			return fmt.Errorf("failed to create credit leg: %w", err)
		}
		return nil
	})
}

// GetByIDForUser retrieves a transaction owned by userID
func (r *transactionRepository) GetByIDForUser(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	rows := []models.Transaction{transaction}
	if err := r.attachNames(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// GetByUserID retrieves every transaction of a user
func (r *transactionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for user: %w", err)
	}
	return transactions, nil
}

// GetByAccountID retrieves every transaction posted to one of the user's accounts
func (r *transactionRepository) GetByAccountID(ctx context.Context, userID, accountID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).Where("user_id = ? AND account_id = ?", userID, accountID).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for account: %w", err)
	}
	return transactions, nil
}

// GetWithFilters lists the user's transactions newest first
func (r *transactionRepository) GetWithFilters(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filters.AccountID != nil {
		query = query.Where("account_id = ?", *filters.AccountID)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.Description != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filters.Description)+"%")
	}
	if start, end, ok := filterRange(filters); ok {
		query = query.Where("date >= ? AND date < ?", start, end)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get filtered transactions: %w", err)
	}

	if err := r.attachNames(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// filterRange turns the year/month filter into a half-open date range.
// A month without a year is ignored.
func filterRange(filters models.TransactionFilters) (time.Time, time.Time, bool) {
	if filters.Year <= 0 {
		return time.Time{}, time.Time{}, false
	}
	if filters.Month >= 1 && filters.Month <= 12 {
		p := models.NewPeriod(filters.Year, time.Month(filters.Month))
		return p.Start(), p.End(), true
	}
	start := time.Date(filters.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0), true
}

// GetByDateRange retrieves the user's transactions in [start, end), optionally
// restricted to one account
func (r *transactionRepository) GetByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, accountID *uuid.UUID) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ? AND date >= ? AND date < ?", userID, start, end)
	if accountID != nil {
		query = query.Where("account_id = ?", *accountID)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

// GetRecent retrieves the newest transactions in [start, end)
func (r *transactionRepository) GetRecent(ctx context.Context, userID uuid.UUID, start, end time.Time, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, created_at DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}

	if err := r.attachNames(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Update saves every mutable field of a transaction
func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	result := r.db.WithContext(ctx).Model(transaction).
		Select("category_id", "kind", "amount", "date", "description", "updated_at").
		Where("user_id = ?", transaction.UserID).
		Updates(transaction)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a single row. The counterpart leg of a transfer is kept.
func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// attachNames fills the display names of accounts and categories
func (r *transactionRepository) attachNames(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	accountIDs := make([]uuid.UUID, 0, len(transactions))
	categoryIDs := make([]uuid.UUID, 0, len(transactions))
	for _, t := range transactions {
		accountIDs = append(accountIDs, t.AccountID)
		categoryIDs = append(categoryIDs, t.CategoryID)
	}

	var accounts []models.Account
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", accountIDs).Find(&accounts).Error; err != nil {
		return fmt.Errorf("failed to load account names: %w", err)
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load category names: %w", err)
	}

	accountNames := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	for i := range transactions {
		transactions[i].AccountName = accountNames[transactions[i].AccountID]
		transactions[i].CategoryName = categoryNames[transactions[i].CategoryID]
	}
	return nil
}
