package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxAmount is the largest value a decimal(15,2) amount column holds.
var maxAmount = decimal.RequireFromString("9999999999999.99")

type transactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	accountRepo     repositories.AccountRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	ledgerLogger    LedgerLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	accountRepo repositories.AccountRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	ledgerLogger LedgerLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		ledgerLogger:    ledgerLogger,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// PostTransaction validates and stores a posting. Transfers are written as
// two legs in a single store transaction.
func (s *transactionService) PostTransaction(ctx context.Context, userID uuid.UUID, input PostTransactionInput) ([]models.Transaction, error) {
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	input.Amount = amount

	if input.Date.IsZero() {
		return nil, ErrDateRequired
	}
	date := models.TruncateToDay(input.Date)
	if date.After(models.TruncateToDay(s.now())) {
		return nil, ErrFutureDate
	}

	kind := models.NormalizeKind(input.Kind)
	if kind != "" && !models.IsValidTransactionKind(kind) {
		return nil, ErrInvalidKind
	}

	description := strings.TrimSpace(input.Description)
	if kind != models.TransactionKindTransfer && description == "" {
		return nil, ErrDescriptionRequired
	}

	account, err := s.getAccount(ctx, userID, input.AccountID)
	if err != nil {
		return nil, err
	}

	category, err := s.getCategory(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if kind == "" {
		kind = inferKindFromCategory(category)
	}

	if kind == models.TransactionKindTransfer {
		input.Date = date
		input.Description = description
		return s.postTransfer(ctx, userID, account, category, input)
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Kind:        kind,
		Amount:      input.Amount,
		Date:        date,
		Description: description,
		IsAnomaly:   input.IsAnomaly,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		s.metrics.IncrementCounter(MetricTransactionPosted, map[string]string{"kind": kind, "status": "failed"})
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	transaction.AccountName = account.Name
	transaction.CategoryName = category.Name

	s.metrics.IncrementCounter(MetricTransactionPosted, map[string]string{"kind": kind, "status": "success"})
	s.ledgerLogger.LogTransactionPosted(ctx, userID, transaction)

	return []models.Transaction{*transaction}, nil
}

func (s *transactionService) postTransfer(ctx context.Context, userID uuid.UUID, source *models.Account, category *models.Category, input PostTransactionInput) ([]models.Transaction, error) {
	if input.TargetAccountID == nil || *input.TargetAccountID == uuid.Nil {
		return nil, ErrTransferTargetRequired
	}
	if *input.TargetAccountID == source.ID {
		return nil, ErrSameAccountTransfer
	}

	target, err := s.getAccount(ctx, userID, *input.TargetAccountID)
	if err != nil {
		return nil, err
	}

	amount := input.Amount
	debit := &models.Transaction{
		UserID:      userID,
		AccountID:   source.ID,
		CategoryID:  category.ID,
		Kind:        models.TransactionKindExpense,
		Amount:      amount,
		Date:        input.Date,
		Description: transferDescription("Transfer to "+target.Name, input.Description),
		IsAnomaly:   input.IsAnomaly,
	}
	credit := &models.Transaction{
		UserID:      userID,
		AccountID:   target.ID,
		CategoryID:  category.ID,
		Kind:        models.TransactionKindIncome,
		Amount:      amount,
		Date:        input.Date,
		Description: transferDescription("Transfer from "+source.Name, input.Description),
		IsAnomaly:   input.IsAnomaly,
	}

	start := s.now()
	err = s.transactionRepo.CreateTransfer(ctx, debit, credit)
	duration := s.now().Sub(start)
	s.metrics.RecordProcessingTime(MetricTransferDuration, duration)

	if err != nil {
		s.metrics.IncrementCounter(MetricTransfer, map[string]string{"status": "failed"})
		s.ledgerLogger.LogTransferFailed(ctx, userID, source.ID, target.ID, err.Error(), duration.Milliseconds())
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	debit.AccountName, debit.CategoryName = source.Name, category.Name
	credit.AccountName, credit.CategoryName = target.Name, category.Name

	s.metrics.IncrementCounter(MetricTransfer, map[string]string{"status": "success"})
	s.ledgerLogger.LogTransferCompleted(ctx, userID, *debit.TransferID, debit.ID, credit.ID, duration.Milliseconds())

	return []models.Transaction{*debit, *credit}, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByIDForUser(ctx, userID, transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// ListTransactions returns the user's transactions, newest date first.
func (s *transactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error) {
	if filters.Month != 0 && (filters.Year == 0 || filters.Month < 1 || filters.Month > 12) {
		return nil, ErrInvalidFilter
	}
	if filters.Kind != "" {
		filters.Kind = models.NormalizeKind(filters.Kind)
		if !models.IsValidStoredKind(filters.Kind) {
			return nil, ErrInvalidKind
		}
	}
	filters.Description = strings.TrimSpace(filters.Description)

	transactions, err := s.transactionRepo.GetWithFilters(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// UpdateTransaction edits one stored row. The other leg of a transfer is
// left untouched.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if update.Amount != nil {
		amount, err := normalizeAmount(*update.Amount)
		if err != nil {
			return nil, err
		}
		transaction.Amount = amount
	}

	if update.Date != nil {
		if update.Date.IsZero() {
			return nil, ErrDateRequired
		}
		date := models.TruncateToDay(*update.Date)
		if date.After(models.TruncateToDay(s.now())) {
			return nil, ErrFutureDate
		}
		transaction.Date = date
	}

	if update.Kind != nil {
		kind := models.NormalizeKind(*update.Kind)
		if !models.IsValidStoredKind(kind) {
			return nil, ErrInvalidKind
		}
		transaction.Kind = kind
	}

	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		transaction.Description = description
	}

	if update.CategoryID != nil {
		category, err := s.getCategory(ctx, userID, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		transaction.CategoryID = category.ID
		transaction.CategoryName = category.Name
	}

	if err := s.transactionRepo.Update(ctx, transaction); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return transaction, nil
}

// DeleteTransaction removes a single row; a transfer counterpart survives.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, userID, transactionID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "transaction deleted", "user_id", userID, "transaction_id", transactionID)
	return nil
}

func (s *transactionService) getAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.GetByIDForUser(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *transactionService) getCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDForUser(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// inferKindFromCategory picks the posting kind when the caller sends none.
// Categories of an unexpected kind fall back to EXPENSE.
func inferKindFromCategory(category *models.Category) string {
	switch category.Kind {
	case models.CategoryKindIncome:
		return models.TransactionKindIncome
	default:
		return models.TransactionKindExpense
	}
}

// normalizeAmount rounds to cents and checks the result fits a positive
// decimal(15,2) column.
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() || rounded.GreaterThan(maxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return rounded, nil
}

func transferDescription(prefix, note string) string {
	if note == "" {
		return prefix
	}
	return prefix + ": " + note
}
