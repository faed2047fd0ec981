package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements AccountServiceInterface. Balances are always
// derived from the stored transactions and never cached.
type accountService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	ledgerLogger    LedgerLoggerInterface
	logger          *slog.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	ledgerLogger LedgerLoggerInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	return &accountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ledgerLogger:    ledgerLogger,
		logger:          logger,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, userID uuid.UUID, input AccountInput) (*models.AccountBalance, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	accountType := models.NormalizeAccountType(input.AccountType)
	if !models.IsValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}

	exists, err := s.accountRepo.ExistsByName(ctx, userID, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check account name: %w", err)
	}
	if exists {
		return nil, ErrAccountNameTaken
	}

	account := &models.Account{
		UserID:         userID,
		Name:           name,
		AccountType:    accountType,
		InitialBalance: input.InitialBalance.Round(2),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrAccountNameExists) {
			return nil, ErrAccountNameTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account created",
		"user_id", userID, "account_id", account.ID, "account_type", accountType)

	return &models.AccountBalance{Account: *account, Balance: account.InitialBalance}, nil
}

func (s *accountService) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.AccountBalance, error) {
	account, err := s.getOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balanceOf(ctx, account)
	if err != nil {
		return nil, err
	}

	return &models.AccountBalance{Account: *account, Balance: balance}, nil
}

// ComputeBalance returns initial balance plus the signed sum of the account's transactions
func (s *accountService) ComputeBalance(ctx context.Context, userID, accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.getOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.balanceOf(ctx, account)
}

// ListAccounts returns the user's accounts ordered by name with computed balances
func (s *accountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.AccountBalance, error) {
	accounts, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	transactions, err := s.transactionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	byAccount := make(map[uuid.UUID][]models.Transaction, len(accounts))
	for _, t := range transactions {
		byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
	}

	result := make([]models.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, models.AccountBalance{
			Account: account,
			Balance: models.ComputeBalance(account.InitialBalance, byAccount[account.ID]),
		})
	}

	return result, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, update AccountUpdate) (*models.AccountBalance, error) {
	account, err := s.getOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		if name != account.Name {
			exists, err := s.accountRepo.ExistsByName(ctx, userID, name, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check account name: %w", err)
			}
			if exists {
				return nil, ErrAccountNameTaken
			}
		}
		account.Name = name
	}

	if update.AccountType != nil {
		accountType := models.NormalizeAccountType(*update.AccountType)
		if !models.IsValidAccountType(accountType) {
			return nil, ErrInvalidAccountType
		}
		account.AccountType = accountType
	}

	if update.InitialBalance != nil {
		account.InitialBalance = update.InitialBalance.Round(2)
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrAccountNameExists) {
			return nil, ErrAccountNameTaken
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	balance, err := s.balanceOf(ctx, account)
	if err != nil {
		return nil, err
	}

	return &models.AccountBalance{Account: *account, Balance: balance}, nil
}

// DeleteAccount removes an account that no transaction references
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	err := s.accountRepo.Delete(ctx, userID, accountID)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "account deleted", "user_id", userID, "account_id", accountID)
		return nil
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repositories.ErrAccountInUse):
		s.ledgerLogger.LogDeleteBlocked(ctx, userID, "account", accountID)
		return ErrAccountInUse
	default:
		return fmt.Errorf("failed to delete account: %w", err)
	}
}

func (s *accountService) getOwnedAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.GetByIDForUser(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) balanceOf(ctx context.Context, account *models.Account) (decimal.Decimal, error) {
	transactions, err := s.transactionRepo.GetByAccountID(ctx, account.UserID, account.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load account transactions: %w", err)
	}
	return models.ComputeBalance(account.InitialBalance, transactions), nil
}
