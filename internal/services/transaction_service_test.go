package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"finance-ledger/internal/database"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/repositories/repository_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 10, 20, 15, 30, 0, 0, time.UTC)

// TransactionServiceSuite runs the transaction processor against an
// in-memory store.
type TransactionServiceSuite struct {
	suite.Suite
	db          *database.DB
	ctx         context.Context
	service     *transactionService
	accounts    *accountService
	userID      uuid.UUID
	checking    *models.Account
	savings     *models.Account
	groceries   *models.Category
	salary      *models.Category
	transferCat *models.Category
}

func (s *TransactionServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.ctx = context.Background()

	accountRepo := repositories.NewAccountRepository(s.db.DB)
	categoryRepo := repositories.NewCategoryRepository(s.db.DB)
	transactionRepo := repositories.NewTransactionRepository(s.db.DB)
	ledgerLogger := NewLedgerLogger(slog.Default())

	s.service = NewTransactionService(transactionRepo, accountRepo, categoryRepo, ledgerLogger,
		NewPrometheusMetrics(prometheus.NewRegistry()), slog.Default()).(*transactionService)
	s.service.now = func() time.Time { return testNow }
	s.accounts = NewAccountService(accountRepo, transactionRepo, ledgerLogger, slog.Default()).(*accountService)

	s.userID = uuid.New()
	s.checking = database.CreateTestAccount(s.T(), s.db, s.userID, "Checking", decimal.NewFromInt(1000))
	s.savings = database.CreateTestAccount(s.T(), s.db, s.userID, "Savings", decimal.NewFromInt(200))
	s.groceries = database.CreateTestCategory(s.T(), s.db, s.userID, "Groceries", models.CategoryKindExpense)
	s.salary = database.CreateTestCategory(s.T(), s.db, s.userID, "Salary", models.CategoryKindIncome)
	s.transferCat = database.CreateTestCategory(s.T(), s.db, s.userID, "Transfers", models.CategoryKindExpense)
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) post(input PostTransactionInput) []models.Transaction {
	rows, err := s.service.PostTransaction(s.ctx, s.userID, input)
	s.Require().NoError(err)
	return rows
}

func (s *TransactionServiceSuite) balance(account *models.Account) decimal.Decimal {
	balance, err := s.accounts.ComputeBalance(s.ctx, s.userID, account.ID)
	s.Require().NoError(err)
	return balance
}

func (s *TransactionServiceSuite) countRows() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Transaction{}).Count(&count).Error)
	return count
}

func (s *TransactionServiceSuite) TestPostTransaction_Expense() {
	rows := s.post(PostTransactionInput{
		Date:        testNow.AddDate(0, 0, -1),
		Description: gofakeit.Sentence(5),
		Amount:      decimal.NewFromInt(200),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
		Kind:        "expense",
	})

	s.Require().Len(rows, 1)
	s.Equal(models.TransactionKindExpense, rows[0].Kind)
	s.Equal("Checking", rows[0].AccountName)
	s.Equal("Groceries", rows[0].CategoryName)
	s.True(s.balance(s.checking).Equal(decimal.NewFromInt(800)))
}

func (s *TransactionServiceSuite) TestPostTransaction_InfersKindFromCategory() {
	rows := s.post(PostTransactionInput{
		Date:        testNow,
		Description: "October payroll",
		Amount:      decimal.NewFromInt(500),
		AccountID:   s.checking.ID,
		CategoryID:  s.salary.ID,
	})
	s.Equal(models.TransactionKindIncome, rows[0].Kind)

	rows = s.post(PostTransactionInput{
		Date:        testNow,
		Description: "Market",
		Amount:      decimal.NewFromInt(40),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	})
	s.Equal(models.TransactionKindExpense, rows[0].Kind)
}

func (s *TransactionServiceSuite) TestInferKindFromCategory_UnknownKindFallsBackToExpense() {
	s.Equal(models.TransactionKindExpense, inferKindFromCategory(&models.Category{Kind: "SAVINGS_GOAL"}))
	s.Equal(models.TransactionKindIncome, inferKindFromCategory(&models.Category{Kind: models.CategoryKindIncome}))
}

func (s *TransactionServiceSuite) TestPostTransaction_Validation() {
	base := PostTransactionInput{
		Date:        testNow,
		Description: "Coffee",
		Amount:      decimal.NewFromInt(5),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	}

	cases := []struct {
		name   string
		mutate func(in *PostTransactionInput)
		want   error
	}{
		{"zero amount", func(in *PostTransactionInput) { in.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(in *PostTransactionInput) { in.Amount = decimal.NewFromInt(-3) }, ErrInvalidAmount},
		{"sub-cent amount", func(in *PostTransactionInput) { in.Amount = decimal.RequireFromString("0.004") }, ErrInvalidAmount},
		{"amount beyond column range", func(in *PostTransactionInput) {
			in.Amount = decimal.RequireFromString("10000000000000")
		}, ErrInvalidAmount},
		{"sub-cent transfer", func(in *PostTransactionInput) {
			target := s.savings.ID
			in.Amount = decimal.RequireFromString("0.004")
			in.Kind = models.TransactionKindTransfer
			in.CategoryID = s.transferCat.ID
			in.TargetAccountID = &target
		}, ErrInvalidAmount},
		{"missing date", func(in *PostTransactionInput) { in.Date = time.Time{} }, ErrDateRequired},
		{"future date", func(in *PostTransactionInput) { in.Date = testNow.AddDate(0, 0, 1) }, ErrFutureDate},
		{"unknown kind", func(in *PostTransactionInput) { in.Kind = "REFUND" }, ErrInvalidKind},
		{"missing description", func(in *PostTransactionInput) { in.Description = "  " }, ErrDescriptionRequired},
		{"foreign account", func(in *PostTransactionInput) { in.AccountID = uuid.New() }, ErrAccountNotFound},
		{"foreign category", func(in *PostTransactionInput) { in.CategoryID = uuid.New() }, ErrCategoryNotFound},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			input := base
			tc.mutate(&input)
			_, err := s.service.PostTransaction(s.ctx, s.userID, input)
			s.ErrorIs(err, tc.want)
		})
	}
	s.Zero(s.countRows())
}

func (s *TransactionServiceSuite) TestPostTransaction_LaterSameDayIsNotFuture() {
	s.post(PostTransactionInput{
		Date:        time.Date(2025, 10, 20, 23, 59, 0, 0, time.UTC),
		Description: "Late dinner",
		Amount:      decimal.NewFromInt(30),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	})
}

func (s *TransactionServiceSuite) TestPostTransaction_OtherUserCannotUseAccount() {
	_, err := s.service.PostTransaction(s.ctx, uuid.New(), PostTransactionInput{
		Date:        testNow,
		Description: "Not mine",
		Amount:      decimal.NewFromInt(10),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	})
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *TransactionServiceSuite) TestTransfer_MovesMoneyBetweenAccounts() {
	beforeChecking, beforeSavings := s.balance(s.checking), s.balance(s.savings)
	target := s.savings.ID

	rows := s.post(PostTransactionInput{
		Date:            testNow,
		Description:     "rainy day fund",
		Amount:          decimal.NewFromInt(150),
		AccountID:       s.checking.ID,
		CategoryID:      s.transferCat.ID,
		Kind:            "TRANSFER",
		TargetAccountID: &target,
	})

	s.Require().Len(rows, 2)
	s.Equal(models.TransactionKindExpense, rows[0].Kind)
	s.Equal(models.TransactionKindIncome, rows[1].Kind)
	s.Equal("Transfer to Savings: rainy day fund", rows[0].Description)
	s.Equal("Transfer from Checking: rainy day fund", rows[1].Description)
	s.Require().NotNil(rows[0].TransferID)
	s.Equal(*rows[0].TransferID, *rows[1].TransferID)

	s.Equal(int64(2), s.countRows())
	s.True(s.balance(s.checking).Equal(beforeChecking.Sub(decimal.NewFromInt(150))))
	s.True(s.balance(s.savings).Equal(beforeSavings.Add(decimal.NewFromInt(150))))
}

func (s *TransactionServiceSuite) TestTransfer_WithoutNote() {
	target := s.savings.ID
	rows := s.post(PostTransactionInput{
		Date:            testNow,
		Amount:          decimal.NewFromInt(10),
		AccountID:       s.checking.ID,
		CategoryID:      s.transferCat.ID,
		Kind:            models.TransactionKindTransfer,
		TargetAccountID: &target,
	})
	s.Equal("Transfer to Savings", rows[0].Description)
	s.Equal("Transfer from Checking", rows[1].Description)
}

func (s *TransactionServiceSuite) TestTransfer_Validation() {
	input := PostTransactionInput{
		Date:       testNow,
		Amount:     decimal.NewFromInt(10),
		AccountID:  s.checking.ID,
		CategoryID: s.transferCat.ID,
		Kind:       models.TransactionKindTransfer,
	}

	_, err := s.service.PostTransaction(s.ctx, s.userID, input)
	s.ErrorIs(err, ErrTransferTargetRequired)

	same := s.checking.ID
	input.TargetAccountID = &same
	_, err = s.service.PostTransaction(s.ctx, s.userID, input)
	s.ErrorIs(err, ErrSameAccountTransfer)

	foreign := uuid.New()
	input.TargetAccountID = &foreign
	_, err = s.service.PostTransaction(s.ctx, s.userID, input)
	s.ErrorIs(err, ErrAccountNotFound)

	s.Zero(s.countRows())
}

func (s *TransactionServiceSuite) TestTransfer_SecondLegFailureLeavesNoRows() {
	err := s.db.Callback().Create().Before("gorm:create").Register("test:fail_credit_leg", func(tx *gorm.DB) {
		if t, ok := tx.Statement.Dest.(*models.Transaction); ok && t.Kind == models.TransactionKindIncome {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	s.Require().NoError(err)

	target := s.savings.ID
	_, err = s.service.PostTransaction(s.ctx, s.userID, PostTransactionInput{
		Date:            testNow,
		Amount:          decimal.NewFromInt(75),
		AccountID:       s.checking.ID,
		CategoryID:      s.transferCat.ID,
		Kind:            models.TransactionKindTransfer,
		TargetAccountID: &target,
	})

	s.ErrorIs(err, ErrTransferFailed)
	s.Zero(s.countRows())
	s.True(s.balance(s.checking).Equal(decimal.NewFromInt(1000)))
	s.True(s.balance(s.savings).Equal(decimal.NewFromInt(200)))
}

func (s *TransactionServiceSuite) TestBalance_IndependentOfInsertionOrder() {
	amounts := []int64{120, 35, 980, 5}
	for i, amount := range amounts {
		category := s.groceries
		if i%2 == 0 {
			category = s.salary
		}
		s.post(PostTransactionInput{
			Date:        testNow.AddDate(0, 0, -len(amounts)+i),
			Description: gofakeit.Company(),
			Amount:      decimal.NewFromInt(amount),
			AccountID:   s.checking.ID,
			CategoryID:  category.ID,
		})
	}

	// 1000 + 120 - 35 + 980 - 5
	s.True(s.balance(s.checking).Equal(decimal.NewFromInt(2060)))
}

func (s *TransactionServiceSuite) TestUpdateTransaction() {
	rows := s.post(PostTransactionInput{
		Date:        testNow,
		Description: "Groceries",
		Amount:      decimal.NewFromInt(60),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	})

	amount := decimal.NewFromInt(80)
	description := "Weekly groceries"
	updated, err := s.service.UpdateTransaction(s.ctx, s.userID, rows[0].ID, TransactionUpdate{
		Amount:      &amount,
		Description: &description,
	})
	s.Require().NoError(err)
	s.Equal(description, updated.Description)
	s.True(s.balance(s.checking).Equal(decimal.NewFromInt(920)))
}

func (s *TransactionServiceSuite) TestUpdateTransaction_Rejections() {
	rows := s.post(PostTransactionInput{
		Date:        testNow,
		Description: "Groceries",
		Amount:      decimal.NewFromInt(60),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	})

	transfer := models.TransactionKindTransfer
	_, err := s.service.UpdateTransaction(s.ctx, s.userID, rows[0].ID, TransactionUpdate{Kind: &transfer})
	s.ErrorIs(err, ErrInvalidKind)

	foreignCategory := database.CreateTestCategory(s.T(), s.db, uuid.New(), "Elsewhere", models.CategoryKindExpense)
	_, err = s.service.UpdateTransaction(s.ctx, s.userID, rows[0].ID, TransactionUpdate{CategoryID: &foreignCategory.ID})
	s.ErrorIs(err, ErrCategoryNotFound)

	for _, raw := range []string{"0", "0.004", "-1", "10000000000000"} {
		amount := decimal.RequireFromString(raw)
		_, err = s.service.UpdateTransaction(s.ctx, s.userID, rows[0].ID, TransactionUpdate{Amount: &amount})
		s.ErrorIs(err, ErrInvalidAmount, raw)
	}

	_, err = s.service.UpdateTransaction(s.ctx, uuid.New(), rows[0].ID, TransactionUpdate{})
	s.ErrorIs(err, ErrTransactionNotFound)

	stored, err := s.service.GetTransaction(s.ctx, s.userID, rows[0].ID)
	s.Require().NoError(err)
	s.True(stored.Amount.Equal(decimal.NewFromInt(60)))
}

func (s *TransactionServiceSuite) TestPostTransaction_RoundsToCents() {
	rows := s.post(PostTransactionInput{
		Date:        testNow,
		Description: "Parking",
		Amount:      decimal.RequireFromString("3.456"),
		AccountID:   s.checking.ID,
		CategoryID:  s.groceries.ID,
	})
	s.True(rows[0].Amount.Equal(decimal.RequireFromString("3.46")))
}

func (s *TransactionServiceSuite) TestDeleteTransferLeg_KeepsCounterpart() {
	target := s.savings.ID
	rows := s.post(PostTransactionInput{
		Date:            testNow,
		Amount:          decimal.NewFromInt(100),
		AccountID:       s.checking.ID,
		CategoryID:      s.transferCat.ID,
		Kind:            models.TransactionKindTransfer,
		TargetAccountID: &target,
	})

	s.Require().NoError(s.service.DeleteTransaction(s.ctx, s.userID, rows[0].ID))
	s.Equal(int64(1), s.countRows())
	s.True(s.balance(s.checking).Equal(decimal.NewFromInt(1000)))
	s.True(s.balance(s.savings).Equal(decimal.NewFromInt(300)))

	s.ErrorIs(s.service.DeleteTransaction(s.ctx, s.userID, rows[0].ID), ErrTransactionNotFound)
}

func (s *TransactionServiceSuite) TestListTransactions_Filters() {
	s.post(PostTransactionInput{Date: testNow, Description: "Whole Foods Market", Amount: decimal.NewFromInt(80),
		AccountID: s.checking.ID, CategoryID: s.groceries.ID})
	s.post(PostTransactionInput{Date: testNow.AddDate(0, -1, 0), Description: "Farmers market", Amount: decimal.NewFromInt(20),
		AccountID: s.savings.ID, CategoryID: s.groceries.ID})
	s.post(PostTransactionInput{Date: testNow, Description: "Payroll", Amount: decimal.NewFromInt(2000),
		AccountID: s.checking.ID, CategoryID: s.salary.ID})

	rows, err := s.service.ListTransactions(s.ctx, s.userID, models.TransactionFilters{Description: "MARKET"})
	s.Require().NoError(err)
	s.Len(rows, 2)
	s.True(rows[0].Date.After(rows[1].Date))

	rows, err = s.service.ListTransactions(s.ctx, s.userID, models.TransactionFilters{Year: 2025, Month: 10})
	s.Require().NoError(err)
	s.Len(rows, 2)

	rows, err = s.service.ListTransactions(s.ctx, s.userID, models.TransactionFilters{AccountID: &s.savings.ID})
	s.Require().NoError(err)
	s.Len(rows, 1)

	_, err = s.service.ListTransactions(s.ctx, s.userID, models.TransactionFilters{Month: 10})
	s.ErrorIs(err, ErrInvalidFilter)

	_, err = s.service.ListTransactions(s.ctx, s.userID, models.TransactionFilters{Year: 2025, Month: 13})
	s.ErrorIs(err, ErrInvalidFilter)
}

// TransactionServiceMockSuite covers the store error paths with mocked repositories.
type TransactionServiceMockSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	accountRepo     *repository_mocks.MockAccountRepositoryInterface
	categoryRepo    *repository_mocks.MockCategoryRepositoryInterface
	service         *transactionService
	ctx             context.Context
	userID          uuid.UUID
}

func (s *TransactionServiceMockSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.accountRepo = repository_mocks.NewMockAccountRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.service = NewTransactionService(s.transactionRepo, s.accountRepo, s.categoryRepo,
		NewLedgerLogger(slog.Default()), NewPrometheusMetrics(prometheus.NewRegistry()), slog.Default()).(*transactionService)
	s.service.now = func() time.Time { return testNow }
	s.ctx = context.Background()
	s.userID = uuid.New()
}

func (s *TransactionServiceMockSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestTransactionServiceMockSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceMockSuite))
}

func (s *TransactionServiceMockSuite) TestTransferStoreErrorWrapsTransferFailed() {
	source := &models.Account{ID: uuid.New(), UserID: s.userID, Name: "Checking"}
	target := &models.Account{ID: uuid.New(), UserID: s.userID, Name: "Savings"}
	category := &models.Category{ID: uuid.New(), UserID: s.userID, Name: "Transfers", Kind: models.CategoryKindExpense}

	s.accountRepo.EXPECT().GetByIDForUser(s.ctx, s.userID, source.ID).Return(source, nil)
	s.categoryRepo.EXPECT().GetByIDForUser(s.ctx, s.userID, category.ID).Return(category, nil)
	s.accountRepo.EXPECT().GetByIDForUser(s.ctx, s.userID, target.ID).Return(target, nil)
	s.transactionRepo.EXPECT().CreateTransfer(s.ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, debit, credit *models.Transaction) error {
			s.Equal(source.ID, debit.AccountID)
			s.Equal(target.ID, credit.AccountID)
			s.True(debit.Amount.Equal(credit.Amount))
			s.Equal(debit.Date, credit.Date)
			return errors.New("deadlock detected")
		})

	_, err := s.service.PostTransaction(s.ctx, s.userID, PostTransactionInput{
		Date:            testNow,
		Amount:          decimal.NewFromInt(10),
		AccountID:       source.ID,
		CategoryID:      category.ID,
		Kind:            models.TransactionKindTransfer,
		TargetAccountID: &target.ID,
	})
	s.ErrorIs(err, ErrTransferFailed)
}

func (s *TransactionServiceMockSuite) TestValidationRunsBeforeStoreLookups() {
	_, err := s.service.PostTransaction(s.ctx, s.userID, PostTransactionInput{
		Date:        testNow,
		Description: "x",
		Amount:      decimal.NewFromInt(-1),
		AccountID:   uuid.New(),
		CategoryID:  uuid.New(),
	})
	s.ErrorIs(err, ErrInvalidAmount)
}
