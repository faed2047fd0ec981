package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance-ledger/internal/database"
	"finance-ledger/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TransactionRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     TransactionRepositoryInterface
	ctx      context.Context
	userID   uuid.UUID
	checking *models.Account
	savings  *models.Account
	food     *models.Category
	salary   *models.Category
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.ctx = context.Background()
	s.userID = uuid.New()

	s.checking = database.CreateTestAccount(s.T(), s.db, s.userID, "Checking", decimal.NewFromInt(1000))
	s.savings = database.CreateTestAccount(s.T(), s.db, s.userID, "Savings", decimal.NewFromInt(500))
	s.food = database.CreateTestCategory(s.T(), s.db, s.userID, "Food & Dining", models.CategoryKindExpense)
	s.salary = database.CreateTestCategory(s.T(), s.db, s.userID, "Salary", models.CategoryKindIncome)
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func (s *TransactionRepositorySuite) newTransaction(account *models.Account, category *models.Category, kind string, amount string, date time.Time) *models.Transaction {
	return &models.Transaction{
		UserID:      s.userID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Kind:        kind,
		Amount:      decimal.RequireFromString(amount),
		Date:        models.TruncateToDay(date),
		Description: gofakeit.Sentence(4),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func (s *TransactionRepositorySuite) TestCreateAndGet() {
	tx := s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "42.10", day(2025, 5, 3))
	s.Require().NoError(s.repo.Create(s.ctx, tx))

	found, err := s.repo.GetByIDForUser(s.ctx, s.userID, tx.ID)
	s.NoError(err)
	s.True(found.Amount.Equal(decimal.RequireFromString("42.10")))
	s.Equal("Checking", found.AccountName)
	s.Equal("Food & Dining", found.CategoryName)
	s.False(found.IsAnomaly)
	s.Nil(found.TransferID)

	_, err = s.repo.GetByIDForUser(s.ctx, uuid.New(), tx.ID)
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestCreate_RejectsTransferKind() {
	tx := s.newTransaction(s.checking, s.food, models.TransactionKindTransfer, "10", day(2025, 5, 3))
	s.Error(s.repo.Create(s.ctx, tx))
}

func (s *TransactionRepositorySuite) TestCreateTransfer() {
	debit := s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "200", day(2025, 5, 10))
	credit := s.newTransaction(s.savings, s.food, models.TransactionKindIncome, "200", day(2025, 5, 10))

	s.Require().NoError(s.repo.CreateTransfer(s.ctx, debit, credit))
	s.Require().NotNil(debit.TransferID)
	s.Equal(*debit.TransferID, *credit.TransferID)

	var legs []models.Transaction
	s.NoError(s.db.Where("transfer_id = ?", *debit.TransferID).Find(&legs).Error)
	s.Len(legs, 2)
}

func (s *TransactionRepositorySuite) TestCreateTransfer_RollsBackOnSecondLegFailure() {
	err := s.db.Callback().Create().Before("gorm:create").Register("test:fail_income_leg", func(tx *gorm.DB) {
		if t, ok := tx.Statement.Dest.(*models.Transaction); ok && t.Kind == models.TransactionKindIncome {
			_ = tx.AddError(errors.New("simulated write failure"))
		}
	})
	s.Require().NoError(err)

	debit := s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "200", day(2025, 5, 10))
	credit := s.newTransaction(s.savings, s.food, models.TransactionKindIncome, "200", day(2025, 5, 10))

	s.Error(s.repo.CreateTransfer(s.ctx, debit, credit))

	var count int64
	s.NoError(s.db.Model(&models.Transaction{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TransactionRepositorySuite) TestGetWithFilters() {
	rows := []*models.Transaction{
		s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "10", day(2025, 4, 28)),
		s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "20", day(2025, 5, 2)),
		s.newTransaction(s.savings, s.food, models.TransactionKindExpense, "30", day(2025, 5, 20)),
		s.newTransaction(s.checking, s.salary, models.TransactionKindIncome, "3000", day(2025, 5, 1)),
	}
	rows[1].Description = "Coffee at STARBUCKS downtown"
	for _, r := range rows {
		s.Require().NoError(s.repo.Create(s.ctx, r))
	}

	all, err := s.repo.GetWithFilters(s.ctx, s.userID, models.TransactionFilters{})
	s.NoError(err)
	s.Require().Len(all, 4)
	s.True(all[0].Date.Equal(day(2025, 5, 20)), "newest first")
	s.True(all[3].Date.Equal(day(2025, 4, 28)))

	byAccount, err := s.repo.GetWithFilters(s.ctx, s.userID, models.TransactionFilters{AccountID: &s.savings.ID})
	s.NoError(err)
	s.Len(byAccount, 1)

	byCategory, err := s.repo.GetWithFilters(s.ctx, s.userID, models.TransactionFilters{CategoryID: &s.salary.ID})
	s.NoError(err)
	s.Len(byCategory, 1)

	byDescription, err := s.repo.GetWithFilters(s.ctx, s.userID, models.TransactionFilters{Description: "starbucks"})
	s.NoError(err)
	s.Require().Len(byDescription, 1)
	s.Equal(rows[1].ID, byDescription[0].ID)

	may, err := s.repo.GetWithFilters(s.ctx, s.userID, models.TransactionFilters{Year: 2025, Month: 5})
	s.NoError(err)
	s.Len(may, 3)

	year, err := s.repo.GetWithFilters(s.ctx, s.userID, models.TransactionFilters{Year: 2025})
	s.NoError(err)
	s.Len(year, 4)

	none, err := s.repo.GetWithFilters(s.ctx, uuid.New(), models.TransactionFilters{})
	s.NoError(err)
	s.Empty(none)
}

func (s *TransactionRepositorySuite) TestGetByDateRangeAndRecent() {
	for d := 1; d <= 7; d++ {
		s.Require().NoError(s.repo.Create(s.ctx,
			s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "5", day(2025, 5, d))))
	}
	s.Require().NoError(s.repo.Create(s.ctx,
		s.newTransaction(s.savings, s.food, models.TransactionKindExpense, "5", day(2025, 6, 1))))

	period := models.NewPeriod(2025, time.May)

	inMay, err := s.repo.GetByDateRange(s.ctx, s.userID, period.Start(), period.End(), nil)
	s.NoError(err)
	s.Len(inMay, 7)

	savingsInMay, err := s.repo.GetByDateRange(s.ctx, s.userID, period.Start(), period.End(), &s.savings.ID)
	s.NoError(err)
	s.Empty(savingsInMay)

	recent, err := s.repo.GetRecent(s.ctx, s.userID, period.Start(), period.End(), 5)
	s.NoError(err)
	s.Require().Len(recent, 5)
	s.True(recent[0].Date.Equal(day(2025, 5, 7)))
	s.True(recent[4].Date.Equal(day(2025, 5, 3)))
}

func (s *TransactionRepositorySuite) TestUpdate() {
	tx := s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "15", day(2025, 5, 3))
	s.Require().NoError(s.repo.Create(s.ctx, tx))

	tx.Amount = decimal.RequireFromString("18.75")
	tx.Description = "Lunch"
	tx.CategoryID = s.salary.ID
	tx.Kind = models.TransactionKindIncome
	s.NoError(s.repo.Update(s.ctx, tx))

	found, err := s.repo.GetByIDForUser(s.ctx, s.userID, tx.ID)
	s.NoError(err)
	s.True(found.Amount.Equal(decimal.RequireFromString("18.75")))
	s.Equal("Lunch", found.Description)
	s.Equal(s.salary.ID, found.CategoryID)
	s.Equal(models.TransactionKindIncome, found.Kind)
	s.Equal(s.checking.ID, found.AccountID)
}

func (s *TransactionRepositorySuite) TestDelete_KeepsTransferCounterpart() {
	debit := s.newTransaction(s.checking, s.food, models.TransactionKindExpense, "50", day(2025, 5, 10))
	credit := s.newTransaction(s.savings, s.food, models.TransactionKindIncome, "50", day(2025, 5, 10))
	s.Require().NoError(s.repo.CreateTransfer(s.ctx, debit, credit))

	s.NoError(s.repo.Delete(s.ctx, s.userID, debit.ID))
	s.ErrorIs(s.repo.Delete(s.ctx, s.userID, debit.ID), ErrTransactionNotFound)

	_, err := s.repo.GetByIDForUser(s.ctx, s.userID, credit.ID)
	s.NoError(err)
}
