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
)

type DashboardServiceSuite struct {
	suite.Suite
	db        *database.DB
	ctx       context.Context
	service   DashboardServiceInterface
	budgets   BudgetServiceInterface
	userID    uuid.UUID
	checking  *models.Account
	groceries *models.Category
	salary    *models.Category
	october   models.Period
}

func (s *DashboardServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.ctx = context.Background()

	accountRepo := repositories.NewAccountRepository(s.db.DB)
	categoryRepo := repositories.NewCategoryRepository(s.db.DB)
	transactionRepo := repositories.NewTransactionRepository(s.db.DB)
	budgetRepo := repositories.NewBudgetRepository(s.db.DB)
	ledgerLogger := NewLedgerLogger(slog.Default())
	metrics := NewPrometheusMetrics(prometheus.NewRegistry())

	accounts := NewAccountService(accountRepo, transactionRepo, ledgerLogger, slog.Default())
	s.budgets = NewBudgetService(budgetRepo, categoryRepo, transactionRepo, ledgerLogger, metrics, slog.Default())
	s.service = NewDashboardService(accounts, s.budgets, accountRepo, categoryRepo, transactionRepo, budgetRepo,
		metrics, slog.Default())

	s.userID = uuid.New()
	s.checking = database.CreateTestAccount(s.T(), s.db, s.userID, "Checking", decimal.NewFromInt(1000))
	s.groceries = database.CreateTestCategory(s.T(), s.db, s.userID, "Groceries", models.CategoryKindExpense)
	s.salary = database.CreateTestCategory(s.T(), s.db, s.userID, "Salary", models.CategoryKindIncome)
	s.october = models.NewPeriod(2025, time.October)
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}

func (s *DashboardServiceSuite) TestGetDashboard_MonthScenario() {
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.groceries, models.TransactionKindExpense,
		decimal.NewFromInt(200), time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC))
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.salary, models.TransactionKindIncome,
		decimal.NewFromInt(500), time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))

	summary, err := s.service.GetDashboard(s.ctx, s.userID, s.october)
	s.Require().NoError(err)

	s.Equal("2025-10", summary.Period)
	s.True(summary.TotalBalance.Equal(decimal.NewFromInt(1000)))
	s.True(summary.MonthlyIncome.Equal(decimal.NewFromInt(500)))
	s.True(summary.MonthlyExpense.Equal(decimal.NewFromInt(200)))
	s.Equal("60.0", summary.SavingsRate.StringFixed(1))
	s.Len(summary.RecentTransactions, 2)
	s.Require().Len(summary.Accounts, 1)
	s.True(summary.Accounts[0].Balance.Equal(decimal.NewFromInt(1300)))
}

// total_balance sums initial balances; it drifts from the ledger once
// transactions are posted.
func (s *DashboardServiceSuite) TestGetDashboard_TotalBalanceIsInitialBalanceSum() {
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.salary, models.TransactionKindIncome,
		decimal.NewFromInt(250), time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC))

	summary, err := s.service.GetDashboard(s.ctx, s.userID, s.october)
	s.Require().NoError(err)

	current := decimal.Zero
	for _, a := range summary.Accounts {
		current = current.Add(a.Balance)
	}
	s.True(summary.TotalBalance.Equal(decimal.NewFromInt(1000)))
	s.False(summary.TotalBalance.Equal(current), "total_balance should not track current balances")
}

func (s *DashboardServiceSuite) TestGetDashboard_SavingsRate() {
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.salary, models.TransactionKindIncome,
		decimal.NewFromInt(3000), time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.groceries, models.TransactionKindExpense,
		decimal.NewFromInt(1750), time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC))

	summary, err := s.service.GetDashboard(s.ctx, s.userID, s.october)
	s.Require().NoError(err)
	s.Equal("41.7", summary.SavingsRate.StringFixed(1))
}

func (s *DashboardServiceSuite) TestGetDashboard_EmptyMonth() {
	summary, err := s.service.GetDashboard(s.ctx, s.userID, s.october)
	s.Require().NoError(err)
	s.True(summary.SavingsRate.IsZero())
	s.True(summary.MonthlyIncome.IsZero())
	s.NotNil(summary.RecentTransactions)
	s.Empty(summary.BudgetAlerts)
}

func (s *DashboardServiceSuite) TestGetDashboard_RecentLimitedAndOrdered() {
	for day := 1; day <= 7; day++ {
		database.CreateTestTransaction(s.T(), s.db, s.checking, s.groceries, models.TransactionKindExpense,
			decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC))
	}
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.groceries, models.TransactionKindExpense,
		decimal.NewFromInt(10), time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC))

	summary, err := s.service.GetDashboard(s.ctx, s.userID, s.october)
	s.Require().NoError(err)
	s.Require().Len(summary.RecentTransactions, recentTransactionLimit)
	s.Equal(7, summary.RecentTransactions[0].Date.Day())
	s.Equal(3, summary.RecentTransactions[4].Date.Day())
	s.Equal("Groceries", summary.RecentTransactions[0].CategoryName)
}

func (s *DashboardServiceSuite) TestGetDashboard_BudgetAlerts() {
	_, err := s.budgets.SaveBudgets(s.ctx, s.userID, []BudgetEntry{
		{CategoryID: s.groceries.ID, LimitAmount: decimal.NewFromInt(500), Month: 10, Year: 2025},
	})
	s.Require().NoError(err)
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.groceries, models.TransactionKindExpense,
		decimal.NewFromInt(500), time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC))

	summary, err := s.service.GetDashboard(s.ctx, s.userID, s.october)
	s.Require().NoError(err)
	s.Require().Len(summary.BudgetAlerts, 1)
	s.Equal(models.BudgetStatusRed, summary.BudgetAlerts[0].Status)
}

func (s *DashboardServiceSuite) TestGetReport() {
	savings := database.CreateTestAccount(s.T(), s.db, s.userID, "Savings", decimal.Zero)
	rent := database.CreateTestCategory(s.T(), s.db, s.userID, "Rent", models.CategoryKindExpense)
	database.CreateTestCategory(s.T(), s.db, s.userID, "Unused", models.CategoryKindExpense)

	_, err := s.budgets.SaveBudgets(s.ctx, s.userID, []BudgetEntry{
		{CategoryID: rent.ID, LimitAmount: decimal.NewFromInt(1200), Month: 10, Year: 2025},
	})
	s.Require().NoError(err)
	database.CreateTestTransaction(s.T(), s.db, s.checking, s.groceries, models.TransactionKindExpense,
		decimal.NewFromInt(80), time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC))
	database.CreateTestTransaction(s.T(), s.db, savings, s.groceries, models.TransactionKindExpense,
		decimal.NewFromInt(20), time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC))

	lines, err := s.service.GetReport(s.ctx, s.userID, s.october, nil)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)

	byName := map[string]models.ReportLine{}
	for _, l := range lines {
		byName[l.CategoryName] = l
	}
	s.True(byName["Groceries"].Spent.Equal(decimal.NewFromInt(100)))
	s.Equal(models.BudgetStatusNone, byName["Groceries"].Status)
	s.True(byName["Rent"].Spent.IsZero())
	s.Equal(models.BudgetStatusGreen, byName["Rent"].Status)

	lines, err = s.service.GetReport(s.ctx, s.userID, s.october, &savings.ID)
	s.Require().NoError(err)
	byName = map[string]models.ReportLine{}
	for _, l := range lines {
		byName[l.CategoryName] = l
	}
	s.True(byName["Groceries"].Spent.Equal(decimal.NewFromInt(20)))

	foreign := uuid.New()
	_, err = s.service.GetReport(s.ctx, s.userID, s.october, &foreign)
	s.ErrorIs(err, ErrAccountNotFound)
}

// DashboardFailureSuite checks that one failing read fails the snapshot.
type DashboardFailureSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	accountRepo     *repository_mocks.MockAccountRepositoryInterface
	categoryRepo    *repository_mocks.MockCategoryRepositoryInterface
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	budgetRepo      *repository_mocks.MockBudgetRepositoryInterface
	service         DashboardServiceInterface
}

func (s *DashboardFailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.accountRepo = repository_mocks.NewMockAccountRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.budgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)

	ledgerLogger := NewLedgerLogger(slog.Default())
	metrics := NewPrometheusMetrics(prometheus.NewRegistry())
	accounts := NewAccountService(s.accountRepo, s.transactionRepo, ledgerLogger, slog.Default())
	budgets := NewBudgetService(s.budgetRepo, s.categoryRepo, s.transactionRepo, ledgerLogger, metrics, slog.Default())
	s.service = NewDashboardService(accounts, budgets, s.accountRepo, s.categoryRepo, s.transactionRepo, s.budgetRepo,
		metrics, slog.Default())
}

func (s *DashboardFailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDashboardFailureSuite(t *testing.T) {
	suite.Run(t, new(DashboardFailureSuite))
}

func (s *DashboardFailureSuite) TestGetDashboard_BranchFailureFailsSnapshot() {
	s.accountRepo.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return([]models.Account{}, nil).AnyTimes()
	s.transactionRepo.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return([]models.Transaction{}, nil).AnyTimes()
	s.transactionRepo.EXPECT().GetRecent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Transaction{}, nil).AnyTimes()
	s.budgetRepo.EXPECT().GetByPeriod(gomock.Any(), gomock.Any(), gomock.Any()).Return([]models.Budget{}, nil).AnyTimes()
	s.transactionRepo.EXPECT().GetByDateRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	summary, err := s.service.GetDashboard(context.Background(), uuid.New(), models.NewPeriod(2025, time.October))
	s.Error(err)
	s.Nil(summary)
	s.Contains(err.Error(), "connection refused")
}
