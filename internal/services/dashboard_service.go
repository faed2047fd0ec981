package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentTransactionLimit = 5

type dashboardService struct {
	accountService  AccountServiceInterface
	budgetService   BudgetServiceInterface
	accountRepo     repositories.AccountRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewDashboardService(
	accountService AccountServiceInterface,
	budgetService BudgetServiceInterface,
	accountRepo repositories.AccountRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) DashboardServiceInterface {
	return &dashboardService{
		accountService:  accountService,
		budgetService:   budgetService,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetDashboard builds the period snapshot. The reads run concurrently and
// any failure fails the whole snapshot.
func (s *dashboardService) GetDashboard(ctx context.Context, userID uuid.UUID, period models.Period) (*models.DashboardSummary, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordProcessingTime(MetricDashboardDuration, time.Since(start))
	}()

	var (
		accounts     []models.AccountBalance
		periodTxs    []models.Transaction
		recent       []models.Transaction
		budgetAlerts []models.BudgetStatus
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		accounts, err = s.accountService.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		periodTxs, err = s.transactionRepo.GetByDateRange(gctx, userID, period.Start(), period.End(), nil)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.transactionRepo.GetRecent(gctx, userID, period.Start(), period.End(), recentTransactionLimit)
		return err
	})
	g.Go(func() error {
		var err error
		budgetAlerts, err = s.budgetService.GetBudgetAlerts(gctx, userID, period)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range periodTxs {
		switch t.Kind {
		case models.TransactionKindIncome:
			income = income.Add(t.Amount)
		case models.TransactionKindExpense:
			expense = expense.Add(t.Amount)
		}
	}

	totalBalance := decimal.Zero
	for _, a := range accounts {
		totalBalance = totalBalance.Add(a.InitialBalance)
	}

	if recent == nil {
		recent = []models.Transaction{}
	}

	s.logger.DebugContext(ctx, "dashboard built",
		"user_id", userID, "period", period.String(), "transactions", len(periodTxs))

	return &models.DashboardSummary{
		Period:             period.String(),
		TotalBalance:       totalBalance,
		MonthlyIncome:      income,
		MonthlyExpense:     expense,
		SavingsRate:        models.SavingsRate(income, expense),
		RecentTransactions: recent,
		BudgetAlerts:       budgetAlerts,
		Accounts:           accounts,
	}, nil
}

// GetReport compares spend with limits for each expense category. Categories
// with neither spend nor a budget in the period are left out.
func (s *dashboardService) GetReport(ctx context.Context, userID uuid.UUID, period models.Period, accountID *uuid.UUID) ([]models.ReportLine, error) {
	if accountID != nil {
		if _, err := s.accountRepo.GetByIDForUser(ctx, userID, *accountID); err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				return nil, ErrAccountNotFound
			}
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
	}

	var (
		categories   []models.Category
		budgets      []models.Budget
		transactions []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.GetByUserIDAndKind(gctx, userID, models.CategoryKindExpense)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.GetByPeriod(gctx, userID, period)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.GetByDateRange(gctx, userID, period.Start(), period.End(), accountID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	limits := make(map[uuid.UUID]*models.Budget, len(budgets))
	for i := range budgets {
		limits[budgets[i].CategoryID] = &budgets[i]
	}
	spending := expenseByCategory(transactions)

	lines := make([]models.ReportLine, 0, len(categories))
	for i := range categories {
		category := &categories[i]
		spent, hasSpend := spending[category.ID]
		budget := limits[category.ID]
		if !hasSpend && budget == nil {
			continue
		}

		status := models.NewBudgetStatus(category, period, budget, spent)
		lines = append(lines, models.ReportLine{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Spent:        status.Spent,
			LimitAmount:  status.LimitAmount,
			Remaining:    status.Remaining,
			Percentage:   status.Percentage,
			Status:       status.Status,
		})
	}

	return lines, nil
}
