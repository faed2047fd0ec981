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
)

// recommendationMonths is how many trailing months feed a limit recommendation.
const recommendationMonths = 3

type budgetService struct {
	budgetRepo      repositories.BudgetRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	ledgerLogger    LedgerLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	ledgerLogger LedgerLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BudgetServiceInterface {
	return &budgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		ledgerLogger:    ledgerLogger,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// GetBudgetStatus reports spend against the category's limit for one month.
// A category without a budget row yields the "none" tier.
func (s *budgetService) GetBudgetStatus(ctx context.Context, userID, categoryID uuid.UUID, period models.Period) (*models.BudgetStatus, error) {
	category, err := s.getCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.GetForCategory(ctx, userID, categoryID, period)
	if err != nil {
		if !errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, fmt.Errorf("failed to get budget: %w", err)
		}
		budget = nil
	}

	spending, err := s.spendingInPeriod(ctx, userID, period, nil)
	if err != nil {
		return nil, err
	}

	status := models.NewBudgetStatus(category, period, budget, spending[categoryID])
	return &status, nil
}

// ListBudgetStatuses returns a status for every expense category of the user
func (s *budgetService) ListBudgetStatuses(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.BudgetStatus, error) {
	categories, err := s.categoryRepo.GetByUserIDAndKind(ctx, userID, models.CategoryKindExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}

	budgets, err := s.budgetsByCategory(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	spending, err := s.spendingInPeriod(ctx, userID, period, nil)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.BudgetStatus, 0, len(categories))
	for i := range categories {
		category := &categories[i]
		statuses = append(statuses, models.NewBudgetStatus(category, period, budgets[category.ID], spending[category.ID]))
	}
	return statuses, nil
}

// GetBudgetAlerts returns the status of every budget configured for the period
func (s *budgetService) GetBudgetAlerts(ctx context.Context, userID uuid.UUID, period models.Period) ([]models.BudgetStatus, error) {
	budgets, err := s.budgetRepo.GetByPeriod(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []models.BudgetStatus{}, nil
	}

	categories, err := s.categoryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	spending, err := s.spendingInPeriod(ctx, userID, period, nil)
	if err != nil {
		return nil, err
	}

	alerts := make([]models.BudgetStatus, 0, len(budgets))
	for i := range budgets {
		category, ok := byID[budgets[i].CategoryID]
		if !ok {
			continue
		}
		alerts = append(alerts, models.NewBudgetStatus(category, period, &budgets[i], spending[category.ID]))
	}
	return alerts, nil
}

// SaveBudgets upserts the entries. The whole batch is rejected when any
// entry is malformed; entries for categories the user does not own are
// skipped and counted.
func (s *budgetService) SaveBudgets(ctx context.Context, userID uuid.UUID, entries []BudgetEntry) (*SaveBudgetsResult, error) {
	for i, entry := range entries {
		if err := validateBudgetEntry(entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidBudget, i, err)
		}
	}

	result := &SaveBudgetsResult{}
	budgets := make([]models.Budget, 0, len(entries))
	owned := make(map[uuid.UUID]bool)

	for _, entry := range entries {
		ok, err := s.ownsCategory(ctx, userID, entry.CategoryID, owned)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipUnownedCategory(ctx, s.logger, userID, entry)
			result.Skipped++
			s.metrics.IncrementCounter(MetricBudgetEntry, map[string]string{"outcome": "skipped"})
			continue
		}

		for _, month := range entryMonths(entry) {
			budgets = append(budgets, models.Budget{
				UserID:      userID,
				CategoryID:  entry.CategoryID,
				Month:       month,
				Year:        entry.Year,
				LimitAmount: entry.LimitAmount.Round(2),
			})
		}
	}

	if len(budgets) > 0 {
		if err := s.budgetRepo.Upsert(ctx, budgets); err != nil {
			return nil, fmt.Errorf("failed to save budgets: %w", err)
		}
	}

	result.Saved = len(budgets)
	for range budgets {
		s.metrics.IncrementCounter(MetricBudgetEntry, map[string]string{"outcome": "saved"})
	}
	s.ledgerLogger.LogBudgetsSaved(ctx, userID, result.Saved, result.Skipped)

	return result, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	if err := s.budgetRepo.Delete(ctx, userID, budgetID); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// RecommendLimit averages the category's expense totals over the trailing
// months. Months without spend count as zero.
func (s *budgetService) RecommendLimit(ctx context.Context, userID, categoryID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.getCategory(ctx, userID, categoryID); err != nil {
		return decimal.Zero, err
	}

	totals, err := s.trailingSpend(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return totals[categoryID], nil
}

// RecommendLimits returns a recommendation for every expense category
func (s *budgetService) RecommendLimits(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	categories, err := s.categoryRepo.GetByUserIDAndKind(ctx, userID, models.CategoryKindExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}

	totals, err := s.trailingSpend(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommendations := make(map[uuid.UUID]decimal.Decimal, len(categories))
	for _, category := range categories {
		if amount, ok := totals[category.ID]; ok {
			recommendations[category.ID] = amount
		} else {
			recommendations[category.ID] = decimal.Zero
		}
	}
	return recommendations, nil
}

// trailingSpend returns the per-category mean monthly expense over the
// trailing periods, rounded to cents.
func (s *budgetService) trailingSpend(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	periods := models.TrailingPeriods(s.now(), recommendationMonths)
	if len(periods) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}

	included := make(map[models.Period]bool, len(periods))
	start, end := periods[0].Start(), periods[0].End()
	for _, p := range periods {
		included[p] = true
		if p.Start().Before(start) {
			start = p.Start()
		}
		if p.End().After(end) {
			end = p.End()
		}
	}

	transactions, err := s.transactionRepo.GetByDateRange(ctx, userID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load trailing transactions: %w", err)
	}

	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range transactions {
		if t.Kind != models.TransactionKindExpense || !included[models.PeriodOf(t.Date)] {
			continue
		}
		sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
	}

	months := decimal.NewFromInt(int64(len(periods)))
	for id, sum := range sums {
		sums[id] = sum.Div(months).Round(2)
	}
	return sums, nil
}

// spendingInPeriod sums expense amounts per category inside the period,
// optionally for one account only.
func (s *budgetService) spendingInPeriod(ctx context.Context, userID uuid.UUID, period models.Period, accountID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	transactions, err := s.transactionRepo.GetByDateRange(ctx, userID, period.Start(), period.End(), accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load period transactions: %w", err)
	}
	return expenseByCategory(transactions), nil
}

func (s *budgetService) budgetsByCategory(ctx context.Context, userID uuid.UUID, period models.Period) (map[uuid.UUID]*models.Budget, error) {
	budgets, err := s.budgetRepo.GetByPeriod(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}
	byCategory := make(map[uuid.UUID]*models.Budget, len(budgets))
	for i := range budgets {
		byCategory[budgets[i].CategoryID] = &budgets[i]
	}
	return byCategory, nil
}

func (s *budgetService) getCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDForUser(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *budgetService) ownsCategory(ctx context.Context, userID, categoryID uuid.UUID, cache map[uuid.UUID]bool) (bool, error) {
	if owned, ok := cache[categoryID]; ok {
		return owned, nil
	}

	_, err := s.categoryRepo.GetByIDForUser(ctx, userID, categoryID)
	switch {
	case err == nil:
		cache[categoryID] = true
	case errors.Is(err, repositories.ErrCategoryNotFound):
		cache[categoryID] = false
	default:
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return cache[categoryID], nil
}

func validateBudgetEntry(entry BudgetEntry) error {
	if entry.CategoryID == uuid.Nil {
		return errors.New("category is required")
	}
	if entry.Year <= 0 {
		return models.ErrInvalidBudgetYear
	}
	if !entry.ApplyAllMonths && (entry.Month < 1 || entry.Month > 12) {
		return models.ErrInvalidBudgetMonth
	}
	if entry.LimitAmount.IsNegative() {
		return models.ErrNegativeLimit
	}
	return nil
}

func entryMonths(entry BudgetEntry) []int {
	if !entry.ApplyAllMonths {
		return []int{entry.Month}
	}
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// skipUnownedCategory records an entry dropped because its category is
// absent or belongs to someone else.
func skipUnownedCategory(ctx context.Context, logger *slog.Logger, userID uuid.UUID, entry BudgetEntry) {
	logger.DebugContext(ctx, "budget entry skipped",
		"user_id", userID,
		"category_id", entry.CategoryID,
		"month", entry.Month,
		"year", entry.Year,
	)
}

func expenseByCategory(transactions []models.Transaction) map[uuid.UUID]decimal.Decimal {
	spending := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range transactions {
		if t.Kind != models.TransactionKindExpense {
			continue
		}
		spending[t.CategoryID] = spending[t.CategoryID].Add(t.Amount)
	}
	return spending
}
