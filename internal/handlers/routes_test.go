package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-ledger/internal/models"
	"finance-ledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := service_mocks.NewMockAccountServiceInterface(ctrl)
	categories := service_mocks.NewMockCategoryServiceInterface(ctrl)
	transactions := service_mocks.NewMockTransactionServiceInterface(ctrl)
	budgets := service_mocks.NewMockBudgetServiceInterface(ctrl)
	dashboard := service_mocks.NewMockDashboardServiceInterface(ctrl)
	suggestions := service_mocks.NewMockSuggestionServiceInterface(ctrl)

	h := &Handlers{
		Accounts:     NewAccountHandler(accounts),
		Categories:   NewCategoryHandler(categories),
		Transactions: NewTransactionHandler(transactions),
		Budgets:      NewBudgetHandler(budgets),
		Dashboard:    NewDashboardHandler(dashboard),
		Suggestions:  NewSuggestionHandler(suggestions),
	}

	userID := uuid.New()
	e := newTestEcho()
	api := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", userID)
			return next(c)
		}
	})
	h.RegisterRoutes(api)

	accountID := uuid.New()
	accounts.EXPECT().ListAccounts(gomock.Any(), userID).Return([]models.AccountBalance{}, nil)
	accounts.EXPECT().ComputeBalance(gomock.Any(), userID, accountID).Return(decimal.Zero, nil)
	categories.EXPECT().ListCategories(gomock.Any(), userID).Return([]models.Category{}, nil)
	transactions.EXPECT().ListTransactions(gomock.Any(), userID, gomock.Any()).Return([]models.Transaction{}, nil)
	budgets.EXPECT().RecommendLimits(gomock.Any(), userID).Return(map[uuid.UUID]decimal.Decimal{}, nil)
	budgets.EXPECT().DeleteBudget(gomock.Any(), userID, accountID).Return(nil)
	dashboard.EXPECT().GetReport(gomock.Any(), userID, gomock.Any(), nil).Return([]models.ReportLine{}, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/accounts", http.StatusOK},
		{http.MethodGet, "/api/accounts/" + accountID.String() + "/balance", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/transactions", http.StatusOK},
		{http.MethodGet, "/api/budgets/recommendations", http.StatusOK},
		{http.MethodDelete, "/api/budgets/" + accountID.String(), http.StatusNoContent},
		{http.MethodGet, "/api/report", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
