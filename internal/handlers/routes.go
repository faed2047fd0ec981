package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups the API handlers so they can be mounted together
type Handlers struct {
	Accounts     *AccountHandler
	Categories   *CategoryHandler
	Transactions *TransactionHandler
	Budgets      *BudgetHandler
	Dashboard    *DashboardHandler
	Suggestions  *SuggestionHandler
}

// RegisterRoutes mounts every ledger endpoint on the given group. The caller
// attaches authentication to the group.
func (h *Handlers) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Dashboard.GetDashboard)
	api.GET("/report", h.Dashboard.GetReport)

	api.GET("/accounts", h.Accounts.ListAccounts)
	api.POST("/accounts", h.Accounts.CreateAccount)
	api.GET("/accounts/:id", h.Accounts.GetAccount)
	api.GET("/accounts/:id/balance", h.Accounts.Balance)
	api.PUT("/accounts/:id", h.Accounts.UpdateAccount)
	api.DELETE("/accounts/:id", h.Accounts.DeleteAccount)

	api.GET("/categories", h.Categories.ListCategories)
	api.POST("/categories", h.Categories.CreateCategory)
	api.PUT("/categories/:id", h.Categories.UpdateCategory)
	api.DELETE("/categories/:id", h.Categories.DeleteCategory)

	api.GET("/transactions", h.Transactions.ListTransactions)
	api.POST("/transactions", h.Transactions.CreateTransaction)
	api.GET("/transactions/:id", h.Transactions.GetTransaction)
	api.PUT("/transactions/:id", h.Transactions.UpdateTransaction)
	api.DELETE("/transactions/:id", h.Transactions.DeleteTransaction)

	api.GET("/budgets", h.Budgets.ListBudgets)
	api.POST("/budgets/save", h.Budgets.SaveBudgets)
	api.GET("/budgets/recommendations", h.Budgets.Recommendations)
	api.GET("/budgets/recommendations/:categoryId", h.Budgets.Recommendation)
	api.GET("/budgets/status/:categoryId", h.Budgets.GetBudgetStatus)
	api.DELETE("/budgets/:id", h.Budgets.DeleteBudget)

	api.POST("/suggest-category", h.Suggestions.SuggestCategory)
}
