package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const rateLimitCleanupInterval = time.Minute

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logging.Level,
	}))
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err, "driver", cfg.Database.Driver)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tokenService := services.NewTokenService(&cfg.Auth)
	api := buildHandlers(cfg, db, registry, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()

	errorHandler := middleware.NewErrorHandler(registry, logger)
	e.HTTPErrorHandler = errorHandler.Handle

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	e.Use(middleware.RequestID())
	e.Use(errorHandler.Recover())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader},
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(rateLimiter.Middleware())

	e.GET("/health", handlers.NewHealthCheckHandler(db).HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	apiGroup := e.Group("/api", middleware.RequireAuth(tokenService))
	api.RegisterRoutes(apiGroup)

	logDevToken(cfg, tokenService, logger)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = 60 * time.Second
	e.Server.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rateLimiter.StartCleanup(ctx, rateLimitCleanupInterval)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finance ledger server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "addr", addr)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}

func buildHandlers(cfg *config.Config, db *database.DB, registry prometheus.Registerer, logger *slog.Logger) *handlers.Handlers {
	accountRepo := repositories.NewAccountRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	budgetRepo := repositories.NewBudgetRepository(db.DB)

	ledgerLogger := services.NewLedgerLogger(logger)
	metrics := services.NewPrometheusMetrics(registry)

	accountService := services.NewAccountService(accountRepo, transactionRepo, ledgerLogger, logger)
	categoryService := services.NewCategoryService(categoryRepo, ledgerLogger, logger)
	transactionService := services.NewTransactionService(transactionRepo, accountRepo, categoryRepo, ledgerLogger, metrics, logger)
	budgetService := services.NewBudgetService(budgetRepo, categoryRepo, transactionRepo, ledgerLogger, metrics, logger)
	dashboardService := services.NewDashboardService(accountService, budgetService, accountRepo, categoryRepo, transactionRepo, budgetRepo, metrics, logger)
	suggestionService := services.NewSuggestionService(newClassifier(cfg.Classifier, metrics, ledgerLogger, logger), categoryRepo, ledgerLogger, logger)

	return &handlers.Handlers{
		Accounts:     handlers.NewAccountHandler(accountService),
		Categories:   handlers.NewCategoryHandler(categoryService),
		Transactions: handlers.NewTransactionHandler(transactionService),
		Budgets:      handlers.NewBudgetHandler(budgetService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Suggestions:  handlers.NewSuggestionHandler(suggestionService),
	}
}

func newClassifier(cfg config.ClassifierConfig, metrics services.MetricsRecorderInterface, ledgerLogger services.LedgerLoggerInterface, logger *slog.Logger) services.Classifier {
	switch cfg.Mode {
	case config.ClassifierModeHTTP:
		breaker := services.NewCircuitBreaker(services.CircuitBreakerConfig{
			MaxFailures:     cfg.MaxFailures,
			ResetTimeout:    cfg.ResetTimeout,
			HalfOpenMaxSucc: cfg.HalfOpenMaxSucc,
		})
		logger.Info("Using HTTP category classifier", "url", cfg.URL)
		return services.NewHTTPClassifier(cfg.URL, cfg.Timeout, breaker, metrics, ledgerLogger, logger)
	case config.ClassifierModeNoop:
		return services.NewNoopClassifier()
	default:
		return services.NewKeywordClassifier()
	}
}

// logDevToken prints a bearer token for DEV_USER_ID so the API can be called
// locally without the identity service
func logDevToken(cfg *config.Config, tokenService services.TokenServiceInterface, logger *slog.Logger) {
	if cfg.Auth.DevUserID == "" || cfg.IsProduction() {
		return
	}

	userID, err := uuid.Parse(cfg.Auth.DevUserID)
	if err != nil {
		logger.Warn("DEV_USER_ID is not a valid UUID", "value", cfg.Auth.DevUserID)
		return
	}

	token, expiresAt, err := tokenService.GenerateAccessToken(userID)
	if err != nil {
		logger.Warn("Could not issue development token", "error", err)
		return
	}

	logger.Info("Development token issued", "user_id", userID, "expires_at", expiresAt, "token", token)
}
