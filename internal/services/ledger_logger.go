package services

import (
	"context"
	"log/slog"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// ContextWithCorrelationID stores the request trace id so ledger events can be
// tied back to the HTTP request that caused them.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the id stored by ContextWithCorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

type LedgerLogger struct {
	logger *slog.Logger
}

func NewLedgerLogger(logger *slog.Logger) LedgerLoggerInterface {
	return &LedgerLogger{
		logger: logger,
	}
}

func (l *LedgerLogger) LogTransactionPosted(ctx context.Context, userID uuid.UUID, tx *models.Transaction) {
	l.logger.InfoContext(ctx, "transaction posted",
		slog.String("event_type", "transaction_posted"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", tx.ID.String()),
		slog.String("account_id", tx.AccountID.String()),
		slog.String("kind", tx.Kind),
		slog.String("amount", tx.Amount.StringFixed(2)),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}

func (l *LedgerLogger) LogTransferCompleted(ctx context.Context, userID uuid.UUID, transferID uuid.UUID, debitTxID, creditTxID uuid.UUID, durationMs int64) {
	l.logger.InfoContext(ctx, "transfer completed",
		slog.String("event_type", "transfer_completed"),
		slog.String("user_id", userID.String()),
		slog.String("transfer_id", transferID.String()),
		slog.String("debit_transaction_id", debitTxID.String()),
		slog.String("credit_transaction_id", creditTxID.String()),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}

func (l *LedgerLogger) LogTransferFailed(ctx context.Context, userID uuid.UUID, sourceID, targetID uuid.UUID, errorMsg string, durationMs int64) {
	l.logger.WarnContext(ctx, "transfer failed",
		slog.String("event_type", "transfer_failed"),
		slog.String("user_id", userID.String()),
		slog.String("source_account_id", sourceID.String()),
		slog.String("target_account_id", targetID.String()),
		slog.String("error", errorMsg),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}

func (l *LedgerLogger) LogBudgetsSaved(ctx context.Context, userID uuid.UUID, saved, skipped int) {
	l.logger.InfoContext(ctx, "budgets saved",
		slog.String("event_type", "budgets_saved"),
		slog.String("user_id", userID.String()),
		slog.Int("saved", saved),
		slog.Int("skipped", skipped),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}

func (l *LedgerLogger) LogDeleteBlocked(ctx context.Context, userID uuid.UUID, entityType string, entityID uuid.UUID) {
	l.logger.InfoContext(ctx, "delete blocked by references",
		slog.String("event_type", "delete_blocked"),
		slog.String("user_id", userID.String()),
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}

func (l *LedgerLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	l.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}

func (l *LedgerLogger) LogClassifierFallback(ctx context.Context, userID uuid.UUID, errorMsg string) {
	l.logger.WarnContext(ctx, "classifier unavailable, using default category",
		slog.String("event_type", "classifier_fallback"),
		slog.String("user_id", userID.String()),
		slog.String("error", errorMsg),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	)
}
