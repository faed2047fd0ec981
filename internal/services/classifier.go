package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finance-ledger/internal/models"
)

const classifierServiceName = "classifier"

// NoopClassifier is used where no classifier is deployed.
type NoopClassifier struct{}

func NewNoopClassifier() Classifier {
	return NoopClassifier{}
}

func (NoopClassifier) Suggest(ctx context.Context, description string) (string, error) {
	return models.DefaultCategoryName, nil
}

type descriptionPattern struct {
	keywords []string
	category string
}

// KeywordClassifier maps descriptions to category names by keyword lookup.
// The first pattern with a matching keyword wins.
type KeywordClassifier struct {
	patterns []descriptionPattern
}

func NewKeywordClassifier() Classifier {
	return &KeywordClassifier{patterns: initDescriptionPatterns()}
}

func (c *KeywordClassifier) Suggest(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return models.DefaultCategoryName, nil
	}

	for _, pattern := range c.patterns {
		for _, keyword := range pattern.keywords {
			if containsIgnoreCase(description, keyword) {
				return pattern.category, nil
			}
		}
	}

	return models.DefaultCategoryName, nil
}

func initDescriptionPatterns() []descriptionPattern {
	return []descriptionPattern{
		{
			keywords: []string{"Direct Deposit", "Salary", "Payroll", "Paycheck", "Wage", "Employer"},
			category: "Salary",
		},
		{
			keywords: []string{"Rent", "Landlord", "Lease", "Mortgage"},
			category: "Rent",
		},
		{
			keywords: []string{"Restaurant", "Grocery", "Groceries", "Cafe", "Coffee", "Pizza", "Lunch", "Dinner", "Supermarket"},
			category: "Food & Dining",
		},
		{
			keywords: []string{"Netflix", "Spotify", "Cinema", "Movie", "Concert", "Theater", "Game"},
			category: "Entertainment",
		},
		{
			keywords: []string{"Amazon", "Target", "Walmart", "Store", "Mall", "Clothing"},
			category: "Shopping",
		},
		{
			keywords: []string{"Electric", "Water Bill", "Internet", "Phone Bill", "Utility"},
			category: "Utilities",
		},
		{
			keywords: []string{"Uber", "Lyft", "Gas Station", "Fuel", "Parking", "Metro", "Bus"},
			category: "Transportation",
		},
	}
}

// HTTPClassifier asks a remote classifier for a category name. Calls are
// guarded by a circuit breaker so a dead collaborator is not hit on every
// request.
type HTTPClassifier struct {
	url            string
	client         *http.Client
	circuitBreaker CircuitBreakerInterface
	metrics        MetricsRecorderInterface
	ledgerLogger   LedgerLoggerInterface
	logger         *slog.Logger
}

type classifierRequest struct {
	Description string `json:"description"`
}

type classifierResponse struct {
	Category string `json:"category"`
}

func NewHTTPClassifier(
	url string,
	timeout time.Duration,
	circuitBreaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	ledgerLogger LedgerLoggerInterface,
	logger *slog.Logger,
) Classifier {
	return &HTTPClassifier{
		url:            url,
		client:         &http.Client{Timeout: timeout},
		circuitBreaker: circuitBreaker,
		metrics:        metrics,
		ledgerLogger:   ledgerLogger,
		logger:         logger,
	}
}

func (c *HTTPClassifier) Suggest(ctx context.Context, description string) (string, error) {
	if !c.circuitBreaker.Allow() {
		c.metrics.IncrementCounter(MetricClassifierRequest, map[string]string{"outcome": "rejected"})
		return "", fmt.Errorf("%w: %w", ErrClassifierUnavailable, ErrCircuitBreakerOpen)
	}

	category, err := c.call(ctx, description)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.metrics.IncrementCounter(MetricClassifierRequest, map[string]string{"outcome": outcome})

	from, to := c.circuitBreaker.Record(err)
	c.metrics.RecordGauge(MetricCircuitBreakerState, float64(to), map[string]string{"service": classifierServiceName})
	if from != to {
		c.ledgerLogger.LogCircuitBreakerStateChange(ctx, classifierServiceName, from.String(), to.String())
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	return category, nil
}

func (c *HTTPClassifier) call(ctx context.Context, description string) (string, error) {
	body, err := json.Marshal(classifierRequest{Description: description})
	if err != nil {
		return "", fmt.Errorf("failed to encode classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var payload classifierResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode classifier response: %w", err)
	}

	category := strings.TrimSpace(payload.Category)
	if category == "" {
		return models.DefaultCategoryName, nil
	}

	c.logger.DebugContext(ctx, "classifier answered", "category", category)
	return category, nil
}
