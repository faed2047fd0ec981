package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
)

const (
	SuggestionSourceClassifier = "classifier"
	SuggestionSourceFuzzy      = "fuzzy"
	SuggestionSourceFallback   = "fallback"

	minSimilarity = 0.7
)

type suggestionService struct {
	classifier   Classifier
	categoryRepo repositories.CategoryRepositoryInterface
	ledgerLogger LedgerLoggerInterface
	logger       *slog.Logger
}

func NewSuggestionService(
	classifier Classifier,
	categoryRepo repositories.CategoryRepositoryInterface,
	ledgerLogger LedgerLoggerInterface,
	logger *slog.Logger,
) SuggestionServiceInterface {
	return &suggestionService{
		classifier:   classifier,
		categoryRepo: categoryRepo,
		ledgerLogger: ledgerLogger,
		logger:       logger,
	}
}

// SuggestCategory never fails because of the classifier. When it is
// unavailable the default category is returned with the error message.
func (s *suggestionService) SuggestCategory(ctx context.Context, userID uuid.UUID, description string) (*models.CategorySuggestion, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}

	hint, err := s.classifier.Suggest(ctx, description)
	if err != nil {
		s.ledgerLogger.LogClassifierFallback(ctx, userID, err.Error())
		return &models.CategorySuggestion{
			CategoryName: models.DefaultCategoryName,
			Source:       SuggestionSourceFallback,
			Error:        ErrClassifierUnavailable.Error(),
		}, nil
	}

	categories, err := s.categoryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if category := matchCategory(hint, categories); category != nil {
		id := category.ID
		source := SuggestionSourceClassifier
		if !strings.EqualFold(category.Name, hint) {
			source = SuggestionSourceFuzzy
		}
		return &models.CategorySuggestion{
			CategoryID:   &id,
			CategoryName: category.Name,
			Source:       source,
		}, nil
	}

	s.logger.DebugContext(ctx, "suggested category not owned by user", "user_id", userID, "hint", hint)
	return &models.CategorySuggestion{
		CategoryName: hint,
		Source:       SuggestionSourceClassifier,
	}, nil
}

// matchCategory finds the category named by hint: an exact case-insensitive
// match first, then the most similar name above minSimilarity.
func matchCategory(hint string, categories []models.Category) *models.Category {
	for i := range categories {
		if strings.EqualFold(categories[i].Name, hint) {
			return &categories[i]
		}
	}

	normalizedHint := normalizeForMatching(hint)
	var best *models.Category
	var bestScore float64
	for i := range categories {
		score := calculateSimilarity(normalizedHint, normalizeForMatching(categories[i].Name))
		if score >= minSimilarity && score > bestScore {
			bestScore = score
			best = &categories[i]
		}
	}
	return best
}

// calculateSimilarity calculates the similarity score between two strings using Levenshtein distance
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// normalizeForMatching lowercases and strips separators and punctuation
func normalizeForMatching(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "", "'", "", ".", "", "&", "").Replace(s)
}
