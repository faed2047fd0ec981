package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
)

type categoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	ledgerLogger LedgerLoggerInterface
	logger       *slog.Logger
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	ledgerLogger LedgerLoggerInterface,
	logger *slog.Logger,
) CategoryServiceInterface {
	return &categoryService{
		categoryRepo: categoryRepo,
		ledgerLogger: ledgerLogger,
		logger:       logger,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, userID uuid.UUID, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	kind := models.NormalizeKind(input.Kind)
	if !models.IsValidCategoryKind(kind) {
		return nil, ErrInvalidCategoryKind
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, userID, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return nil, ErrCategoryNameTaken
	}

	category := &models.Category{UserID: userID, Name: name, Kind: kind}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNameExists) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDForUser(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, update CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		if name != category.Name {
			exists, err := s.categoryRepo.ExistsByName(ctx, userID, name, category.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check category name: %w", err)
			}
			if exists {
				return nil, ErrCategoryNameTaken
			}
		}
		category.Name = name
	}

	if update.Kind != nil {
		kind := models.NormalizeKind(*update.Kind)
		if !models.IsValidCategoryKind(kind) {
			return nil, ErrInvalidCategoryKind
		}
		category.Kind = kind
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNameExists) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes an unreferenced category and its budgets
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	err := s.categoryRepo.Delete(ctx, userID, categoryID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repositories.ErrCategoryInUse):
		s.ledgerLogger.LogDeleteBlocked(ctx, userID, "category", categoryID)
		return ErrCategoryInUse
	default:
		return fmt.Errorf("failed to delete category: %w", err)
	}
}
