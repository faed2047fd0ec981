package services

import (
	"context"
	"log/slog"
	"testing"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	service      *categoryService
	ctx          context.Context
	testUserID   uuid.UUID
}

func (s *CategoryServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.service = NewCategoryService(s.categoryRepo, NewLedgerLogger(slog.Default()), slog.Default()).(*categoryService)
	s.ctx = context.Background()
	s.testUserID = uuid.New()
}

func (s *CategoryServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceSuite))
}

func (s *CategoryServiceSuite) TestCreateCategory_NormalizesKind() {
	s.categoryRepo.EXPECT().ExistsByName(s.ctx, s.testUserID, "Groceries", uuid.Nil).Return(false, nil)
	s.categoryRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	category, err := s.service.CreateCategory(s.ctx, s.testUserID, CategoryInput{Name: "Groceries ", Kind: "expense"})
	s.Require().NoError(err)
	s.Equal(models.CategoryKindExpense, category.Kind)
	s.Equal("Groceries", category.Name)
}

func (s *CategoryServiceSuite) TestCreateCategory_Invalid() {
	_, err := s.service.CreateCategory(s.ctx, s.testUserID, CategoryInput{Name: "Groceries", Kind: "TRANSFER"})
	s.ErrorIs(err, ErrInvalidCategoryKind)

	_, err = s.service.CreateCategory(s.ctx, s.testUserID, CategoryInput{Kind: "INCOME"})
	s.ErrorIs(err, ErrNameRequired)
}

func (s *CategoryServiceSuite) TestCreateCategory_NameTaken() {
	s.categoryRepo.EXPECT().ExistsByName(s.ctx, s.testUserID, "Rent", uuid.Nil).Return(true, nil)

	_, err := s.service.CreateCategory(s.ctx, s.testUserID, CategoryInput{Name: "Rent", Kind: "EXPENSE"})
	s.ErrorIs(err, ErrCategoryNameTaken)
}

func (s *CategoryServiceSuite) TestUpdateCategory() {
	existing := &models.Category{ID: uuid.New(), UserID: s.testUserID, Name: "Food", Kind: models.CategoryKindExpense}
	name := "Food & Dining"

	s.categoryRepo.EXPECT().GetByIDForUser(s.ctx, s.testUserID, existing.ID).Return(existing, nil)
	s.categoryRepo.EXPECT().ExistsByName(s.ctx, s.testUserID, name, existing.ID).Return(false, nil)
	s.categoryRepo.EXPECT().Update(s.ctx, existing).Return(nil)

	category, err := s.service.UpdateCategory(s.ctx, s.testUserID, existing.ID, CategoryUpdate{Name: &name})
	s.Require().NoError(err)
	s.Equal(name, category.Name)
}

func (s *CategoryServiceSuite) TestGetCategory_NotOwned() {
	id := uuid.New()
	s.categoryRepo.EXPECT().GetByIDForUser(s.ctx, s.testUserID, id).Return(nil, repositories.ErrCategoryNotFound)

	_, err := s.service.GetCategory(s.ctx, s.testUserID, id)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryServiceSuite) TestDeleteCategory_InUse() {
	id := uuid.New()
	s.categoryRepo.EXPECT().Delete(s.ctx, s.testUserID, id).Return(repositories.ErrCategoryInUse)

	s.ErrorIs(s.service.DeleteCategory(s.ctx, s.testUserID, id), ErrCategoryInUse)
}
