package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"
	"finance-ledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type CategoryHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockCategoryServiceInterface
	handler     *CategoryHandler
	echo        *echo.Echo
	userID      uuid.UUID
}

func TestCategoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerSuite))
}

func (s *CategoryHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockCategoryServiceInterface(s.ctrl)
	s.handler = NewCategoryHandler(s.mockService)
	s.echo = newTestEcho()
	s.userID = uuid.New()
}

func (s *CategoryHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CategoryHandlerSuite) TestListCategories() {
	categories := []models.Category{
		{ID: uuid.New(), UserID: s.userID, Name: "Food", Kind: models.CategoryKindExpense},
		{ID: uuid.New(), UserID: s.userID, Name: "Salary", Kind: models.CategoryKindIncome},
	}
	s.mockService.EXPECT().ListCategories(gomock.Any(), s.userID).Return(categories, nil)

	c, rec := newAuthedContext(s.echo, http.MethodGet, "/api/categories", nil, &s.userID)

	s.NoError(s.handler.ListCategories(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.CategoryListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Total)
}

func (s *CategoryHandlerSuite) TestCreateCategory_Success() {
	s.mockService.EXPECT().
		CreateCategory(gomock.Any(), s.userID, services.CategoryInput{Name: "Groceries", Kind: "expense"}).
		Return(&models.Category{ID: uuid.New(), UserID: s.userID, Name: "Groceries", Kind: models.CategoryKindExpense}, nil)

	body := map[string]string{"name": "Groceries", "type": "expense"}
	c, rec := newAuthedContext(s.echo, http.MethodPost, "/api/categories", body, &s.userID)

	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"Groceries"`)
}

func (s *CategoryHandlerSuite) TestCreateCategory_TransferKindRejected() {
	body := map[string]string{"name": "Moves", "type": "TRANSFER"}
	c, rec := newAuthedContext(s.echo, http.MethodPost, "/api/categories", body, &s.userID)

	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *CategoryHandlerSuite) TestCreateCategory_NameTaken() {
	s.mockService.EXPECT().
		CreateCategory(gomock.Any(), s.userID, gomock.Any()).
		Return(nil, services.ErrCategoryNameTaken)

	body := map[string]string{"name": "Food", "type": "EXPENSE"}
	c, rec := newAuthedContext(s.echo, http.MethodPost, "/api/categories", body, &s.userID)

	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(string(apierrors.CategoryNameTaken), decodeErrorResponse(s.T(), rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestUpdateCategory() {
	categoryID := uuid.New()
	s.mockService.EXPECT().
		UpdateCategory(gomock.Any(), s.userID, categoryID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, update services.CategoryUpdate) (*models.Category, error) {
			s.Nil(update.Name)
			s.Require().NotNil(update.Kind)
			s.Equal("INCOME", *update.Kind)
			return &models.Category{ID: categoryID, Name: "Refunds", Kind: models.CategoryKindIncome}, nil
		})

	c, rec := newAuthedContext(s.echo, http.MethodPut, "/api/categories/"+categoryID.String(), map[string]string{"type": "INCOME"}, &s.userID)
	withParam(c, "id", categoryID.String())

	s.NoError(s.handler.UpdateCategory(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *CategoryHandlerSuite) TestUpdateCategory_NotFound() {
	categoryID := uuid.New()
	s.mockService.EXPECT().
		UpdateCategory(gomock.Any(), s.userID, categoryID, gomock.Any()).
		Return(nil, services.ErrCategoryNotFound)

	c, rec := newAuthedContext(s.echo, http.MethodPut, "/api/categories/"+categoryID.String(), map[string]string{"name": "X"}, &s.userID)
	withParam(c, "id", categoryID.String())

	s.NoError(s.handler.UpdateCategory(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *CategoryHandlerSuite) TestDeleteCategory_InUse() {
	categoryID := uuid.New()
	s.mockService.EXPECT().
		DeleteCategory(gomock.Any(), s.userID, categoryID).
		Return(services.ErrCategoryInUse)

	c, rec := newAuthedContext(s.echo, http.MethodDelete, "/api/categories/"+categoryID.String(), nil, &s.userID)
	withParam(c, "id", categoryID.String())

	s.NoError(s.handler.DeleteCategory(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(string(apierrors.CategoryInUse), decodeErrorResponse(s.T(), rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestDeleteCategory_Success() {
	categoryID := uuid.New()
	s.mockService.EXPECT().DeleteCategory(gomock.Any(), s.userID, categoryID).Return(nil)

	c, rec := newAuthedContext(s.echo, http.MethodDelete, "/api/categories/"+categoryID.String(), nil, &s.userID)
	withParam(c, "id", categoryID.String())

	s.NoError(s.handler.DeleteCategory(c))
	s.Equal(http.StatusNoContent, rec.Code)
}
