package handlers

import (
	"net/http"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories returns the caller's categories ordered by name
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CategoryListResponse "Categories"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categories, err := h.categoryService.ListCategories(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// CreateCategory creates an INCOME or EXPENSE category
// @Summary Create category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category "Created category"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002 - Category name already used"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), userID, services.CategoryInput{
		Name: req.Name,
		Kind: req.Kind,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category or changes its kind
// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} models.Category "Updated category"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), userID, categoryID, services.CategoryUpdate{
		Name: req.Name,
		Kind: req.Kind,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category no transaction references
// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID (UUID)"
// @Success 204 "Category deleted"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_003 - Category is in use"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), userID, categoryID); err != nil {
		return handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
