package handlers

import (
	"net/http"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// SuggestionHandler serves category suggestions for free-text descriptions
type SuggestionHandler struct {
	suggestionService services.SuggestionServiceInterface
}

func NewSuggestionHandler(suggestionService services.SuggestionServiceInterface) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// SuggestCategory returns the best matching category for a description.
// Classifier outages degrade to a fallback suggestion, never an error status.
// @Summary Suggest a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SuggestCategoryRequest true "Description"
// @Success 200 {object} models.CategorySuggestion "Suggestion"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Description is required"
// @Router /suggest-category [post]
func (h *SuggestionHandler) SuggestCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.SuggestCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return sendValidationError(c, err)
	}

	suggestion, err := h.suggestionService.SuggestCategory(c.Request().Context(), userID, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, suggestion)
}
