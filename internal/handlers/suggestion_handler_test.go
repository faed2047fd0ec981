package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"finance-ledger/internal/models"
	"finance-ledger/internal/services"
	"finance-ledger/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := service_mocks.NewMockSuggestionServiceInterface(ctrl)
	handler := NewSuggestionHandler(mockService)
	e := newTestEcho()
	userID := uuid.New()
	categoryID := uuid.New()
	description := gofakeit.Company() + " restaurant"

	t.Run("returns the resolved category", func(t *testing.T) {
		mockService.EXPECT().
			SuggestCategory(gomock.Any(), userID, description).
			Return(&models.CategorySuggestion{CategoryID: &categoryID, CategoryName: "Food & Dining", Source: services.SuggestionSourceClassifier}, nil)

		c, rec := newAuthedContext(e, http.MethodPost, "/api/suggest-category", map[string]string{"description": description}, &userID)

		require.NoError(t, handler.SuggestCategory(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.CategorySuggestion
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Food & Dining", resp.CategoryName)
		require.NotNil(t, resp.CategoryID)
		assert.Equal(t, categoryID, *resp.CategoryID)
	})

	t.Run("classifier outage is still a 200", func(t *testing.T) {
		mockService.EXPECT().
			SuggestCategory(gomock.Any(), userID, "anything").
			Return(&models.CategorySuggestion{CategoryName: "Other", Source: services.SuggestionSourceFallback, Error: services.ErrClassifierUnavailable.Error()}, nil)

		c, rec := newAuthedContext(e, http.MethodPost, "/api/suggest-category", map[string]string{"description": "anything"}, &userID)

		require.NoError(t, handler.SuggestCategory(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"category":"Other"`)
	})

	t.Run("empty description is rejected", func(t *testing.T) {
		c, rec := newAuthedContext(e, http.MethodPost, "/api/suggest-category", map[string]string{"description": ""}, &userID)

		require.NoError(t, handler.SuggestCategory(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
