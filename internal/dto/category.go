package dto

import "finance-ledger/internal/models"

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Kind string `json:"type" validate:"required,category_kind"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Kind *string `json:"type" validate:"omitempty,category_kind"`
}

type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
	Total      int               `json:"total"`
}
