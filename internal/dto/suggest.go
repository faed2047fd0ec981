package dto

type SuggestCategoryRequest struct {
	Description string `json:"description" validate:"required,max=255"`
}
