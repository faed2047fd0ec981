package handlers

import (
	"finance-ledger/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator lets c.Validate run the ledger's validation rules on request DTOs
type requestValidator struct {
	validate *validator.Validate
}

func NewValidator() echo.Validator {
	return &requestValidator{validate: validation.GetValidator().GetValidate()}
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
