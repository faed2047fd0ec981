package validation

import (
	"reflect"
	"strings"

	"finance-ledger/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("category_kind", validateCategoryKind)
	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("period", validatePeriod)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("query")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct using the registered rules
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Custom validation functions. Matching is case-insensitive; services
// normalize the stored value.

func validateAccountType(fl validator.FieldLevel) bool {
	return models.IsValidAccountType(models.NormalizeAccountType(fl.Field().String()))
}

func validateCategoryKind(fl validator.FieldLevel) bool {
	return models.IsValidCategoryKind(models.NormalizeKind(fl.Field().String()))
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	return models.IsValidTransactionKind(models.NormalizeKind(fl.Field().String()))
}

// validatePeriod accepts a calendar month written as YYYY-MM
func validatePeriod(fl validator.FieldLevel) bool {
	_, err := models.ParsePeriod(fl.Field().String())
	return err == nil
}
