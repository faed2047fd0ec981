package handlers

import (
	"errors"
	"fmt"
	"time"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get("user_id")
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

// parseIDParam reads a UUID path parameter
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// parseOptionalUUID returns nil for an empty string
func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// resolvePeriod parses a YYYY-MM month, defaulting to the month of now
func resolvePeriod(month string, now time.Time) (models.Period, error) {
	if month == "" {
		return models.PeriodOf(now), nil
	}
	return models.ParsePeriod(month)
}

// sendValidationError turns validator output into a VALIDATION_001 response
// listing each failing field.
func sendValidationError(c echo.Context, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(err.Error()))
	}

	details := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(details...))
}
