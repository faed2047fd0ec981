package middleware

import (
	"errors"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth creates a middleware that requires a valid bearer token and
// stores the caller's user id under "user_id"
func RequireAuth(tokenService services.TokenServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, apierrors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, apierrors.AuthInvalidTokenFormat)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, apierrors.AuthExpiredToken)
				}
				return handlers.SendError(c, apierrors.AuthInvalidTokenFormat)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, apierrors.AuthInvalidTokenFormat, apierrors.WithDetails("Invalid user ID in token"))
			}

			c.Set("user_id", userID)
			c.Set("token_jti", claims.ID)

			return next(c)
		}
	}
}
