package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-ledger/internal/config"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAuthMiddleware(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

type AuthMiddlewareSuite struct {
	suite.Suite
	tokenService services.TokenServiceInterface
	e            *echo.Echo
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.tokenService = s.createTokenService(time.Hour)
	s.e = echo.New()
}

func (s *AuthMiddlewareSuite) createTokenService(duration time.Duration) services.TokenServiceInterface {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	return services.NewTokenService(&config.AuthConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "test-issuer",
		AccessTokenDuration: duration,
	})
}

func (s *AuthMiddlewareSuite) serve(authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	called := false
	handler := RequireAuth(s.tokenService)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	s.Require().NoError(handler(c))
	return rec, c, called
}

func (s *AuthMiddlewareSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ValidToken() {
	userID := uuid.New()
	token, _, err := s.tokenService.GenerateAccessToken(userID)
	s.Require().NoError(err)

	rec, c, called := s.serve("Bearer " + token)

	s.True(called)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(userID, c.Get("user_id"))
	s.NotEmpty(c.Get("token_jti"))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_LowercaseBearer() {
	token, _, err := s.tokenService.GenerateAccessToken(uuid.New())
	s.Require().NoError(err)

	rec, _, called := s.serve("bearer " + token)

	s.True(called)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareSuite) TestRequireAuth_MissingHeader() {
	rec, _, called := s.serve("")

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apierrors.AuthMissingToken), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_InvalidFormat() {
	rec, _, called := s.serve("Basic dXNlcjpwYXNz")

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apierrors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_GarbageToken() {
	rec, _, called := s.serve("Bearer not.a.jwt")

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apierrors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ExpiredToken() {
	expired := s.createTokenService(-time.Minute)
	s.tokenService = expired
	token, _, err := expired.GenerateAccessToken(uuid.New())
	s.Require().NoError(err)

	rec, _, called := s.serve("Bearer " + token)

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apierrors.AuthExpiredToken), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_TokenSignedWithOtherKey() {
	other := s.createTokenService(time.Hour)
	token, _, err := other.GenerateAccessToken(uuid.New())
	s.Require().NoError(err)

	rec, _, called := s.serve("Bearer " + token)

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apierrors.AuthInvalidTokenFormat), s.errorCode(rec))
}
