package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "finance-ledger/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var assertAnError = errors.New("connection reset by peer")

// newTestEcho returns an echo instance with the ledger validator installed
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newAuthedContext builds a request context as RequireAuth would leave it.
// A nil userID leaves the context unauthenticated.
func newAuthedContext(e *echo.Echo, method, target string, body interface{}, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, target, nil)
	case string:
		req = httptest.NewRequest(method, target, bytes.NewBufferString(b))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, target, bytes.NewBuffer(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "test-trace")
	if userID != nil {
		c.Set("user_id", *userID)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
