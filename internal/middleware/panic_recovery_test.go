package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type PanicRecoveryTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	handler *ErrorHandler
}

func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) SetupTest() {
	s.echo = echo.New()
	s.handler = NewErrorHandler(prometheus.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *PanicRecoveryTestSuite) TestRecover_ReturnsSystemError() {
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetPath("/api/transactions")
	c.Set(TraceIDContextKey, "panic-trace")

	handler := s.handler.Recover()(func(c echo.Context) error {
		panic("nil map write")
	})

	err := handler(c)
	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)

	var resp apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(string(apierrors.SystemInternalError), resp.Error.Code)
	s.Equal("panic-trace", resp.Error.TraceID)
	s.NotContains(rec.Body.String(), "nil map write")

	count := testutil.ToFloat64(s.handler.errorsTotal.WithLabelValues(string(apierrors.SystemInternalError), "/api/transactions", "500"))
	s.Equal(float64(1), count)
}

func (s *PanicRecoveryTestSuite) TestRecover_UnknownTraceID() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := s.handler.Recover()(func(c echo.Context) error {
		panic(io.ErrUnexpectedEOF)
	})

	s.NoError(handler(c))

	var resp apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("unknown", resp.Error.TraceID)
}

func (s *PanicRecoveryTestSuite) TestRecover_PassesThroughWithoutPanic() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := s.handler.Recover()(func(c echo.Context) error {
		return c.String(http.StatusOK, "fine")
	})

	s.NoError(handler(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("fine", rec.Body.String())
}

func (s *PanicRecoveryTestSuite) TestRecover_CommittedResponseIsNotRewritten() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := s.handler.Recover()(func(c echo.Context) error {
		_ = c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	s.NoError(handler(c))
	s.Equal(http.StatusAccepted, rec.Code)
	s.Equal("partial", rec.Body.String())
}
