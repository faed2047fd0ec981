package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RequestIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func TestRequestIDTestSuite(t *testing.T) {
	suite.Run(t, new(RequestIDTestSuite))
}

func (s *RequestIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

// run executes RequestID with the given incoming header and returns the trace
// id seen by the handler, the correlation id on the request context and the
// response recorder
func (s *RequestIDTestSuite) run(incoming string) (string, string, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	if incoming != "" {
		req.Header.Set(TraceIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	var traceID, correlationID string
	handler := RequestID()(func(c echo.Context) error {
		traceID = GetTraceID(c)
		correlationID = services.CorrelationIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	s.Require().NoError(handler(c))
	return traceID, correlationID, rec
}

func (s *RequestIDTestSuite) TestRequestID_GeneratesUUID() {
	traceID, _, rec := s.run("")

	_, err := uuid.Parse(traceID)
	s.NoError(err)
	s.Equal(traceID, rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestRequestID_KeepsIncomingTraceID() {
	traceID, _, rec := s.run("upstream-trace-42")

	s.Equal("upstream-trace-42", traceID)
	s.Equal("upstream-trace-42", rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestRequestID_FallsBackToRequestIDHeader() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "lb-request-7")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.Require().NoError(RequestID()(func(c echo.Context) error { return nil })(c))

	s.Equal("lb-request-7", GetTraceID(c))
	s.Equal("lb-request-7", rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestRequestID_PropagatesCorrelationID() {
	traceID, correlationID, _ := s.run("")
	s.Equal(traceID, correlationID)

	_, correlationID, _ = s.run("upstream-trace-42")
	s.Equal("upstream-trace-42", correlationID)
}

func (s *RequestIDTestSuite) TestGetTraceID_EmptyWhenNotSet() {
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	s.Empty(GetTraceID(c))

	c.Set(TraceIDContextKey, 123)
	s.Empty(GetTraceID(c))
}
