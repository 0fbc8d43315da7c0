package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"charterline/internal/recommendation"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.router = chi.NewRouter()
	New(recommendation.New(), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/screening/recommendation", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestProceed() {
	rec := s.post(`{"jurisdiction":"US","mission":"Run a neighborhood food pantry","currentForm":"none"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var result recommendation.Result
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal(recommendation.OutcomeProceed, result.Recommendation)
	s.Equal(75, result.Score)
	s.Equal(75, result.Confidence)
	s.NotEmpty(result.NextSteps)
}

func (s *HandlerSuite) TestValidation() {
	s.Run("oversized mission", func() {
		rec := s.post(`{"mission":"` + strings.Repeat("a", maxTextLength+1) + `"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("invalid json", func() {
		rec := s.post(`{`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
