package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
	"charterline/internal/verification/service"
	"charterline/internal/verification/store/kv"
	dErrors "charterline/pkg/domain-errors"
	"charterline/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	backend := kv.NewMemoryBackend()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(service.Stores{
		Statuses:    kv.NewStatusRepository(backend),
		Referrals:   kv.NewReferralRepository(backend),
		Resolutions: kv.NewResolutionRepository(backend),
		Submissions: kv.NewSubmissionRepository(backend),
	}, service.WithLogger(logger))
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router)
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, path, body))
}

func decode[T any](s *HandlerSuite, rec *httptest.ResponseRecorder) T {
	return testutil.UnmarshalResponse[T](s.T(), rec)
}

const taxExemptIntake = `{
	"organizationName": "Westside Youth Soccer",
	"createdAt": "2025-05-01T12:00:00Z",
	"seeksTaxExemption": true,
	"familyLeadership": true
}`

func (s *HandlerSuite) submit() models.Evaluation {
	rec := s.do(http.MethodPost, "/entities", taxExemptIntake)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Evaluation](s, rec)
}

func (s *HandlerSuite) TestLifecycleOverHTTP() {
	eval := s.submit()
	entity := "/entities/" + eval.EntityID
	s.Equal(models.StateNeedsVerification, eval.State)
	s.Len(eval.Flags, 2)

	s.Run("evaluate returns the stored view", func() {
		rec := s.do(http.MethodGet, entity, "")
		s.Require().Equal(http.StatusOK, rec.Code)
		got := decode[models.Evaluation](s, rec)
		s.Equal(eval.EntityID, got.EntityID)
		s.Equal([]models.ReferralCategory{models.ReferralTaxExempt}, got.OpenReferrals)
	})

	s.Run("resolve a flag", func() {
		rec := s.do(http.MethodPost, entity+"/flags/family_leadership/resolve", `{"resolvedBy":"filer","notes":"policy adopted"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		resp := decode[FlagStatusResponse](s, rec)
		s.True(resp.Recorded)
		s.Equal(compliance.FlagStatusResolved, resp.Resolution.Status)
	})

	s.Run("attestation with an open referral stays unverified", func() {
		rec := s.do(http.MethodPost, entity+"/verification", `{"verifiedBy":"reviewer","notes":"docs ok"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		resp := decode[VerificationResponse](s, rec)
		s.Equal(models.StateNeedsVerification, resp.State)
		s.True(resp.VerificationNeeded)
		s.Equal("docs ok", resp.Status.Notes)
	})

	s.Run("closing the referral and re-attesting verifies", func() {
		rec := s.do(http.MethodPut, entity+"/referrals/tax_exempt", `{"status":"resolved","professionalName":"Dana CPA"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.True(decode[ReferralResponse](s, rec).Recorded)

		rec = s.do(http.MethodPost, entity+"/verification", `{"verifiedBy":"reviewer"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Equal(models.StateVerified, decode[VerificationResponse](s, rec).State)

		rec = s.do(http.MethodGet, entity+"/verification", "")
		s.Require().Equal(http.StatusOK, rec.Code)
		resp := decode[VerificationResponse](s, rec)
		s.False(resp.VerificationNeeded)
		s.Equal("reviewer", resp.Status.VerifiedBy)
	})

	s.Run("referrals list", func() {
		rec := s.do(http.MethodGet, entity+"/referrals", "")
		s.Require().Equal(http.StatusOK, rec.Code)
		resp := decode[ReferralsResponse](s, rec)
		s.Require().Len(resp.Referrals, 1)
		s.Equal(models.ReferralResolved, resp.Referrals[0].Status)
	})
}

func (s *HandlerSuite) TestErrors() {
	s.Run("unknown entity evaluates to 404", func() {
		rec := s.do(http.MethodGet, "/entities/nope", "")
		testutil.AssertStatusAndError(s.T(), rec, http.StatusNotFound, dErrors.CodeNotFound)
	})

	s.Run("unchecked entity verification view", func() {
		rec := s.do(http.MethodGet, "/entities/nope/verification", "")
		s.Require().Equal(http.StatusOK, rec.Code)
		resp := decode[VerificationResponse](s, rec)
		s.Equal(models.StateUnchecked, resp.State)
		s.True(resp.VerificationNeeded)
		s.Nil(resp.Status)
	})

	s.Run("missing organization name", func() {
		rec := s.do(http.MethodPost, "/entities", `{"purpose":"sports"}`)
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, dErrors.CodeValidation)
	})

	s.Run("unknown flag id", func() {
		rec := s.do(http.MethodPost, "/entities/e1/flags/not_a_rule/dismiss", `{"resolvedBy":"filer"}`)
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, dErrors.CodeValidation)
	})

	s.Run("missing verifier", func() {
		rec := s.do(http.MethodPost, "/entities/e1/verification", `{"notes":"x"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown referral category", func() {
		rec := s.do(http.MethodPut, "/entities/e1/referrals/payroll", `{"status":"pending"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown referral status", func() {
		rec := s.do(http.MethodPut, "/entities/e1/referrals/ein", `{"status":"someday"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
