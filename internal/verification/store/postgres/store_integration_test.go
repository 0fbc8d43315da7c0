//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
	"charterline/internal/verification/store/postgres"
	"charterline/pkg/platform/sentinel"
	"charterline/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"verification_statuses", "referral_statuses", "flag_resolutions", "intake_submissions")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestStatusUpsert() {
	ctx := context.Background()
	repo := s.store.Statuses()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := repo.Get(ctx, "entity-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	status := models.NewVerificationStatus("entity-1", now)
	s.Require().NoError(repo.Upsert(ctx, status))

	status.Attest("reviewer", "checked bylaws", true, now.Add(time.Minute))
	s.Require().NoError(repo.Upsert(ctx, status))

	got, err := repo.Get(ctx, "entity-1")
	s.Require().NoError(err)
	s.True(got.OverallVerified)
	s.Equal("reviewer", got.VerifiedBy)
	s.Equal("checked bylaws", got.Notes)
	s.Require().NotNil(got.VerifiedAt)
	s.True(now.Add(time.Minute).Equal(*got.VerifiedAt))
	s.True(now.Equal(got.CreatedAt))
}

func (s *PostgresStoreSuite) TestReferralUpsertByCategory() {
	ctx := context.Background()
	repo := s.store.Referrals()
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(repo.Upsert(ctx, models.NewPendingReferral("entity-1", models.ReferralTaxExempt, now)))
	resolved := models.NewPendingReferral("entity-1", models.ReferralTaxExempt, now)
	resolved.Status = models.ReferralResolved
	resolved.ConsultationDate = &now
	s.Require().NoError(repo.Upsert(ctx, resolved))

	got, err := repo.ListByEntity(ctx, "entity-1")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(models.ReferralResolved, got[0].Status)
	s.Require().NotNil(got[0].ConsultationDate)
}

func (s *PostgresStoreSuite) TestResolutionsAndSubmissions() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.store.Resolutions().Upsert(ctx, models.FlagResolution{
		EntityID: "entity-1", FlagID: compliance.FlagEIN, Status: compliance.FlagStatusResolved,
		ResolvedBy: "filer", ResolvedAt: now,
	}))
	res, err := s.store.Resolutions().ListByEntity(ctx, "entity-1")
	s.Require().NoError(err)
	s.Require().Len(res, 1)
	s.Equal(compliance.FlagEIN, res[0].FlagID)

	sub := &models.Submission{
		EntityID:    "entity-1",
		Record:      compliance.IntakeRecord{OrganizationName: "Harbor Friends", Jurisdictions: []string{"WA", "OR"}},
		SubmittedAt: now,
	}
	s.Require().NoError(s.store.Submissions().Upsert(ctx, sub))
	got, err := s.store.Submissions().Get(ctx, "entity-1")
	s.Require().NoError(err)
	s.Equal("Harbor Friends", got.Record.OrganizationName)
	s.Equal([]string{"WA", "OR"}, got.Record.Jurisdictions)
}
