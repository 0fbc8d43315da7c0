package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"charterline/internal/compliance/detector"
	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
)

func TestApplyFlagStatuses(t *testing.T) {
	flags := detector.Detect(compliance.IntakeRecord{SeeksTaxExemption: true, NeedsEIN: true})
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	got := ApplyFlagStatuses(flags, []models.FlagResolution{
		{FlagID: compliance.FlagEIN, Status: compliance.FlagStatusResolved, ResolvedBy: "filer", ResolvedAt: at},
		{FlagID: compliance.FlagLandholding, Status: compliance.FlagStatusDismissed, ResolvedBy: "filer", ResolvedAt: at},
		{FlagID: compliance.FlagTaxExempt, Status: "bogus"},
	})

	assert.Len(t, got, 2)
	assert.Equal(t, compliance.FlagStatusActive, got[0].Status)
	assert.Equal(t, compliance.FlagStatusResolved, got[1].Status)
	assert.Equal(t, "filer", got[1].ResolvedBy)
	assert.Equal(t, compliance.FlagStatusActive, flags[1].Status, "input is not mutated")
}

func TestOpenReferrals(t *testing.T) {
	flags := detector.Detect(compliance.IntakeRecord{
		PropertyPlans:     "rent a venue",
		SeeksTaxExemption: true,
		FamilyLeadership:  true,
		NeedsEIN:          true,
	})

	t.Run("every blocking category open", func(t *testing.T) {
		assert.Equal(t, []models.ReferralCategory{
			models.ReferralLandholding, models.ReferralTaxExempt, models.ReferralEIN,
		}, OpenReferrals(flags, nil))
		assert.False(t, ReferralsVerified(flags, nil))
	})

	t.Run("consulted does not close", func(t *testing.T) {
		referrals := []*models.ReferralStatus{
			{Category: models.ReferralLandholding, Status: models.ReferralConsulted},
			{Category: models.ReferralTaxExempt, Status: models.ReferralNotNeeded},
		}
		assert.Equal(t, []models.ReferralCategory{models.ReferralLandholding, models.ReferralEIN}, OpenReferrals(flags, referrals))
	})

	t.Run("low severity referral blocks alongside a medium one", func(t *testing.T) {
		referrals := []*models.ReferralStatus{
			{Category: models.ReferralLandholding, Status: models.ReferralResolved},
			{Category: models.ReferralTaxExempt, Status: models.ReferralResolved},
			{Category: models.ReferralEIN, Status: models.ReferralPending},
		}
		assert.Equal(t, []models.ReferralCategory{models.ReferralEIN}, OpenReferrals(flags, referrals))

		referrals[2].Status = models.ReferralNotNeeded
		assert.True(t, ReferralsVerified(flags, referrals))
	})

	t.Run("low severity referral alone does not block", func(t *testing.T) {
		einOnly := detector.Detect(compliance.IntakeRecord{NeedsEIN: true})
		assert.Empty(t, OpenReferrals(einOnly, nil))
	})

	t.Run("resolved flags do not block", func(t *testing.T) {
		resolved := ApplyFlagStatuses(flags, []models.FlagResolution{
			{FlagID: compliance.FlagLandholding, Status: compliance.FlagStatusResolved},
			{FlagID: compliance.FlagTaxExempt, Status: compliance.FlagStatusDismissed},
		})
		assert.Empty(t, OpenReferrals(resolved, nil))
		assert.True(t, ReferralsVerified(resolved, nil))
	})

	t.Run("no flags", func(t *testing.T) {
		assert.True(t, ReferralsVerified(nil, nil))
	})
}
