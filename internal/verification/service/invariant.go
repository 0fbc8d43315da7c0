package service

import (
	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
)

// ApplyFlagStatuses attaches stored lifecycle statuses to freshly detected
// flags by flag ID. Resolutions for flags that did not fire are ignored.
func ApplyFlagStatuses(flags []compliance.ComplianceFlag, resolutions []models.FlagResolution) []compliance.ComplianceFlag {
	byID := make(map[compliance.FlagID]models.FlagResolution, len(resolutions))
	for _, r := range resolutions {
		byID[r.FlagID] = r
	}
	out := make([]compliance.ComplianceFlag, len(flags))
	for i, f := range flags {
		if r, ok := byID[f.ID]; ok && r.Status.IsValid() {
			r.Apply(&f)
		}
		out[i] = f
	}
	return out
}

// OpenReferrals lists the referral categories that block verification. When
// no active high or medium flag needs a referral nothing blocks. Otherwise
// every active flag's referral category must be resolved or not_needed,
// low severity ones included. Order follows the flags.
func OpenReferrals(flags []compliance.ComplianceFlag, referrals []*models.ReferralStatus) []models.ReferralCategory {
	open := []models.ReferralCategory{}
	if !hasBlockingReferral(flags) {
		return open
	}
	closed := make(map[models.ReferralCategory]bool, len(referrals))
	for _, r := range referrals {
		if r != nil && r.Status.IsClosed() {
			closed[r.Category] = true
		}
	}
	for _, f := range flags {
		if !f.IsActive() {
			continue
		}
		category, ok := models.CategoryForFlag(f)
		if !ok || closed[category] {
			continue
		}
		open = append(open, category)
	}
	return open
}

func hasBlockingReferral(flags []compliance.ComplianceFlag) bool {
	for _, f := range flags {
		if f.IsActive() && f.NeedsReferral() && f.Severity.Rank() >= compliance.SeverityMedium.Rank() {
			return true
		}
	}
	return false
}

// ReferralsVerified reports whether no referral blocks verification.
func ReferralsVerified(flags []compliance.ComplianceFlag, referrals []*models.ReferralStatus) bool {
	return len(OpenReferrals(flags, referrals)) == 0
}
