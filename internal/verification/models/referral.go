package models

import (
	"time"

	compliance "charterline/internal/compliance/models"
)

// ReferralCategory names the concern a referral addresses.
type ReferralCategory string

const (
	ReferralLandholding       ReferralCategory = "landholding"
	ReferralTaxExempt         ReferralCategory = "tax_exempt"
	ReferralFiscalSponsorship ReferralCategory = "fiscal_sponsorship"
	ReferralMultiJurisdiction ReferralCategory = "multi_jurisdiction"
	ReferralFundraising       ReferralCategory = "fundraising"
	ReferralEIN               ReferralCategory = "ein"

	// No detection rule maps to these two. They are recorded by hand and
	// never block verification.
	ReferralSuccession         ReferralCategory = "succession"
	ReferralConflictOfInterest ReferralCategory = "conflict_of_interest"
)

// IsValid reports whether c is a known category.
func (c ReferralCategory) IsValid() bool {
	switch c {
	case ReferralLandholding, ReferralTaxExempt, ReferralFiscalSponsorship, ReferralMultiJurisdiction,
		ReferralFundraising, ReferralEIN, ReferralSuccession, ReferralConflictOfInterest:
		return true
	}
	return false
}

// CategoryForFlag maps a referral-bearing flag to its referral category.
// Flags without a referral report false.
func CategoryForFlag(f compliance.ComplianceFlag) (ReferralCategory, bool) {
	if !f.NeedsReferral() {
		return "", false
	}
	c := ReferralCategory(f.ID)
	return c, c.IsValid()
}

// ReferralState tracks progress on one referral.
type ReferralState string

const (
	ReferralPending   ReferralState = "pending"
	ReferralConsulted ReferralState = "consulted"
	ReferralResolved  ReferralState = "resolved"
	ReferralNotNeeded ReferralState = "not_needed"
)

// IsValid reports whether s is a known referral state.
func (s ReferralState) IsValid() bool {
	switch s {
	case ReferralPending, ReferralConsulted, ReferralResolved, ReferralNotNeeded:
		return true
	}
	return false
}

// IsClosed reports whether the referral no longer blocks verification.
func (s ReferralState) IsClosed() bool {
	return s == ReferralResolved || s == ReferralNotNeeded
}

// ReferralStatus is one referral record, unique per (entity, category).
type ReferralStatus struct {
	EntityID         string           `json:"entityId"`
	Category         ReferralCategory `json:"category"`
	Status           ReferralState    `json:"status"`
	ProfessionalName string           `json:"professionalName,omitempty"`
	ProfessionalType string           `json:"professionalType,omitempty"`
	ConsultationDate *time.Time       `json:"consultationDate,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// NewPendingReferral creates the record written when a category first fires.
func NewPendingReferral(entityID string, category ReferralCategory, now time.Time) *ReferralStatus {
	return &ReferralStatus{
		EntityID:  entityID,
		Category:  category,
		Status:    ReferralPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy.
func (r *ReferralStatus) Clone() *ReferralStatus {
	if r == nil {
		return nil
	}
	c := *r
	if r.ConsultationDate != nil {
		t := *r.ConsultationDate
		c.ConsultationDate = &t
	}
	return &c
}
