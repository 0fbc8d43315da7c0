package models

import compliance "charterline/internal/compliance/models"

// Evaluation is the combined view of an entity: recomputed flags with their
// lifecycle status, risk over the active flags, guidance text and the
// persisted verification records.
type Evaluation struct {
	EntityID           string                      `json:"entityId"`
	State              State                       `json:"state"`
	VerificationNeeded bool                        `json:"verificationNeeded"`
	Flags              []compliance.ComplianceFlag `json:"flags"`
	Risk               compliance.RiskAssessment   `json:"risk"`
	Guidance           string                      `json:"guidance"`
	OpenReferrals      []ReferralCategory          `json:"openReferrals"`
	Status             *VerificationStatus         `json:"status"`
	Referrals          []*ReferralStatus           `json:"referrals"`
}
