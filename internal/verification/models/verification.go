package models

import "time"

// State is the lifecycle position of an entity.
type State string

const (
	StateUnchecked         State = "unchecked"
	StateNeedsVerification State = "needs_verification"
	StateVerified          State = "verified"
)

// VerificationStatus is the per-entity sign-off record. Last write wins.
type VerificationStatus struct {
	EntityID          string     `json:"entityId"`
	DocumentsVerified bool       `json:"documentsVerified"`
	ReferralsVerified bool       `json:"referralsVerified"`
	OverallVerified   bool       `json:"overallVerified"`
	VerifiedAt        *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy        string     `json:"verifiedBy,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// NewVerificationStatus creates the needs-verification record written on the
// first verification check for an entity.
func NewVerificationStatus(entityID string, now time.Time) *VerificationStatus {
	return &VerificationStatus{
		EntityID:  entityID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// State maps a possibly nil status onto the lifecycle.
func (v *VerificationStatus) State() State {
	switch {
	case v == nil:
		return StateUnchecked
	case v.OverallVerified:
		return StateVerified
	default:
		return StateNeedsVerification
	}
}

// Attest records a human sign-off. Overall verification follows from the
// attestation and the computed referral state, never from caller intent.
func (v *VerificationStatus) Attest(verifiedBy, notes string, referralsVerified bool, now time.Time) {
	v.DocumentsVerified = true
	v.ReferralsVerified = referralsVerified
	v.OverallVerified = v.DocumentsVerified && v.ReferralsVerified
	v.VerifiedBy = verifiedBy
	v.Notes = notes
	v.VerifiedAt = &now
	v.UpdatedAt = now
}

// Downgrade returns a verified entity to needs-verification after its intake
// changed in a way that reopens referrals. The attestation is kept.
func (v *VerificationStatus) Downgrade(now time.Time) {
	v.ReferralsVerified = false
	v.OverallVerified = false
	v.UpdatedAt = now
}

// Clone returns a deep copy.
func (v *VerificationStatus) Clone() *VerificationStatus {
	if v == nil {
		return nil
	}
	c := *v
	if v.VerifiedAt != nil {
		t := *v.VerifiedAt
		c.VerifiedAt = &t
	}
	return &c
}
