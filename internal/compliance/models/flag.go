package models

import "time"

// FlagID identifies a detection rule. It is stable across re-evaluations so
// lifecycle status can be reattached to recomputed flags.
type FlagID string

const (
	FlagLandholding       FlagID = "landholding"
	FlagTaxExempt         FlagID = "tax_exempt"
	FlagFiscalSponsorship FlagID = "fiscal_sponsorship"
	FlagFamilyLeadership  FlagID = "family_leadership"
	FlagMultiJurisdiction FlagID = "multi_jurisdiction"
	FlagComplexGovernance FlagID = "complex_governance"
	FlagFundraising       FlagID = "fundraising"
	FlagGrantSeeking      FlagID = "grant_seeking"
	FlagEIN               FlagID = "ein"
)

// FlagType groups flags by the kind of follow-up they need.
type FlagType string

const (
	FlagTypeLegal    FlagType = "legal"
	FlagTypeReferral FlagType = "referral"
	FlagTypeWarning  FlagType = "warning"
)

// Severity is fixed per detection rule.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities; higher is more severe. Unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Specialty is the kind of professional a referral points to.
type Specialty string

const (
	SpecialtyAttorney        Specialty = "attorney"
	SpecialtyTaxProfessional Specialty = "tax_professional"
	SpecialtySpecialist      Specialty = "specialist"
)

// FlagStatus is the lifecycle status attached to a flag by the verification service.
type FlagStatus string

const (
	FlagStatusActive    FlagStatus = "active"
	FlagStatusResolved  FlagStatus = "resolved"
	FlagStatusDismissed FlagStatus = "dismissed"
)

// IsValid reports whether s is a known flag status.
func (s FlagStatus) IsValid() bool {
	switch s {
	case FlagStatusActive, FlagStatusResolved, FlagStatusDismissed:
		return true
	}
	return false
}

// Referral names the professional to consult and why.
type Referral struct {
	Specialty Specialty `json:"specialty"`
	Reason    string    `json:"reason"`
}

// ComplianceFlag is one detected risk factor. Flags are derived from the
// intake record on every evaluation; only the lifecycle fields are persisted.
type ComplianceFlag struct {
	ID               FlagID    `json:"id"`
	Type             FlagType  `json:"type"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Severity         Severity  `json:"severity"`
	RequiresAction   bool      `json:"requiresAction"`
	Referral         *Referral `json:"referral,omitempty"`
	Recommendation   string    `json:"recommendation,omitempty"`
	RemediationSteps []string  `json:"remediationSteps"`

	Status          FlagStatus `json:"status"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy      string     `json:"resolvedBy,omitempty"`
	ResolutionNotes string     `json:"resolutionNotes,omitempty"`
}

// IsActive returns true unless the flag has been resolved or dismissed.
func (f ComplianceFlag) IsActive() bool {
	return f.Status == "" || f.Status == FlagStatusActive
}

// NeedsReferral reports whether the flag forces a professional referral.
func (f ComplianceFlag) NeedsReferral() bool {
	return f.Referral != nil && f.RequiresAction
}

// FirstStep returns the first remediation step, or "" when there are none.
func (f ComplianceFlag) FirstStep() string {
	if len(f.RemediationSteps) == 0 {
		return ""
	}
	return f.RemediationSteps[0]
}

// ActiveFlags filters out resolved and dismissed flags, preserving order.
func ActiveFlags(flags []ComplianceFlag) []ComplianceFlag {
	out := make([]ComplianceFlag, 0, len(flags))
	for _, f := range flags {
		if f.IsActive() {
			out = append(out, f)
		}
	}
	return out
}
