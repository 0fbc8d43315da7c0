package detector

import (
	"strings"

	"charterline/internal/compliance/models"
)

var (
	landholdingKeywords = []string{"land", "property", "real estate", "building", "facility", "venue", "space"}
	governanceKeywords  = []string{"board", "committee", "council"}
	fundraisingKeywords = []string{"grant", "donation", "fundraising"}
)

// rule pairs a trigger with the flag it emits. Rules never look at each
// other's output; the grant-seeking note re-checks the fundraising trigger
// itself so the two stay mutually exclusive.
type rule struct {
	flag    models.ComplianceFlag
	matches func(models.IntakeRecord) bool
}

// rules is the canonical rule table. Order here is the emission order.
var rules = []rule{
	{
		matches: func(r models.IntakeRecord) bool {
			return containsAny(r.PropertyPlans, landholdingKeywords)
		},
		flag: models.ComplianceFlag{
			ID:             models.FlagLandholding,
			Type:           models.FlagTypeLegal,
			Title:          "Land or property plans",
			Description:    "Unincorporated associations face limits on holding title to real property, and leases or purchases can expose members to personal liability.",
			Severity:       models.SeverityHigh,
			RequiresAction: true,
			Referral: &models.Referral{
				Specialty: models.SpecialtyAttorney,
				Reason:    "Confirm how the association can hold or lease property and who signs for it.",
			},
			RemediationSteps: []string{
				"Consult a real estate attorney before signing any lease or purchase agreement",
				"Decide whether a trustee, fiscal sponsor or incorporated entity should hold title",
				"Review liability insurance for the property or venue",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool { return r.SeeksTaxExemption },
		flag: models.ComplianceFlag{
			ID:             models.FlagTaxExempt,
			Type:           models.FlagTypeReferral,
			Title:          "Tax-exempt status application",
			Description:    "Applying for tax-exempt recognition requires organizing documents with specific purpose and dissolution language.",
			Severity:       models.SeverityHigh,
			RequiresAction: true,
			Referral: &models.Referral{
				Specialty: models.SpecialtyTaxProfessional,
				Reason:    "Check eligibility and the required governing-document language before filing.",
			},
			RemediationSteps: []string{
				"Consult a tax professional about eligibility for tax-exempt recognition",
				"Add purpose and dissolution clauses that meet exemption requirements",
				"Prepare the exemption application and supporting financial projections",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool { return r.FiscalSponsorship },
		flag: models.ComplianceFlag{
			ID:             models.FlagFiscalSponsorship,
			Type:           models.FlagTypeLegal,
			Title:          "Fiscal sponsorship arrangement",
			Description:    "Operating under a fiscal sponsor shifts control of funds and reporting to the sponsor and needs a written agreement.",
			Severity:       models.SeverityMedium,
			RequiresAction: true,
			Referral: &models.Referral{
				Specialty: models.SpecialtyAttorney,
				Reason:    "Review the sponsorship agreement before accepting funds through the sponsor.",
			},
			RemediationSteps: []string{
				"Have an attorney review the fiscal sponsorship agreement",
				"Confirm which party controls restricted funds and grant reporting",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool { return r.FamilyLeadership },
		flag: models.ComplianceFlag{
			ID:             models.FlagFamilyLeadership,
			Type:           models.FlagTypeWarning,
			Title:          "Family members in leadership",
			Description:    "Related leaders can create conflicts of interest and weaken independent oversight.",
			Severity:       models.SeverityLow,
			RequiresAction: false,
			Recommendation: "Adopt a conflict-of-interest policy and include at least one unrelated officer.",
			RemediationSteps: []string{
				"Adopt a written conflict-of-interest policy",
				"Document how related members recuse themselves from votes that affect each other",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool {
			return r.MultiJurisdiction && len(r.Jurisdictions) > 1
		},
		flag: models.ComplianceFlag{
			ID:             models.FlagMultiJurisdiction,
			Type:           models.FlagTypeLegal,
			Title:          "Activity in multiple jurisdictions",
			Description:    "Operating or fundraising in more than one jurisdiction can require separate registrations and reporting.",
			Severity:       models.SeverityMedium,
			RequiresAction: true,
			Referral: &models.Referral{
				Specialty: models.SpecialtyAttorney,
				Reason:    "Identify registration and reporting duties in each jurisdiction.",
			},
			RemediationSteps: []string{
				"Ask an attorney which jurisdictions require foreign registration",
				"List charitable solicitation registrations needed in each jurisdiction",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool {
			return containsAny(r.LeadershipStructure, governanceKeywords)
		},
		flag: models.ComplianceFlag{
			ID:             models.FlagComplexGovernance,
			Type:           models.FlagTypeWarning,
			Title:          "Multi-body governance structure",
			Description:    "Boards, committees or councils need clearly divided authority in the governing documents.",
			Severity:       models.SeverityLow,
			RequiresAction: false,
			Recommendation: "Review the governing documents so each body's powers and quorum rules are explicit.",
			RemediationSteps: []string{
				"Review how authority is split between the board and any committees or councils",
				"Define quorum and voting rules for each governing body",
			},
		},
	},
	{
		matches: mentionsFundraising,
		flag: models.ComplianceFlag{
			ID:             models.FlagFundraising,
			Type:           models.FlagTypeReferral,
			Title:          "Fundraising and grant activity",
			Description:    "Soliciting donations or grants brings receipting, solicitation registration and reporting duties.",
			Severity:       models.SeverityMedium,
			RequiresAction: true,
			Referral: &models.Referral{
				Specialty: models.SpecialtyTaxProfessional,
				Reason:    "Set up donation receipting and check solicitation reporting obligations.",
			},
			RemediationSteps: []string{
				"Consult a tax professional about donation receipting and reporting",
				"Check whether charitable solicitation registration is required before fundraising",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool {
			return strings.TrimSpace(r.GrantPlans) != "" && !mentionsFundraising(r)
		},
		flag: models.ComplianceFlag{
			ID:             models.FlagGrantSeeking,
			Type:           models.FlagTypeWarning,
			Title:          "Future funding plans",
			Description:    "Many funders expect a formal structure, a bank account and sometimes tax-exempt status.",
			Severity:       models.SeverityLow,
			RequiresAction: false,
			Recommendation: "Review funder eligibility requirements before applying.",
			RemediationSteps: []string{
				"Review eligibility requirements of the funders you plan to approach",
			},
		},
	},
	{
		matches: func(r models.IntakeRecord) bool { return r.NeedsEIN },
		flag: models.ComplianceFlag{
			ID:             models.FlagEIN,
			Type:           models.FlagTypeReferral,
			Title:          "Employer identification number",
			Description:    "An EIN is needed to open a bank account, hire staff or apply for most grants.",
			Severity:       models.SeverityLow,
			RequiresAction: true,
			Referral: &models.Referral{
				Specialty: models.SpecialtyTaxProfessional,
				Reason:    "Confirm the responsible party and entity classification for the EIN application.",
			},
			RemediationSteps: []string{
				"Apply for an EIN after the association adopts its governing documents",
				"Confirm the responsible party and entity type with a tax professional",
			},
		},
	},
}

func mentionsFundraising(r models.IntakeRecord) bool {
	return containsAny(r.FundraisingPlans, fundraisingKeywords) ||
		containsAny(r.GrantPlans, fundraisingKeywords)
}

// containsAny is a case-insensitive substring match against any keyword.
func containsAny(text string, keywords []string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
