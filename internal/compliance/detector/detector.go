// Package detector turns an intake record into an ordered set of compliance
// flags. Detection is pure: no I/O, no clock, no lifecycle state.
package detector

import (
	"slices"

	"charterline/internal/compliance/models"
)

// Detect evaluates every rule against the record and returns the flags that
// fired, in canonical rule order. Absent or empty fields simply do not fire.
// The result is never nil so it serializes as an empty list.
func Detect(record models.IntakeRecord) []models.ComplianceFlag {
	flags := make([]models.ComplianceFlag, 0, len(rules))
	for _, r := range rules {
		if r.matches(record) {
			flags = append(flags, instantiate(r.flag))
		}
	}
	return flags
}

// FlagIDs returns every rule ID in canonical order.
func FlagIDs() []models.FlagID {
	ids := make([]models.FlagID, len(rules))
	for i, r := range rules {
		ids[i] = r.flag.ID
	}
	return ids
}

// IsKnown reports whether id names a detection rule.
func IsKnown(id models.FlagID) bool {
	return slices.Contains(FlagIDs(), id)
}

// instantiate copies a rule's template so callers can mutate the result
// without touching the shared table.
func instantiate(tmpl models.ComplianceFlag) models.ComplianceFlag {
	f := tmpl
	f.RemediationSteps = slices.Clone(tmpl.RemediationSteps)
	if tmpl.Referral != nil {
		ref := *tmpl.Referral
		f.Referral = &ref
	}
	f.Status = models.FlagStatusActive
	return f
}
