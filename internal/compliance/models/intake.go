package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Address is the organizer's postal address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Organizer is the person filing on behalf of the organization.
type Organizer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// Signature is a signed-and-dated block on the formation documents.
type Signature struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// IntakeRecord describes a prospective organization as submitted by the
// filer. It is immutable input to flag detection once submitted.
type IntakeRecord struct {
	OrganizationName string    `json:"organizationName"`
	Purpose          string    `json:"purpose"`
	Activities       string    `json:"activities"`
	Jurisdiction     string    `json:"jurisdiction"`
	FormationDate    string    `json:"formationDate"`
	Organizer        Organizer `json:"organizer"`

	NeedsEIN          bool `json:"needsEin"`
	SeeksTaxExemption bool `json:"seeksTaxExemption"`
	FiscalSponsorship bool `json:"fiscalSponsorship"`

	PropertyPlans    string `json:"propertyPlans"`
	GrantPlans       string `json:"grantPlans"`
	FundraisingPlans string `json:"fundraisingPlans"`

	LeadershipStructure            string `json:"leadershipStructure"`
	FamilyLeadership               bool   `json:"familyLeadership"`
	SuccessionPlan                 string `json:"successionPlan"`
	ConflictOfInterestAcknowledged bool   `json:"conflictOfInterestAcknowledged"`

	HasEmblem         bool   `json:"hasEmblem"`
	EmblemDescription string `json:"emblemDescription"`

	MultiJurisdiction bool     `json:"multiJurisdiction"`
	Jurisdictions     []string `json:"jurisdictions"`

	ComplianceNotes    string    `json:"complianceNotes"`
	OrganizerSignature Signature `json:"organizerSignature"`
	WitnessSignature   Signature `json:"witnessSignature"`

	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON decodes field by field. A field that is absent or carries
// the wrong JSON type is left at its zero value ("not applicable") instead of
// failing the whole record; only a body that is not a JSON object errors.
func (r *IntakeRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out IntakeRecord
	for key, dst := range out.fieldTargets() {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			// Unmarshal may have partially written into dst.
			resetField(dst)
		}
	}
	out.Jurisdictions = decodeStringList(fields["jurisdictions"])

	*r = out
	return nil
}

func (r *IntakeRecord) fieldTargets() map[string]any {
	return map[string]any{
		"organizationName":               &r.OrganizationName,
		"purpose":                        &r.Purpose,
		"activities":                     &r.Activities,
		"jurisdiction":                   &r.Jurisdiction,
		"formationDate":                  &r.FormationDate,
		"organizer":                      &r.Organizer,
		"needsEin":                       &r.NeedsEIN,
		"seeksTaxExemption":              &r.SeeksTaxExemption,
		"fiscalSponsorship":              &r.FiscalSponsorship,
		"propertyPlans":                  &r.PropertyPlans,
		"grantPlans":                     &r.GrantPlans,
		"fundraisingPlans":               &r.FundraisingPlans,
		"leadershipStructure":            &r.LeadershipStructure,
		"familyLeadership":               &r.FamilyLeadership,
		"successionPlan":                 &r.SuccessionPlan,
		"conflictOfInterestAcknowledged": &r.ConflictOfInterestAcknowledged,
		"hasEmblem":                      &r.HasEmblem,
		"emblemDescription":              &r.EmblemDescription,
		"multiJurisdiction":              &r.MultiJurisdiction,
		"complianceNotes":                &r.ComplianceNotes,
		"organizerSignature":             &r.OrganizerSignature,
		"witnessSignature":               &r.WitnessSignature,
		"createdAt":                      &r.CreatedAt,
	}
}

func resetField(dst any) {
	switch v := dst.(type) {
	case *string:
		*v = ""
	case *bool:
		*v = false
	case *Organizer:
		*v = Organizer{}
	case *Signature:
		*v = Signature{}
	case *time.Time:
		*v = time.Time{}
	}
}

// decodeStringList keeps the non-blank string entries of a JSON array and
// drops everything else.
func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
