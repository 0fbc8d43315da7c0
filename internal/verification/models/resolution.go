package models

import (
	"time"

	compliance "charterline/internal/compliance/models"
)

// FlagResolution is the persisted lifecycle status of one flag for one
// entity. It is reattached to recomputed flags by flag ID.
type FlagResolution struct {
	EntityID   string                `json:"entityId"`
	FlagID     compliance.FlagID     `json:"flagId"`
	Status     compliance.FlagStatus `json:"status"`
	ResolvedBy string                `json:"resolvedBy"`
	Notes      string                `json:"notes,omitempty"`
	ResolvedAt time.Time             `json:"resolvedAt"`
}

// Apply copies the lifecycle fields onto a flag.
func (r FlagResolution) Apply(f *compliance.ComplianceFlag) {
	at := r.ResolvedAt
	f.Status = r.Status
	f.ResolvedAt = &at
	f.ResolvedBy = r.ResolvedBy
	f.ResolutionNotes = r.Notes
}

// Submission is the latest intake record stored for an entity.
type Submission struct {
	EntityID    string                  `json:"entityId"`
	Record      compliance.IntakeRecord `json:"record"`
	SubmittedAt time.Time               `json:"submittedAt"`
}
