package handler

import (
	"strings"
	"time"

	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
	dErrors "charterline/pkg/domain-errors"
)

const maxNotesLength = 4000

// SubmitIntakeRequest is the intake record itself.
type SubmitIntakeRequest struct {
	compliance.IntakeRecord
}

func (r *SubmitIntakeRequest) Validate() error {
	if strings.TrimSpace(r.OrganizationName) == "" {
		return dErrors.New(dErrors.CodeValidation, "organizationName is required")
	}
	return nil
}

// MarkVerifiedRequest is the body of POST /entities/{entityID}/verification.
type MarkVerifiedRequest struct {
	VerifiedBy string `json:"verifiedBy"`
	Notes      string `json:"notes"`
}

func (r *MarkVerifiedRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes is too long")
	}
	if strings.TrimSpace(r.VerifiedBy) == "" {
		return dErrors.New(dErrors.CodeValidation, "verifiedBy is required")
	}
	return nil
}

// FlagStatusRequest is the body of the resolve and dismiss endpoints.
type FlagStatusRequest struct {
	ResolvedBy string `json:"resolvedBy"`
	Notes      string `json:"notes"`
}

func (r *FlagStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes is too long")
	}
	if strings.TrimSpace(r.ResolvedBy) == "" {
		return dErrors.New(dErrors.CodeValidation, "resolvedBy is required")
	}
	return nil
}

// SetReferralRequest is the body of PUT /entities/{entityID}/referrals/{category}.
type SetReferralRequest struct {
	Status           models.ReferralState `json:"status"`
	ProfessionalName string               `json:"professionalName"`
	ProfessionalType string               `json:"professionalType"`
	ConsultationDate *time.Time           `json:"consultationDate"`
	Notes            string               `json:"notes"`
}

func (r *SetReferralRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes is too long")
	}
	if r.Status != "" && !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of pending, consulted, resolved, not_needed")
	}
	return nil
}

func (r *SetReferralRequest) toModel(entityID string, category models.ReferralCategory) *models.ReferralStatus {
	return &models.ReferralStatus{
		EntityID:         entityID,
		Category:         category,
		Status:           r.Status,
		ProfessionalName: strings.TrimSpace(r.ProfessionalName),
		ProfessionalType: strings.TrimSpace(r.ProfessionalType),
		ConsultationDate: r.ConsultationDate,
		Notes:            r.Notes,
	}
}
