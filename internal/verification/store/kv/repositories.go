package kv

import (
	"context"
	"fmt"

	"charterline/internal/verification/models"
	"charterline/pkg/platform/sentinel"
)

// StatusRepository stores VerificationStatus records under KeyStatuses.
type StatusRepository struct {
	items *Collection[models.VerificationStatus]
}

func NewStatusRepository(b Backend) *StatusRepository {
	return &StatusRepository{items: NewCollection[models.VerificationStatus](b, KeyStatuses)}
}

func (r *StatusRepository) Get(ctx context.Context, entityID string) (*models.VerificationStatus, error) {
	found, err := r.items.Filter(ctx, func(v models.VerificationStatus) bool { return v.EntityID == entityID })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("verification status %s: %w", entityID, sentinel.ErrNotFound)
	}
	return found[0].Clone(), nil
}

func (r *StatusRepository) Upsert(ctx context.Context, status *models.VerificationStatus) error {
	return r.items.Upsert(ctx, *status.Clone(), func(v models.VerificationStatus) bool {
		return v.EntityID == status.EntityID
	})
}

// ReferralRepository stores ReferralStatus records under KeyReferrals.
type ReferralRepository struct {
	items *Collection[models.ReferralStatus]
}

func NewReferralRepository(b Backend) *ReferralRepository {
	return &ReferralRepository{items: NewCollection[models.ReferralStatus](b, KeyReferrals)}
}

func (r *ReferralRepository) ListByEntity(ctx context.Context, entityID string) ([]*models.ReferralStatus, error) {
	found, err := r.items.Filter(ctx, func(v models.ReferralStatus) bool { return v.EntityID == entityID })
	if err != nil {
		return nil, err
	}
	out := make([]*models.ReferralStatus, 0, len(found))
	for i := range found {
		out = append(out, found[i].Clone())
	}
	return out, nil
}

func (r *ReferralRepository) Upsert(ctx context.Context, referral *models.ReferralStatus) error {
	return r.items.Upsert(ctx, *referral.Clone(), func(v models.ReferralStatus) bool {
		return v.EntityID == referral.EntityID && v.Category == referral.Category
	})
}

// ResolutionRepository stores FlagResolution records under KeyResolutions.
type ResolutionRepository struct {
	items *Collection[models.FlagResolution]
}

func NewResolutionRepository(b Backend) *ResolutionRepository {
	return &ResolutionRepository{items: NewCollection[models.FlagResolution](b, KeyResolutions)}
}

func (r *ResolutionRepository) ListByEntity(ctx context.Context, entityID string) ([]models.FlagResolution, error) {
	return r.items.Filter(ctx, func(v models.FlagResolution) bool { return v.EntityID == entityID })
}

func (r *ResolutionRepository) Upsert(ctx context.Context, res models.FlagResolution) error {
	return r.items.Upsert(ctx, res, func(v models.FlagResolution) bool {
		return v.EntityID == res.EntityID && v.FlagID == res.FlagID
	})
}

// SubmissionRepository stores the latest intake per entity under KeySubmissions.
type SubmissionRepository struct {
	items *Collection[models.Submission]
}

func NewSubmissionRepository(b Backend) *SubmissionRepository {
	return &SubmissionRepository{items: NewCollection[models.Submission](b, KeySubmissions)}
}

func (r *SubmissionRepository) Get(ctx context.Context, entityID string) (*models.Submission, error) {
	found, err := r.items.Filter(ctx, func(v models.Submission) bool { return v.EntityID == entityID })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("submission %s: %w", entityID, sentinel.ErrNotFound)
	}
	sub := found[0]
	return &sub, nil
}

func (r *SubmissionRepository) Upsert(ctx context.Context, sub *models.Submission) error {
	return r.items.Upsert(ctx, *sub, func(v models.Submission) bool {
		return v.EntityID == sub.EntityID
	})
}
