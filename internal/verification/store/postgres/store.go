// Package postgres implements the lifecycle repositories with one table per
// record type.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
	"charterline/pkg/platform/sentinel"
)

// Store implements every lifecycle repository against one database.
type Store struct {
	db *sql.DB
}

// New wraps a migrated database (see internal/platform/postgres).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Statuses, Referrals, Resolutions and Submissions expose the store under the
// narrower repository types the service expects.
func (s *Store) Statuses() *StatusStore        { return &StatusStore{db: s.db} }
func (s *Store) Referrals() *ReferralStore     { return &ReferralStore{db: s.db} }
func (s *Store) Resolutions() *ResolutionStore { return &ResolutionStore{db: s.db} }
func (s *Store) Submissions() *SubmissionStore { return &SubmissionStore{db: s.db} }

type StatusStore struct{ db *sql.DB }

func (s *StatusStore) Get(ctx context.Context, entityID string) (*models.VerificationStatus, error) {
	query := `
		SELECT entity_id, documents_verified, referrals_verified, overall_verified,
			verified_at, verified_by, notes, created_at, updated_at
		FROM verification_statuses
		WHERE entity_id = $1
	`
	var (
		v          models.VerificationStatus
		verifiedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, entityID).Scan(
		&v.EntityID, &v.DocumentsVerified, &v.ReferralsVerified, &v.OverallVerified,
		&verifiedAt, &v.VerifiedBy, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verification status %s: %w", entityID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get verification status: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		v.VerifiedAt = &t
	}
	return &v, nil
}

func (s *StatusStore) Upsert(ctx context.Context, v *models.VerificationStatus) error {
	query := `
		INSERT INTO verification_statuses (entity_id, documents_verified, referrals_verified,
			overall_verified, verified_at, verified_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entity_id) DO UPDATE SET
			documents_verified = EXCLUDED.documents_verified,
			referrals_verified = EXCLUDED.referrals_verified,
			overall_verified = EXCLUDED.overall_verified,
			verified_at = EXCLUDED.verified_at,
			verified_by = EXCLUDED.verified_by,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		v.EntityID, v.DocumentsVerified, v.ReferralsVerified, v.OverallVerified,
		nullTime(v.VerifiedAt), v.VerifiedBy, v.Notes, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert verification status: %w", err)
	}
	return nil
}

type ReferralStore struct{ db *sql.DB }

func (s *ReferralStore) ListByEntity(ctx context.Context, entityID string) ([]*models.ReferralStatus, error) {
	query := `
		SELECT entity_id, category, status, professional_name, professional_type,
			consultation_date, notes, created_at, updated_at
		FROM referral_statuses
		WHERE entity_id = $1
		ORDER BY created_at, category
	`
	rows, err := s.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("list referral statuses: %w", err)
	}
	defer rows.Close()

	out := []*models.ReferralStatus{}
	for rows.Next() {
		var (
			r         models.ReferralStatus
			consulted sql.NullTime
		)
		if err := rows.Scan(&r.EntityID, &r.Category, &r.Status, &r.ProfessionalName, &r.ProfessionalType,
			&consulted, &r.Notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan referral status: %w", err)
		}
		if consulted.Valid {
			t := consulted.Time
			r.ConsultationDate = &t
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referral statuses: %w", err)
	}
	return out, nil
}

func (s *ReferralStore) Upsert(ctx context.Context, r *models.ReferralStatus) error {
	query := `
		INSERT INTO referral_statuses (entity_id, category, status, professional_name,
			professional_type, consultation_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entity_id, category) DO UPDATE SET
			status = EXCLUDED.status,
			professional_name = EXCLUDED.professional_name,
			professional_type = EXCLUDED.professional_type,
			consultation_date = EXCLUDED.consultation_date,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.EntityID, r.Category, r.Status, r.ProfessionalName, r.ProfessionalType,
		nullTime(r.ConsultationDate), r.Notes, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert referral status: %w", err)
	}
	return nil
}

type ResolutionStore struct{ db *sql.DB }

func (s *ResolutionStore) ListByEntity(ctx context.Context, entityID string) ([]models.FlagResolution, error) {
	query := `
		SELECT entity_id, flag_id, status, resolved_by, notes, resolved_at
		FROM flag_resolutions
		WHERE entity_id = $1
		ORDER BY resolved_at, flag_id
	`
	rows, err := s.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("list flag resolutions: %w", err)
	}
	defer rows.Close()

	out := []models.FlagResolution{}
	for rows.Next() {
		var (
			r      models.FlagResolution
			flagID string
			status string
		)
		if err := rows.Scan(&r.EntityID, &flagID, &status, &r.ResolvedBy, &r.Notes, &r.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan flag resolution: %w", err)
		}
		r.FlagID = compliance.FlagID(flagID)
		r.Status = compliance.FlagStatus(status)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flag resolutions: %w", err)
	}
	return out, nil
}

func (s *ResolutionStore) Upsert(ctx context.Context, r models.FlagResolution) error {
	query := `
		INSERT INTO flag_resolutions (entity_id, flag_id, status, resolved_by, notes, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (entity_id, flag_id) DO UPDATE SET
			status = EXCLUDED.status,
			resolved_by = EXCLUDED.resolved_by,
			notes = EXCLUDED.notes,
			resolved_at = EXCLUDED.resolved_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.EntityID, string(r.FlagID), string(r.Status), r.ResolvedBy, r.Notes, r.ResolvedAt)
	if err != nil {
		return fmt.Errorf("upsert flag resolution: %w", err)
	}
	return nil
}

type SubmissionStore struct{ db *sql.DB }

func (s *SubmissionStore) Get(ctx context.Context, entityID string) (*models.Submission, error) {
	var (
		sub models.Submission
		raw []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT entity_id, record, submitted_at FROM intake_submissions WHERE entity_id = $1`, entityID,
	).Scan(&sub.EntityID, &raw, &sub.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission %s: %w", entityID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if err := json.Unmarshal(raw, &sub.Record); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w: %w", entityID, sentinel.ErrCorrupt, err)
	}
	return &sub, nil
}

func (s *SubmissionStore) Upsert(ctx context.Context, sub *models.Submission) error {
	raw, err := json.Marshal(sub.Record)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	query := `
		INSERT INTO intake_submissions (entity_id, record, submitted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity_id) DO UPDATE SET
			record = EXCLUDED.record,
			submitted_at = EXCLUDED.submitted_at
	`
	if _, err := s.db.ExecContext(ctx, query, sub.EntityID, raw, sub.SubmittedAt); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
