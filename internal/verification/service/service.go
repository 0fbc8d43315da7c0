// Package service implements the per-entity verification lifecycle:
// unchecked, needs_verification and verified. Flags are recomputed from the
// stored intake on every read; only their lifecycle status is persisted.
//
// Storage errors never reach callers. Reads degrade to nil or empty results
// and writes return the conservative (unverified) view, with the failure
// logged and counted.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"charterline/internal/audit"
	"charterline/internal/compliance/detector"
	"charterline/internal/compliance/guidance"
	compliance "charterline/internal/compliance/models"
	"charterline/internal/compliance/risk"
	"charterline/internal/verification/metrics"
	"charterline/internal/verification/models"
	dErrors "charterline/pkg/domain-errors"
	"charterline/pkg/platform/sentinel"
	"charterline/pkg/requestcontext"
)

// StatusStore persists one VerificationStatus per entity. Get returns
// sentinel.ErrNotFound when none exists.
type StatusStore interface {
	Get(ctx context.Context, entityID string) (*models.VerificationStatus, error)
	Upsert(ctx context.Context, status *models.VerificationStatus) error
}

// ReferralStore persists ReferralStatus records keyed by entity and category.
type ReferralStore interface {
	ListByEntity(ctx context.Context, entityID string) ([]*models.ReferralStatus, error)
	Upsert(ctx context.Context, referral *models.ReferralStatus) error
}

// ResolutionStore persists flag lifecycle statuses keyed by entity and flag.
type ResolutionStore interface {
	ListByEntity(ctx context.Context, entityID string) ([]models.FlagResolution, error)
	Upsert(ctx context.Context, resolution models.FlagResolution) error
}

// SubmissionStore persists the latest intake per entity. Get returns
// sentinel.ErrNotFound when none exists.
type SubmissionStore interface {
	Get(ctx context.Context, entityID string) (*models.Submission, error)
	Upsert(ctx context.Context, submission *models.Submission) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Stores groups the repositories the service needs.
type Stores struct {
	Statuses    StatusStore
	Referrals   ReferralStore
	Resolutions ResolutionStore
	Submissions SubmissionStore
}

const (
	opGetStatus       = "get_status"
	opMarkVerified    = "mark_verified"
	opResolveFlag     = "resolve_flag"
	opDismissFlag     = "dismiss_flag"
	opGetReferrals    = "get_referral_status"
	opSetReferral     = "set_referral_status"
	opNeedsCheck      = "is_verification_needed"
	opSubmitIntake    = "submit_intake"
	opEvaluate        = "evaluate"
	opState           = "state"
	systemActor       = "system"
	tracerName        = "charterline/internal/verification/service"
	maxIdentityLength = 256
)

// Service orchestrates the verification lifecycle.
type Service struct {
	statuses       StatusStore
	referrals      ReferralStore
	resolutions    ResolutionStore
	submissions    SubmissionStore
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
	locks          *entityLocks
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithTracer overrides the otel tracer. The default comes from the global
// provider and is a no-op unless an SDK is installed.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New constructs a Service. Every store is required.
func New(stores Stores, opts ...Option) (*Service, error) {
	switch {
	case stores.Statuses == nil:
		return nil, errors.New("verification status store is required")
	case stores.Referrals == nil:
		return nil, errors.New("referral status store is required")
	case stores.Resolutions == nil:
		return nil, errors.New("flag resolution store is required")
	case stores.Submissions == nil:
		return nil, errors.New("intake submission store is required")
	}

	s := &Service{
		statuses:    stores.Statuses,
		referrals:   stores.Referrals,
		resolutions: stores.Resolutions,
		submissions: stores.Submissions,
		logger:      slog.New(slog.DiscardHandler),
		tracer:      otel.Tracer(tracerName),
		locks:       newEntityLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetStatus returns the entity's VerificationStatus, or nil while the entity
// is unchecked. It never writes.
func (s *Service) GetStatus(ctx context.Context, entityID string) (*models.VerificationStatus, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return nil, err
	}
	ctx, done := s.begin(ctx, opGetStatus, entityID)
	defer done()

	return s.loadStatus(ctx, opGetStatus, entityID), nil
}

// State reports where the entity sits in the lifecycle.
func (s *Service) State(ctx context.Context, entityID string) (models.State, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return "", err
	}
	ctx, done := s.begin(ctx, opState, entityID)
	defer done()

	return s.loadStatus(ctx, opState, entityID).State(), nil
}

// MarkVerified records a human attestation. ReferralsVerified is computed
// from the current flags and referral records, so OverallVerified reflects
// ground truth even when the caller attests with referrals still open.
func (s *Service) MarkVerified(ctx context.Context, entityID, verifiedBy, notes string) (*models.VerificationStatus, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return nil, err
	}
	if err := requireActor("verifiedBy", verifiedBy); err != nil {
		return nil, err
	}
	ctx, done := s.begin(ctx, opMarkVerified, entityID)
	defer done()
	unlock := s.locks.lock(entityID)
	defer unlock()

	now := requestcontext.Now(ctx)
	status, readable := s.lookupStatus(ctx, opMarkVerified, entityID)
	previous := status.State()
	if status == nil {
		status = models.NewVerificationStatus(entityID, now)
	}

	open := s.openReferrals(ctx, opMarkVerified, entityID)
	status.Attest(verifiedBy, notes, len(open) == 0, now)

	// An unreadable record is left alone rather than replaced by a fresh one.
	if !readable {
		return unconfirmed(status), nil
	}
	if err := s.statuses.Upsert(ctx, status); err != nil {
		s.degrade(ctx, opMarkVerified, entityID, err)
		return unconfirmed(status), nil
	}
	s.transition(previous, status.State())

	if len(open) > 0 {
		s.logger.WarnContext(ctx, "attestation recorded with open referrals",
			"entity_id", entityID,
			"verified_by", verifiedBy,
			"open_referrals", open,
		)
	} else {
		s.logger.InfoContext(ctx, "entity verified",
			"entity_id", entityID,
			"verified_by", verifiedBy,
		)
	}
	s.emit(ctx, audit.Event{
		Timestamp: now,
		EntityID:  entityID,
		Action:    audit.ActionVerificationMarked,
		Actor:     verifiedBy,
		Decision:  string(status.State()),
		Reason:    status.Notes,
	})
	return status.Clone(), nil
}

// ResolveFlag marks a flag resolved for an entity. The status sticks to the
// flag ID and survives re-detection. A nil result means the status could
// not be stored and the flag remains active.
func (s *Service) ResolveFlag(ctx context.Context, entityID string, flagID compliance.FlagID, resolvedBy, notes string) (*models.FlagResolution, error) {
	return s.setFlagStatus(ctx, opResolveFlag, entityID, flagID, compliance.FlagStatusResolved, resolvedBy, notes)
}

// DismissFlag marks a flag dismissed for an entity. See ResolveFlag.
func (s *Service) DismissFlag(ctx context.Context, entityID string, flagID compliance.FlagID, dismissedBy, notes string) (*models.FlagResolution, error) {
	return s.setFlagStatus(ctx, opDismissFlag, entityID, flagID, compliance.FlagStatusDismissed, dismissedBy, notes)
}

func (s *Service) setFlagStatus(ctx context.Context, op, entityID string, flagID compliance.FlagID, status compliance.FlagStatus, by, notes string) (*models.FlagResolution, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return nil, err
	}
	if err := requireActor("resolvedBy", by); err != nil {
		return nil, err
	}
	if !detector.IsKnown(flagID) {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown flag id %q", flagID))
	}
	ctx, done := s.begin(ctx, op, entityID)
	defer done()
	unlock := s.locks.lock(entityID)
	defer unlock()

	now := requestcontext.Now(ctx)
	res := models.FlagResolution{
		EntityID:   entityID,
		FlagID:     flagID,
		Status:     status,
		ResolvedBy: by,
		Notes:      notes,
		ResolvedAt: now,
	}
	if err := s.resolutions.Upsert(ctx, res); err != nil {
		s.degrade(ctx, op, entityID, err, "flag_id", string(flagID))
		return nil, nil
	}

	action := audit.ActionFlagResolved
	if status == compliance.FlagStatusDismissed {
		action = audit.ActionFlagDismissed
	}
	s.logger.InfoContext(ctx, "flag status recorded",
		"entity_id", entityID,
		"flag_id", string(flagID),
		"status", string(status),
		"resolved_by", by,
	)
	s.emit(ctx, audit.Event{
		Timestamp: now,
		EntityID:  entityID,
		Action:    action,
		Actor:     by,
		Subject:   string(flagID),
		Reason:    res.Notes,
	})
	return &res, nil
}

// GetReferralStatus lists the entity's referral records. Storage failures
// yield an empty list.
func (s *Service) GetReferralStatus(ctx context.Context, entityID string) ([]*models.ReferralStatus, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return nil, err
	}
	ctx, done := s.begin(ctx, opGetReferrals, entityID)
	defer done()

	return s.loadReferrals(ctx, opGetReferrals, entityID), nil
}

// SetReferralStatus upserts a referral by (entity, category). An empty
// status means pending. A verified entity whose referral is reopened drops
// back to needs_verification. A nil result means nothing was stored.
func (s *Service) SetReferralStatus(ctx context.Context, referral *models.ReferralStatus) (*models.ReferralStatus, error) {
	if referral == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "referral is required")
	}
	entityID, err := requireEntity(referral.EntityID)
	if err != nil {
		return nil, err
	}
	if !referral.Category.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown referral category %q", referral.Category))
	}
	rec := referral.Clone()
	rec.EntityID = entityID
	if rec.Status == "" {
		rec.Status = models.ReferralPending
	}
	if !rec.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown referral status %q", rec.Status))
	}

	ctx, done := s.begin(ctx, opSetReferral, entityID)
	defer done()
	unlock := s.locks.lock(entityID)
	defer unlock()

	now := requestcontext.Now(ctx)
	rec.CreatedAt = now
	for _, existing := range s.loadReferrals(ctx, opSetReferral, entityID) {
		if existing.Category == rec.Category {
			rec.CreatedAt = existing.CreatedAt
			break
		}
	}
	rec.UpdatedAt = now

	if err := s.referrals.Upsert(ctx, rec); err != nil {
		s.degrade(ctx, opSetReferral, entityID, err, "category", string(rec.Category))
		return nil, nil
	}
	s.logger.InfoContext(ctx, "referral status recorded",
		"entity_id", entityID,
		"category", string(rec.Category),
		"status", string(rec.Status),
	)
	s.emit(ctx, audit.Event{
		Timestamp: now,
		EntityID:  entityID,
		Action:    audit.ActionReferralUpdated,
		Actor:     rec.ProfessionalName,
		Subject:   string(rec.Category),
		Decision:  string(rec.Status),
		Reason:    rec.Notes,
	})
	s.reconcile(ctx, opSetReferral, entityID, now)
	return rec.Clone(), nil
}

// IsVerificationNeeded is true when no status exists, the status is not
// verified, or the flags recomputed from the stored intake leave a blocking
// referral open. It never writes.
func (s *Service) IsVerificationNeeded(ctx context.Context, entityID string) (bool, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return true, err
	}
	ctx, done := s.begin(ctx, opNeedsCheck, entityID)
	defer done()

	status := s.loadStatus(ctx, opNeedsCheck, entityID)
	if status == nil || !status.OverallVerified {
		return true, nil
	}
	return len(s.openReferrals(ctx, opNeedsCheck, entityID)) > 0, nil
}

// SubmitIntake stores the latest intake for the entity derived from its name
// and creation time, opens pending referrals for newly fired categories,
// creates the needs_verification status on first submission and downgrades
// a verified entity whose new flags reopen a referral.
func (s *Service) SubmitIntake(ctx context.Context, record compliance.IntakeRecord) (*models.Evaluation, error) {
	if strings.TrimSpace(record.OrganizationName) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "organizationName is required")
	}
	now := requestcontext.Now(ctx)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	entityID := models.NewEntityKey(record.OrganizationName, record.CreatedAt)

	ctx, done := s.begin(ctx, opSubmitIntake, entityID)
	defer done()
	unlock := s.locks.lock(entityID)
	defer unlock()

	sub := &models.Submission{EntityID: entityID, Record: record, SubmittedAt: now}
	if err := s.submissions.Upsert(ctx, sub); err != nil {
		s.degrade(ctx, opSubmitIntake, entityID, err)
		return s.evaluate(ctx, opSubmitIntake, entityID, record), nil
	}

	flags := ApplyFlagStatuses(detector.Detect(record), s.loadResolutions(ctx, opSubmitIntake, entityID))
	s.openPendingReferrals(ctx, entityID, flags, now)

	if status := s.loadStatus(ctx, opSubmitIntake, entityID); status == nil {
		status = models.NewVerificationStatus(entityID, now)
		if err := s.statuses.Upsert(ctx, status); err != nil {
			s.degrade(ctx, opSubmitIntake, entityID, err)
		} else {
			s.transition(models.StateUnchecked, status.State())
		}
	} else {
		s.reconcile(ctx, opSubmitIntake, entityID, now)
	}

	s.logger.InfoContext(ctx, "intake submitted",
		"entity_id", entityID,
		"flag_count", len(flags),
	)
	s.emit(ctx, audit.Event{
		Timestamp: now,
		EntityID:  entityID,
		Action:    audit.ActionIntakeSubmitted,
		Actor:     record.Organizer.Name,
	})
	return s.evaluate(ctx, opSubmitIntake, entityID, record), nil
}

// Evaluate returns the combined view of a submitted entity.
func (s *Service) Evaluate(ctx context.Context, entityID string) (*models.Evaluation, error) {
	entityID, err := requireEntity(entityID)
	if err != nil {
		return nil, err
	}
	ctx, done := s.begin(ctx, opEvaluate, entityID)
	defer done()

	sub, err := s.submissions.Get(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	if err != nil {
		s.degrade(ctx, opEvaluate, entityID, err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load intake")
	}
	return s.evaluate(ctx, opEvaluate, entityID, sub.Record), nil
}

func (s *Service) evaluate(ctx context.Context, op, entityID string, record compliance.IntakeRecord) *models.Evaluation {
	flags := ApplyFlagStatuses(detector.Detect(record), s.loadResolutions(ctx, op, entityID))
	referrals := s.loadReferrals(ctx, op, entityID)
	status := s.loadStatus(ctx, op, entityID)
	open := OpenReferrals(flags, referrals)

	return &models.Evaluation{
		EntityID:           entityID,
		State:              status.State(),
		VerificationNeeded: status == nil || !status.OverallVerified || len(open) > 0,
		Flags:              flags,
		Risk:               risk.Assess(compliance.ActiveFlags(flags)),
		Guidance:           guidance.Format(flags),
		OpenReferrals:      open,
		Status:             status,
		Referrals:          referrals,
	}
}

// openPendingReferrals creates a pending record for each referral category
// fired by an active flag that has no record yet.
func (s *Service) openPendingReferrals(ctx context.Context, entityID string, flags []compliance.ComplianceFlag, now time.Time) {
	have := make(map[models.ReferralCategory]bool)
	for _, r := range s.loadReferrals(ctx, opSubmitIntake, entityID) {
		have[r.Category] = true
	}
	for _, f := range compliance.ActiveFlags(flags) {
		category, ok := models.CategoryForFlag(f)
		if !ok || have[category] {
			continue
		}
		have[category] = true
		if err := s.referrals.Upsert(ctx, models.NewPendingReferral(entityID, category, now)); err != nil {
			s.degrade(ctx, opSubmitIntake, entityID, err, "category", string(category))
		}
	}
}

// reconcile downgrades a verified entity whose invariant no longer holds.
// Callers hold the entity lock.
func (s *Service) reconcile(ctx context.Context, op, entityID string, now time.Time) {
	status := s.loadStatus(ctx, op, entityID)
	if status == nil || !status.OverallVerified {
		return
	}
	open := s.openReferrals(ctx, op, entityID)
	if len(open) == 0 {
		return
	}
	status.Downgrade(now)
	if err := s.statuses.Upsert(ctx, status); err != nil {
		s.degrade(ctx, op, entityID, err)
		return
	}
	s.transition(models.StateVerified, status.State())
	s.logger.WarnContext(ctx, "verification downgraded",
		"entity_id", entityID,
		"open_referrals", open,
	)
	s.emit(ctx, audit.Event{
		Timestamp: now,
		EntityID:  entityID,
		Action:    audit.ActionVerificationDowngraded,
		Actor:     systemActor,
		Decision:  string(status.State()),
		Reason:    "referrals reopened: " + joinCategories(open),
	})
}

// openReferrals recomputes flags from the stored intake and returns the
// blocking referral categories. When the intake cannot be read the answer is
// conservative: a single placeholder category keeps the entity unverified.
func (s *Service) openReferrals(ctx context.Context, op, entityID string) []models.ReferralCategory {
	sub, err := s.submissions.Get(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return []models.ReferralCategory{}
	}
	if err != nil {
		s.degrade(ctx, op, entityID, err)
		return []models.ReferralCategory{unknownCategory}
	}
	flags := ApplyFlagStatuses(detector.Detect(sub.Record), s.loadResolutions(ctx, op, entityID))
	return OpenReferrals(flags, s.loadReferrals(ctx, op, entityID))
}

// unknownCategory stands in for referrals that could not be computed.
const unknownCategory models.ReferralCategory = "unknown"

func (s *Service) loadStatus(ctx context.Context, op, entityID string) *models.VerificationStatus {
	status, _ := s.lookupStatus(ctx, op, entityID)
	return status
}

// lookupStatus is loadStatus that also reports whether the store answered.
// A missing record is readable; a failed read is not.
func (s *Service) lookupStatus(ctx context.Context, op, entityID string) (*models.VerificationStatus, bool) {
	status, err := s.statuses.Get(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		s.degrade(ctx, op, entityID, err)
		return nil, false
	}
	return status, true
}

// unconfirmed is the attestation as the caller sees it when it was not
// stored: never verified.
func unconfirmed(status *models.VerificationStatus) *models.VerificationStatus {
	out := status.Clone()
	out.ReferralsVerified = false
	out.OverallVerified = false
	return out
}

func (s *Service) loadReferrals(ctx context.Context, op, entityID string) []*models.ReferralStatus {
	referrals, err := s.referrals.ListByEntity(ctx, entityID)
	if err != nil {
		s.degrade(ctx, op, entityID, err)
		return []*models.ReferralStatus{}
	}
	if referrals == nil {
		return []*models.ReferralStatus{}
	}
	return referrals
}

func (s *Service) loadResolutions(ctx context.Context, op, entityID string) []models.FlagResolution {
	res, err := s.resolutions.ListByEntity(ctx, entityID)
	if err != nil {
		s.degrade(ctx, op, entityID, err)
		return nil
	}
	return res
}

// degrade logs and counts a storage failure the caller will not see.
func (s *Service) degrade(ctx context.Context, op, entityID string, err error, args ...any) {
	s.metrics.IncPersistenceFailure(op)
	attrs := append([]any{"operation", op, "entity_id", entityID, "error", err}, args...)
	s.logger.ErrorContext(ctx, "verification storage failed", attrs...)
	trace.SpanFromContext(ctx).RecordError(err)
}

func (s *Service) transition(from, to models.State) {
	if from != to {
		s.metrics.IncTransition(string(to))
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(event.Action),
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}

// begin opens a span and returns the func that ends it and records timing.
func (s *Service) begin(ctx context.Context, op, entityID string) (context.Context, func()) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification."+op,
		trace.WithAttributes(attribute.String("entity_id", entityID)))
	return ctx, func() {
		s.metrics.ObserveOperation(op, start)
		span.End()
	}
}

func requireEntity(entityID string) (string, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return "", dErrors.New(dErrors.CodeValidation, "entityId is required")
	}
	if len(entityID) > maxIdentityLength {
		return "", dErrors.New(dErrors.CodeValidation, "entityId is too long")
	}
	return entityID, nil
}

// requireActor rejects blank actors. The value is stored as given.
func requireActor(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if len(value) > maxIdentityLength {
		return dErrors.New(dErrors.CodeValidation, field+" is too long")
	}
	return nil
}

func joinCategories(categories []models.ReferralCategory) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
