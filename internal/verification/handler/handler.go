package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	compliance "charterline/internal/compliance/models"
	"charterline/internal/verification/models"
	"charterline/pkg/platform/httputil"
	"charterline/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler needs.
type Service interface {
	SubmitIntake(ctx context.Context, record compliance.IntakeRecord) (*models.Evaluation, error)
	Evaluate(ctx context.Context, entityID string) (*models.Evaluation, error)
	GetStatus(ctx context.Context, entityID string) (*models.VerificationStatus, error)
	State(ctx context.Context, entityID string) (models.State, error)
	IsVerificationNeeded(ctx context.Context, entityID string) (bool, error)
	MarkVerified(ctx context.Context, entityID, verifiedBy, notes string) (*models.VerificationStatus, error)
	ResolveFlag(ctx context.Context, entityID string, flagID compliance.FlagID, resolvedBy, notes string) (*models.FlagResolution, error)
	DismissFlag(ctx context.Context, entityID string, flagID compliance.FlagID, dismissedBy, notes string) (*models.FlagResolution, error)
	GetReferralStatus(ctx context.Context, entityID string) ([]*models.ReferralStatus, error)
	SetReferralStatus(ctx context.Context, referral *models.ReferralStatus) (*models.ReferralStatus, error)
}

// Handler wires entity lifecycle endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts entity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/entities", h.HandleSubmitIntake)
	r.Route("/entities/{entityID}", func(r chi.Router) {
		r.Get("/", h.HandleEvaluate)
		r.Get("/verification", h.HandleGetVerification)
		r.Post("/verification", h.HandleMarkVerified)
		r.Post("/flags/{flagID}/resolve", h.HandleResolveFlag)
		r.Post("/flags/{flagID}/dismiss", h.HandleDismissFlag)
		r.Get("/referrals", h.HandleListReferrals)
		r.Put("/referrals/{category}", h.HandleSetReferral)
	})
}

// HandleSubmitIntake handles POST /entities.
func (h *Handler) HandleSubmitIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitIntakeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	eval, err := h.service.SubmitIntake(ctx, req.IntakeRecord)
	if err != nil {
		h.fail(ctx, w, "intake submission failed", err, "request_id", requestID)
		return
	}
	h.logger.InfoContext(ctx, "intake accepted",
		"request_id", requestID,
		"entity_id", eval.EntityID,
		"state", string(eval.State),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, eval)
}

// HandleEvaluate handles GET /entities/{entityID}.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID := chi.URLParam(r, "entityID")

	eval, err := h.service.Evaluate(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "evaluation failed", err, "entity_id", entityID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, eval)
}

// HandleGetVerification handles GET /entities/{entityID}/verification.
func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID := chi.URLParam(r, "entityID")

	status, err := h.service.GetStatus(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "get verification failed", err, "entity_id", entityID)
		return
	}
	needed, err := h.service.IsVerificationNeeded(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "get verification failed", err, "entity_id", entityID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VerificationResponse{
		EntityID:           entityID,
		State:              status.State(),
		VerificationNeeded: needed,
		Status:             status,
	})
}

// HandleMarkVerified handles POST /entities/{entityID}/verification.
func (h *Handler) HandleMarkVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	entityID := chi.URLParam(r, "entityID")

	req, ok := httputil.DecodeAndPrepare[MarkVerifiedRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	status, err := h.service.MarkVerified(ctx, entityID, req.VerifiedBy, req.Notes)
	if err != nil {
		h.fail(ctx, w, "mark verified failed", err, "entity_id", entityID, "request_id", requestID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VerificationResponse{
		EntityID:           entityID,
		State:              status.State(),
		VerificationNeeded: !status.OverallVerified,
		Status:             status,
	})
}

// HandleResolveFlag handles POST /entities/{entityID}/flags/{flagID}/resolve.
func (h *Handler) HandleResolveFlag(w http.ResponseWriter, r *http.Request) {
	h.handleFlagStatus(w, r, h.service.ResolveFlag)
}

// HandleDismissFlag handles POST /entities/{entityID}/flags/{flagID}/dismiss.
func (h *Handler) HandleDismissFlag(w http.ResponseWriter, r *http.Request) {
	h.handleFlagStatus(w, r, h.service.DismissFlag)
}

type flagStatusFunc func(ctx context.Context, entityID string, flagID compliance.FlagID, by, notes string) (*models.FlagResolution, error)

func (h *Handler) handleFlagStatus(w http.ResponseWriter, r *http.Request, apply flagStatusFunc) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	entityID := chi.URLParam(r, "entityID")
	flagID := compliance.FlagID(chi.URLParam(r, "flagID"))

	req, ok := httputil.DecodeAndPrepare[FlagStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := apply(ctx, entityID, flagID, req.ResolvedBy, req.Notes)
	if err != nil {
		h.fail(ctx, w, "flag status update failed", err, "entity_id", entityID, "flag_id", string(flagID))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FlagStatusResponse{Recorded: res != nil, Resolution: res})
}

// HandleListReferrals handles GET /entities/{entityID}/referrals.
func (h *Handler) HandleListReferrals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entityID := chi.URLParam(r, "entityID")

	referrals, err := h.service.GetReferralStatus(ctx, entityID)
	if err != nil {
		h.fail(ctx, w, "list referrals failed", err, "entity_id", entityID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReferralsResponse{EntityID: entityID, Referrals: referrals})
}

// HandleSetReferral handles PUT /entities/{entityID}/referrals/{category}.
func (h *Handler) HandleSetReferral(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	entityID := chi.URLParam(r, "entityID")
	category := models.ReferralCategory(chi.URLParam(r, "category"))

	req, ok := httputil.DecodeAndPrepare[SetReferralRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	saved, err := h.service.SetReferralStatus(ctx, req.toModel(entityID, category))
	if err != nil {
		h.fail(ctx, w, "set referral failed", err, "entity_id", entityID, "category", string(category))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReferralResponse{Recorded: saved != nil, Referral: saved})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	h.logger.WarnContext(ctx, msg, append(args, "error", err)...)
	httputil.WriteError(w, err)
}
