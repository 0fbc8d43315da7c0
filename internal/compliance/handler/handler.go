package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"charterline/internal/compliance/detector"
	"charterline/internal/compliance/guidance"
	"charterline/internal/compliance/metrics"
	"charterline/internal/compliance/models"
	"charterline/internal/compliance/risk"
	"charterline/pkg/platform/httputil"
	"charterline/pkg/requestcontext"
)

// Handler serves ad-hoc screening of an intake record without persisting it.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{logger: logger, metrics: metrics}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/screening/flags", h.HandleScreen)
}

// HandleScreen handles POST /screening/flags.
func (h *Handler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScreeningRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	flags := detector.Detect(req.IntakeRecord)
	assessment := risk.Assess(flags)
	h.metrics.ObserveScreening(flags, assessment.Tier)

	h.logger.InfoContext(ctx, "intake screened",
		"request_id", requestID,
		"flag_count", len(flags),
		"tier", string(assessment.Tier),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, ScreeningResponse{
		Flags:    flags,
		Risk:     assessment,
		Guidance: guidance.Format(flags),
	})
}

// ScreeningRequest is the intake record itself. Field-level problems are
// tolerated by the record's decoder.
type ScreeningRequest struct {
	models.IntakeRecord
}

func (r *ScreeningRequest) Validate() error { return nil }

type ScreeningResponse struct {
	Flags    []models.ComplianceFlag `json:"flags"`
	Risk     models.RiskAssessment   `json:"risk"`
	Guidance string                  `json:"guidance"`
}
