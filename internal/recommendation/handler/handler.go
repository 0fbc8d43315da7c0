package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charterline/internal/recommendation"
	dErrors "charterline/pkg/domain-errors"
	"charterline/pkg/platform/httputil"
	"charterline/pkg/requestcontext"
)

// Recommender scores exploration answers.
type Recommender interface {
	Recommend(answers recommendation.ExplorationAnswers) recommendation.Result
}

// Handler wires the recommendation endpoint to the engine.
type Handler struct {
	engine Recommender
	logger *slog.Logger
}

func New(engine Recommender, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/screening/recommendation", h.HandleRecommend)
}

// HandleRecommend handles POST /screening/recommendation.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecommendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.engine.Recommend(req.ExplorationAnswers)
	h.logger.InfoContext(ctx, "structure recommended",
		"request_id", requestID,
		"recommendation", string(result.Recommendation),
		"score", result.Score,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

const (
	maxTags       = 50
	maxTextLength = 4000
)

// RecommendRequest is the questionnaire body.
type RecommendRequest struct {
	recommendation.ExplorationAnswers
}

// Validate bounds the payload size; every answer itself is optional.
func (r *RecommendRequest) Validate() error {
	if len(r.MissionTags) > maxTags || len(r.ImpactTags) > maxTags {
		return dErrors.New(dErrors.CodeValidation, "too many tags")
	}
	if len(r.Mission) > maxTextLength {
		return dErrors.New(dErrors.CodeValidation, "mission is too long")
	}
	return nil
}
