package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"notebookmark-backend/domain"
	"notebookmark-backend/pkg/common"
	"notebookmark-backend/pkg/utils"

	"go.uber.org/zap"
)

// DigestLoader loads a digest snapshot by number.
type DigestLoader interface {
	LoadDigest(ctx context.Context, number string) (*domain.ReadingNotes, error)
}

// IntroService drafts an introduction paragraph for a digest.
type IntroService interface {
	GenerateIntro(ctx context.Context, digest *domain.ReadingNotes) (string, error)
}

// AIHandler handles AI-assisted drafting requests. The intro service is nil
// when no API key is configured.
type AIHandler struct {
	digests DigestLoader
	intro   IntroService
	logger  *zap.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(digests DigestLoader, intro IntroService, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		digests: digests,
		intro:   intro,
		logger:  logger,
	}
}

// GenerateIntroRequest is the body of POST /ai/GenerateIntro.
type GenerateIntroRequest struct {
	Number string `json:"number" validate:"required"`
}

// GenerateIntro handles POST /ai/GenerateIntro: load the digest and draft an
// introduction paragraph from its notes.
func (h *AIHandler) GenerateIntro(w http.ResponseWriter, r *http.Request) {
	if h.intro == nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "intro generation is not configured")
		return
	}

	var req GenerateIntroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	digest, err := h.digests.LoadDigest(r.Context(), req.Number)
	if err != nil {
		h.logger.Error("failed to load digest", zap.String("number", req.Number), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to load reading notes")
		return
	}
	if digest == nil {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "reading notes not found")
		return
	}

	intro, err := h.intro.GenerateIntro(r.Context(), digest)
	if err != nil {
		h.logger.Error("failed to generate intro", zap.String("number", req.Number), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to generate intro")
		return
	}
	common.RespondJSON(w, http.StatusOK, intro)
}
