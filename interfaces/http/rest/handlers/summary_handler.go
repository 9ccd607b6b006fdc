package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"notebookmark-backend/domain"
	"notebookmark-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SummaryService is the slice of the storage service the summary endpoints
// need.
type SummaryService interface {
	Summaries(ctx context.Context) ([]domain.Summary, error)
	SaveSummary(ctx context.Context, summary domain.Summary) error
	LoadDigest(ctx context.Context, number string) (*domain.ReadingNotes, error)
	SaveDigestMarkdown(ctx context.Context, markdown, number string) string
}

// SummaryHandler handles summary-related HTTP requests
type SummaryHandler struct {
	service SummaryService
	logger  *zap.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(service SummaryService, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /summary
func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summaries(r.Context())
	if err != nil {
		h.logger.Error("failed to list summaries", zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to list summaries")
		return
	}
	common.RespondJSON(w, http.StatusOK, summaries)
}

// Save handles POST /summary/summary
func (h *SummaryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var summary domain.Summary
	if err := json.NewDecoder(r.Body).Decode(&summary); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(summary.PartitionKey) == "" ||
		strings.TrimSpace(summary.RowKey) == "" ||
		strings.TrimSpace(summary.Title) == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "partition key, row key and title are required")
		return
	}

	if err := h.service.SaveSummary(r.Context(), summary); err != nil {
		h.logger.Error("failed to save summary", zap.String("rowKey", summary.RowKey), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save summary")
		return
	}
	common.RespondJSON(w, http.StatusCreated, summary)
}

// GetReadingNotes handles GET /summary/{number}: load the digest snapshot.
func (h *SummaryHandler) GetReadingNotes(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	digest, err := h.service.LoadDigest(r.Context(), number)
	if err != nil {
		h.logger.Error("failed to load digest", zap.String("number", number), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to load reading notes")
		return
	}
	if digest == nil {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "reading notes not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, digest)
}

// SaveMarkdown handles POST /summary/{number}/markdown: the body is the raw
// rendered markdown, stored as a blob.
func (h *SummaryHandler) SaveMarkdown(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	markdown, err := io.ReadAll(r.Body)
	if err != nil || strings.TrimSpace(string(markdown)) == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "markdown body is required")
		return
	}

	url := h.service.SaveDigestMarkdown(r.Context(), string(markdown), number)
	if url == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save markdown")
		return
	}
	common.RespondJSON(w, http.StatusOK, url)
}
