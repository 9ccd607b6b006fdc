package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"notebookmark-backend/domain"
	"notebookmark-backend/pkg/common"
	"notebookmark-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostService is the slice of the storage service the post endpoints need.
type PostService interface {
	ListPosts(ctx context.Context, isRead bool) ([]domain.PostListing, error)
	GetPost(ctx context.Context, rowKey string) (*domain.Post, error)
	SavePost(ctx context.Context, post domain.Post) error
	DeletePost(ctx context.Context, rowKey string) (bool, error)
}

// PostExtractor scrapes article metadata into a post.
type PostExtractor interface {
	ExtractPost(ctx context.Context, url string) (*domain.Post, error)
}

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	service   PostService
	extractor PostExtractor
	logger    *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(service PostService, extractor PostExtractor, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		service:   service,
		extractor: extractor,
		logger:    logger,
	}
}

// ListUnread handles GET /posts
func (h *PostHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListRead handles GET /posts/read
func (h *PostHandler) ListRead(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request, isRead bool) {
	listings, err := h.service.ListPosts(r.Context(), isRead)
	if err != nil {
		h.logger.Error("failed to list posts", zap.Bool("isRead", isRead), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to list posts")
		return
	}
	common.RespondJSON(w, http.StatusOK, listings)
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get post", zap.String("id", id), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to get post")
		return
	}
	if post == nil {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "post not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, post)
}

// Save handles POST /posts
func (h *PostHandler) Save(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(post.PartitionKey) == "" ||
		strings.TrimSpace(post.RowKey) == "" ||
		strings.TrimSpace(post.Title) == "" ||
		strings.TrimSpace(post.URL) == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "partition key, row key, title and url are required")
		return
	}

	if err := h.service.SavePost(r.Context(), post); err != nil {
		h.logger.Error("failed to save post", zap.String("rowKey", post.RowKey), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save post")
		return
	}
	common.RespondJSON(w, http.StatusOK, post)
}

// ExtractPostRequest is the body of POST /posts/extractPostDetails.
type ExtractPostRequest struct {
	URL string `json:"url" validate:"required"`
}

// ExtractPostDetails handles POST /posts/extractPostDetails: scrape the URL,
// save the resulting post and return it.
func (h *PostHandler) ExtractPostDetails(w http.ResponseWriter, r *http.Request) {
	var req ExtractPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	decoded, err := url.QueryUnescape(req.URL)
	if err != nil {
		decoded = req.URL
	}

	post, err := h.extractor.ExtractPost(r.Context(), decoded)
	if err != nil {
		h.logger.Error("failed to extract post details", zap.String("url", decoded), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to extract post details")
		return
	}

	if err := h.service.SavePost(r.Context(), *post); err != nil {
		h.logger.Error("failed to save extracted post", zap.String("url", decoded), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save post")
		return
	}
	common.RespondJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existed, err := h.service.DeletePost(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete post", zap.String("id", id), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to delete post")
		return
	}
	if !existed {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "post not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, nil)
}
