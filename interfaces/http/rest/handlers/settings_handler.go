package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"notebookmark-backend/domain"
	"notebookmark-backend/pkg/common"

	"go.uber.org/zap"
)

// SettingsService is the slice of the storage service the settings endpoints
// need.
type SettingsService interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
	NextDigestNumber(ctx context.Context) (string, error)
}

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	service SettingsService
	logger  *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger,
	}
}

// Get handles GET /settings, lazily creating the defaults on first read.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.logger.Error("failed to get settings", zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to get settings")
		return
	}
	common.RespondJSON(w, http.StatusOK, settings)
}

// Save handles POST /settings/SaveSettings
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(settings.PartitionKey) == "" ||
		strings.TrimSpace(settings.RowKey) == "" ||
		strings.TrimSpace(settings.LastBookmarkDate) == "" ||
		strings.TrimSpace(settings.ReadingNotesCounter) == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "partition key, row key, last bookmark date and reading notes counter are required")
		return
	}

	if err := h.service.SaveSettings(r.Context(), settings); err != nil {
		h.logger.Error("failed to save settings", zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save settings")
		return
	}
	common.RespondJSON(w, http.StatusOK, nil)
}

// NextCounter handles GET /settings/GetNextReadingNotesCounter
func (h *SettingsHandler) NextCounter(w http.ResponseWriter, r *http.Request) {
	counter, err := h.service.NextDigestNumber(r.Context())
	if err != nil {
		h.logger.Error("failed to get next digest number", zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to get counter")
		return
	}
	common.RespondJSON(w, http.StatusOK, counter)
}
