package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"notebookmark-backend/domain"
	"notebookmark-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteService is the slice of the storage service the note endpoints need.
type NoteService interface {
	CreateOrReplaceNote(ctx context.Context, note domain.Note) error
	MarkPostRead(ctx context.Context, postID string) error
	GetNotes(ctx context.Context) ([]domain.Note, error)
	NotesForDigest(ctx context.Context, digestID string) ([]domain.ReadingNote, error)
	SaveDigest(ctx context.Context, digest *domain.ReadingNotes) string
	UpdateReadStatusFromNotes(ctx context.Context) error
}

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	service NoteService
	logger  *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(service NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /notes/note: create or replace the note, then mark the
// referenced post as read.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var note domain.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if !note.Validate() {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "comment is required")
		return
	}

	if err := h.service.CreateOrReplaceNote(r.Context(), note); err != nil {
		h.logger.Error("failed to save note", zap.String("rowKey", note.RowKey), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save note")
		return
	}

	if note.PostID != "" {
		if err := h.service.MarkPostRead(r.Context(), note.PostID); err != nil {
			// The note is saved; the read flag catches up on the next sweep.
			h.logger.Warn("failed to mark post read", zap.String("postID", note.PostID), zap.Error(err))
		}
	}
	common.RespondJSON(w, http.StatusCreated, note)
}

// List handles GET /notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.GetNotes(r.Context())
	if err != nil {
		h.logger.Error("failed to list notes", zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to list notes")
		return
	}
	common.RespondJSON(w, http.StatusOK, notes)
}

// NotesForSummary handles GET /notes/GetNotesForSummary/{readingNotesID}.
// No matches yields an empty list, not an error.
func (h *NoteHandler) NotesForSummary(w http.ResponseWriter, r *http.Request) {
	digestID := chi.URLParam(r, "readingNotesID")

	notes, err := h.service.NotesForDigest(r.Context(), digestID)
	if err != nil {
		h.logger.Error("failed to get notes for digest", zap.String("digestID", digestID), zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to get notes")
		return
	}
	common.RespondJSON(w, http.StatusOK, notes)
}

// SaveReadingNotes handles POST /notes/SaveReadingNotes: persist the digest
// JSON snapshot and return the blob URL.
func (h *NoteHandler) SaveReadingNotes(w http.ResponseWriter, r *http.Request) {
	var digest domain.ReadingNotes
	if err := json.NewDecoder(r.Body).Decode(&digest); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(digest.Number) == "" || strings.TrimSpace(digest.Title) == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "number and title are required")
		return
	}

	url := h.service.SaveDigest(r.Context(), &digest)
	if url == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to save reading notes")
		return
	}
	common.RespondJSON(w, http.StatusOK, url)
}

// UpdatePostReadStatus handles GET /notes/UpdatePostReadStatus: run the bulk
// read-status sweep.
func (h *NoteHandler) UpdatePostReadStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.service.UpdateReadStatusFromNotes(r.Context()); err != nil {
		h.logger.Error("failed to update post read status", zap.Error(err))
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "failed to update post read status")
		return
	}
	common.RespondJSON(w, http.StatusOK, nil)
}
